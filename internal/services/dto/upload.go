package dto

import "time"

// UploadResponse - для приватных бакетов URL подписан и временный
type UploadResponse struct {
	Bucket       string `json:"bucket"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

type FileLinkRequest struct {
	Path string `form:"path" validate:"required,max=500"`
}

type FileLinkResponse struct {
	Path      string     `json:"path"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
