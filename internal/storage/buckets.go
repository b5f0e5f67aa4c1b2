package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bucket - logical upload area. All buckets share one backend and are kept
// apart by key prefix.
type Bucket struct {
	Name         string
	AllowedTypes []string
	MaxSize      int64 // 0 means the global upload limit
	Image        bool
	Thumbnail    bool
	AdminOnly    bool
	AgentOnly    bool
	Private      bool // served only through signed URLs
}

const (
	BucketPropertyImages = "property-images"
	BucketAvatars        = "avatars"
	BucketAgentDocuments = "agent-documents"
	BucketBlogCovers     = "blog-covers"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp"}

var buckets = map[string]Bucket{
	BucketPropertyImages: {
		Name:         BucketPropertyImages,
		AllowedTypes: imageTypes,
		Image:        true,
		Thumbnail:    true,
		AgentOnly:    true,
	},
	BucketAvatars: {
		Name:         BucketAvatars,
		AllowedTypes: imageTypes,
		MaxSize:      2 << 20,
		Image:        true,
	},
	BucketAgentDocuments: {
		Name:         BucketAgentDocuments,
		AllowedTypes: []string{"application/zip", "application/x-zip-compressed", "application/pdf"},
		AgentOnly:    true,
		Private:      true,
	},
	BucketBlogCovers: {
		Name:         BucketBlogCovers,
		AllowedTypes: imageTypes,
		Image:        true,
		AdminOnly:    true,
	},
}

// LookupBucket returns the bucket definition by name.
func LookupBucket(name string) (Bucket, bool) {
	b, ok := buckets[name]
	return b, ok
}

func (b Bucket) Allows(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, t := range b.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// ObjectKey builds "<bucket>/<owner>/<yyyy/mm>/<uuid><ext>".
func (b Bucket) ObjectKey(ownerID, ext string, now time.Time) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(b.Name, ownerID, now.Format("2006/01"), uuid.NewString()+ext)
}

// ParseKey splits a key built by ObjectKey into bucket and owner.
func ParseKey(key string) (bucket Bucket, ownerID string, ok bool) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 3 || parts[1] == "" || strings.Contains(key, "..") {
		return Bucket{}, "", false
	}
	bucket, ok = buckets[parts[0]]
	return bucket, parts[1], ok
}

// IsPrivateKey reports whether key belongs to a private bucket. Unknown
// prefixes are treated as private.
func IsPrivateKey(key string) bool {
	b, _, ok := ParseKey(key)
	return !ok || b.Private
}

// ThumbnailKey - sibling key for a generated thumbnail.
func ThumbnailKey(key string) string {
	ext := path.Ext(key)
	return fmt.Sprintf("%s_thumb%s", strings.TrimSuffix(key, ext), ".jpg")
}
