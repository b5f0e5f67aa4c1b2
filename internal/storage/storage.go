package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"rentease_backend/internal/config"
)

// Storage is the object store behind all upload buckets. Keys are
// slash-separated and always start with the bucket name.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// URL is the public address of an object in a public bucket.
	URL(key string) string
	// SignedURL grants temporary read access to an object in a private bucket.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config selects and configures the backend.
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // local only
	BaseURL    string // public URL prefix
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // R2 account endpoint or a custom S3 endpoint
	UseSSL     bool
	PublicRead bool // public-read ACL on objects of public buckets
}

// ConfigFrom maps the application config section onto Config.
func ConfigFrom(cfg *config.Config) Config {
	s := cfg.Storage
	return Config{
		Type:       s.Type,
		BasePath:   s.BasePath,
		BaseURL:    s.BaseURL,
		Bucket:     s.Bucket,
		Region:     s.Region,
		AccessKey:  s.AccessKey,
		SecretKey:  s.SecretKey,
		Endpoint:   s.Endpoint,
		UseSSL:     s.UseSSL,
		PublicRead: s.PublicRead,
	}
}

// NewStorage picks the backend by cfg.Type.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
