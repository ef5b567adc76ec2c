package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage abstracts where uploaded files live.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	GetURL(ctx context.Context, path string) (string, error)
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // local
	BaseURL    string // public URL base
	Bucket     string // s3/r2
	Region     string // s3
	AccessKey  string // s3/r2
	SecretKey  string // s3/r2
	Endpoint   string // r2 or custom s3
	UseSSL     bool   // s3/r2
	PublicRead bool
}

// NewStorage builds the backend named by cfg.Type.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
