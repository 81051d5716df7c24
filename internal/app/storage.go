package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/nadiaputeri/campuscore/internal/storage"
)

// BuildSigner constructs the document URL signer selected by configuration.
func BuildSigner(ctx context.Context, cfg StorageConfig) (storage.URLSigner, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "s3":
		return storage.NewS3Signer(ctx, storage.S3Config{
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			BaseEndpoint: cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	case "local", "":
		return storage.NewLocalSigner(cfg.Local.BaseURL, cfg.Local.Secret)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Backend)
	}
}
