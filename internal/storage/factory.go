package storage

import (
	"fmt"

	"github.com/jasonqian/suppliermatch/internal/config"
)

// NewStorage creates an ObjectStorage instance from the reports
// configuration: "local" (default) or "s3".
func NewStorage(cfg *config.ReportsConfig) (ObjectStorage, error) {
	switch cfg.Storage {
	case "", "local":
		return NewLocalStorage(cfg.Dir)
	case "s3":
		return NewS3Storage(&S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
		})
	default:
		return nil, fmt.Errorf("unknown report storage type %q", cfg.Storage)
	}
}
