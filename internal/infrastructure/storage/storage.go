// Package storage stores uploaded files (charge receipts, company logos)
// in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ObjectStorage writes and removes objects and returns their public URL
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New builds the storage backend selected by cfg.Type
func New(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (ObjectStorage, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return NewMemoryStorage(cfg.PublicURL), nil
	case "s3":
		s, err := NewS3Storage(ctx, cfg, WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// ObjectKey builds a tenant-scoped key such as
// companies/<id>/receipts/<uuid>.jpg
func ObjectKey(companyID uuid.UUID, folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("companies", companyID.String(), folder, uuid.NewString()+ext)
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
