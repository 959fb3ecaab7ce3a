package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunerp/backend/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func TestObjectKey(t *testing.T) {
	companyID := uuid.New()
	key := ObjectKey(companyID, "receipts", "Facture STEG.JPG")

	assert.True(t, strings.HasPrefix(key, "companies/"+companyID.String()+"/receipts/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ObjectKey(companyID, "receipts", "Facture STEG.JPG"))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("https://cdn.example.tn/")

	url, err := s.Put(ctx, "companies/x/logo.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.tn/companies/x/logo.png", url)

	data, contentType, ok := s.Get("companies/x/logo.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, s.Delete(ctx, "companies/x/logo.png"))
	_, _, ok = s.Get("companies/x/logo.png")
	assert.False(t, ok)

	_, err = s.Put(ctx, "", nil, "")
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	s, err := New(ctx, &config.StorageConfig{Type: "memory"}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	s, err = New(ctx, &config.StorageConfig{
		Type:            "s3",
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "tunerp",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	}, log)
	require.NoError(t, err)
	assert.Equal(t, "tunerp", s.(*S3Storage).Bucket())

	_, err = New(ctx, &config.StorageConfig{Type: "ftp"}, log)
	assert.Error(t, err)
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), &config.StorageConfig{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}
