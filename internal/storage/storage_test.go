package storage

import (
	"context"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hondaapi/internal/config"
)

func TestMergeMetadata(t *testing.T) {
	cur := map[string]string{"owner": "banner-svc", "firebaseStorageDownloadTokens": "old"}

	got := mergeMetadata(cur, map[string]string{"firebaseStorageDownloadTokens": "new", "x": "1"})

	assert.Equal(t, map[string]string{
		"owner":                         "banner-svc",
		"firebaseStorageDownloadTokens": "new",
		"x":                             "1",
	}, got)
	assert.Equal(t, "old", cur["firebaseStorageDownloadTokens"], "input must not be mutated")
	assert.Empty(t, mergeMetadata(nil, nil))
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.BlobConfig
		wantErr string
	}{
		{name: "endpoint", cfg: config.BlobConfig{}, wantErr: "s3 endpoint is required"},
		{name: "credentials", cfg: config.BlobConfig{Endpoint: "localhost:9000"}, wantErr: "s3 credentials are required"},
		{name: "bucket", cfg: config.BlobConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, wantErr: "s3 bucket is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.Nil(t, s)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestNewGCS(t *testing.T) {
	fn := func(context.Context) (*gcs.BucketHandle, error) { return nil, nil }

	_, err := NewGCS("", fn)
	assert.Error(t, err)

	s, err := NewGCS("honda.appspot.com", fn)
	require.NoError(t, err)
	assert.Equal(t, "honda.appspot.com", s.Bucket())
}

func TestToInfo(t *testing.T) {
	assert.Equal(t, ObjectInfo{}, toInfo(nil))

	info := toInfo(&gcs.ObjectAttrs{Name: "Banners/a.png", Size: 3, ContentType: "image/png", Metadata: map[string]string{"k": "v"}})
	assert.Equal(t, "Banners/a.png", info.Key)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, "v", info.Metadata["k"])
}
