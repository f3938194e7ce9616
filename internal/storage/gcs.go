package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// BucketFunc yields the shared bucket handle, creating it on first use.
type BucketFunc func(ctx context.Context) (*gcs.BucketHandle, error)

// gcsStorage implements Storage on Google Cloud Storage, the bucket behind
// Firebase Storage.
type gcsStorage struct {
	bucket BucketFunc
	name   string
}

// NewGCS returns a Storage writing to the named bucket.
func NewGCS(name string, fn BucketFunc) (Storage, error) {
	if name == "" {
		return nil, errors.New("storage bucket is required")
	}
	return &gcsStorage{bucket: fn, name: name}, nil
}

func (g *gcsStorage) Bucket() string { return g.name }

func (g *gcsStorage) object(ctx context.Context, key string) (*gcs.ObjectHandle, error) {
	b, err := g.bucket(ctx)
	if err != nil {
		return nil, err
	}
	return b.Object(key), nil
}

func (g *gcsStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	obj, err := g.object(ctx, key)
	if err != nil {
		return ObjectInfo{}, err
	}
	w := obj.NewWriter(ctx)
	w.ContentType = opt.ContentType
	w.Metadata = opt.Metadata
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("finalize object: %w", err)
	}
	return toInfo(w.Attrs()), nil
}

func (g *gcsStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	obj, err := g.object(ctx, key)
	if err != nil {
		return ObjectInfo{}, err
	}
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}
	return toInfo(attrs), nil
}

// UpdateMetadata sends the merged map; an object patch leaves the content type alone.
func (g *gcsStorage) UpdateMetadata(ctx context.Context, key string, meta map[string]string) (ObjectInfo, error) {
	obj, err := g.object(ctx, key)
	if err != nil {
		return ObjectInfo{}, err
	}
	cur, err := obj.Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}
	attrs, err := obj.If(gcs.Conditions{MetagenerationMatch: cur.Metageneration}).
		Update(ctx, gcs.ObjectAttrsToUpdate{Metadata: mergeMetadata(cur.Metadata, meta)})
	if err != nil {
		return ObjectInfo{}, err
	}
	return toInfo(attrs), nil
}

func (g *gcsStorage) Delete(ctx context.Context, key string) error {
	obj, err := g.object(ctx, key)
	if err != nil {
		return err
	}
	return obj.Delete(ctx)
}

func toInfo(a *gcs.ObjectAttrs) ObjectInfo {
	if a == nil {
		return ObjectInfo{}
	}
	return ObjectInfo{
		Key:          a.Name,
		Size:         a.Size,
		ETag:         a.Etag,
		ContentType:  a.ContentType,
		LastModified: a.Updated,
		Metadata:     a.Metadata,
	}
}
