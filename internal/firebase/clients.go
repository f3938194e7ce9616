// Package firebase owns the process-wide Firebase handles. Each handle is built
// once on first use and shared for the lifetime of the process.
package firebase

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"hondaapi/internal/config"
)

// Clients hands out the shared Firestore client and storage bucket.
// It is safe for concurrent use.
type Clients struct {
	app    *fb.App
	bucket string

	fsOnce sync.Once
	fs     *firestore.Client
	fsErr  error

	bktOnce sync.Once
	bkt     *gcs.BucketHandle
	bktErr  error
}

// NewClients initialises the Firebase app. Service clients are created lazily.
func NewClients(ctx context.Context, cfg config.FirebaseConfig) (*Clients, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return &Clients{app: app, bucket: cfg.StorageBucket}, nil
}

// Firestore returns the shared Firestore client. The first call's context is
// used for client construction only.
func (c *Clients) Firestore(ctx context.Context) (*firestore.Client, error) {
	c.fsOnce.Do(func() {
		c.fs, c.fsErr = c.app.Firestore(context.WithoutCancel(ctx))
		if c.fsErr != nil {
			c.fsErr = fmt.Errorf("init firestore: %w", c.fsErr)
		}
	})
	return c.fs, c.fsErr
}

// Bucket returns the handle of the configured default storage bucket.
func (c *Clients) Bucket(ctx context.Context) (*gcs.BucketHandle, error) {
	c.bktOnce.Do(func() {
		cli, err := c.app.Storage(context.WithoutCancel(ctx))
		if err != nil {
			c.bktErr = fmt.Errorf("init storage: %w", err)
			return
		}
		c.bkt, c.bktErr = cli.Bucket(c.bucket)
		if c.bktErr != nil {
			c.bktErr = fmt.Errorf("open bucket %q: %w", c.bucket, c.bktErr)
		}
	})
	return c.bkt, c.bktErr
}

// BucketName is the configured default bucket.
func (c *Clients) BucketName() string {
	return c.bucket
}

// Close releases the Firestore client if it was created.
func (c *Clients) Close() error {
	if c.fs != nil {
		return c.fs.Close()
	}
	return nil
}
