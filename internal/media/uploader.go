// Package media uploads client assets to the blob store and builds their
// public download URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"hondaapi/internal/apperr"
	"hondaapi/internal/logging"
	"hondaapi/internal/storage"
)

// TokenKey is the object metadata key holding download tokens. The value may
// list several tokens separated by commas; the first one is used.
const TokenKey = "firebaseStorageDownloadTokens"

// DefaultMaxSize is the upload size limit when none is configured.
const DefaultMaxSize = 10 << 20

// Upload categories, used as object name prefixes.
const (
	CategoryBanners = "Banners"
	CategoryProduct = "Product"
)

// Asset is one in-flight upload.
type Asset struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Category    string
}

// Object is a stored asset and its public URL.
type Object struct {
	Name string
	URL  string
}

// Uploader transfers assets and mints download tokens. It keeps no per-call
// state and is safe for concurrent use.
type Uploader struct {
	store   storage.Storage
	host    string
	maxSize int64
	newID   func() string
	metrics *Metrics
	log     logging.Logger
}

// Option configures an Uploader.
type Option func(*Uploader)

func WithMaxSize(n int64) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.maxSize = n
		}
	}
}

func WithMetrics(m *Metrics) Option { return func(u *Uploader) { u.metrics = m } }

func WithLogger(l logging.Logger) Option { return func(u *Uploader) { u.log = l } }

// WithIDs replaces the generator used for object names and tokens.
func WithIDs(fn func() string) Option { return func(u *Uploader) { u.newID = fn } }

// NewUploader returns an Uploader whose URLs point at host.
func NewUploader(store storage.Storage, host string, opts ...Option) *Uploader {
	u := &Uploader{
		store:   store,
		host:    host,
		maxSize: DefaultMaxSize,
		newID:   uuid.NewString,
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Upload stores the asset under "{category}/{uuid}_{filename}" and returns its
// download URL. Oversized assets are rejected before any transfer. If the token
// step fails after a successful transfer, the object is removed again.
func (u *Uploader) Upload(ctx context.Context, a Asset) (Object, error) {
	if a.Size > u.maxSize {
		u.metrics.observe(a.Category, "too_large")
		return Object{}, &apperr.UploadError{Op: "validate", Err: apperr.ErrTooLarge}
	}
	if a.Body == nil {
		u.metrics.observe(a.Category, "failed")
		return Object{}, &apperr.UploadError{Op: "validate", Err: fmt.Errorf("empty body")}
	}

	name := u.objectName(a.Category, a.Filename)
	_, err := u.store.Put(ctx, name, a.Body, storage.PutObjectOptions{
		Size:        a.Size,
		ContentType: a.ContentType,
		Metadata:    map[string]string{"original-filename": a.Filename},
	})
	if err != nil {
		u.metrics.observe(a.Category, "failed")
		return Object{}, &apperr.UploadError{Op: "put", Err: err}
	}

	link, err := u.URLFor(ctx, name)
	if err != nil {
		u.metrics.observe(a.Category, "failed")
		if delErr := u.store.Delete(ctx, name); delErr != nil {
			u.log.Error(ctx, "orphaned object not removed", "object", name, "error", delErr)
		}
		return Object{}, err
	}

	u.metrics.observe(a.Category, "ok")
	u.log.Info(ctx, "asset uploaded", "object", name, "size", a.Size, "content_type", a.ContentType)
	return Object{Name: name, URL: link}, nil
}

// URLFor returns the download URL of an existing object. A token already in
// the object's metadata is reused; otherwise one is minted and merged in.
func (u *Uploader) URLFor(ctx context.Context, name string) (string, error) {
	info, err := u.store.Stat(ctx, name)
	if err != nil {
		return "", &apperr.UploadError{Op: "stat", Err: err}
	}

	token := tokenFrom(info.Metadata)
	if token == "" {
		token = u.newID()
		meta := make(map[string]string, len(info.Metadata)+1)
		for k, v := range info.Metadata {
			meta[k] = v
		}
		meta[TokenKey] = token
		if _, err := u.store.UpdateMetadata(ctx, name, meta); err != nil {
			return "", &apperr.UploadError{Op: "metadata", Err: err}
		}
	}

	return fmt.Sprintf("https://%s/v0/b/%s/o/%s?alt=media&token=%s",
		u.host, u.store.Bucket(), url.PathEscape(name), url.QueryEscape(token)), nil
}

// Discard deletes an uploaded object. Used to undo an upload whose entity write failed.
func (u *Uploader) Discard(ctx context.Context, name string) error {
	if err := u.store.Delete(ctx, name); err != nil {
		return &apperr.UploadError{Op: "delete", Err: err}
	}
	return nil
}

func (u *Uploader) objectName(category, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return category + "/" + u.newID() + "_" + base
}

// tokenFrom matches the key case-insensitively; S3 gateways canonicalise
// user metadata keys.
func tokenFrom(meta map[string]string) string {
	for k, v := range meta {
		if !strings.EqualFold(k, TokenKey) {
			continue
		}
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				return t
			}
		}
	}
	return ""
}

// Metrics counts uploads by outcome. A nil *Metrics records nothing.
type Metrics struct {
	uploads *prometheus.CounterVec
}

// NewMetrics registers the upload counter on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_uploads_total",
				Help: "Asset uploads by category and result.",
			},
			[]string{"category", "result"},
		),
	}
	if err := reg.Register(m.uploads); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(category, result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(category, result).Inc()
}
