package service

import (
	"context"
	"errors"
	"time"

	"hondaapi/internal/apperr"
	"hondaapi/internal/logging"
	"hondaapi/internal/media"
	"hondaapi/internal/model"
)

var errNoUploader = errors.New("blob store is not configured")

// assets uploads an optional image ahead of a document write and removes it
// again when that write fails.
type assets struct {
	uploader *media.Uploader
	category string
}

// upload returns the zero Object when a is nil.
func (s assets) upload(ctx context.Context, a *media.Asset) (media.Object, error) {
	if a == nil {
		return media.Object{}, nil
	}
	if s.uploader == nil {
		return media.Object{}, &apperr.UploadError{Op: "put", Err: errNoUploader}
	}
	a.Category = s.category
	return s.uploader.Upload(ctx, *a)
}

func (s assets) rollback(ctx context.Context, log logging.Logger, obj media.Object) {
	if obj.Name == "" || s.uploader == nil {
		return
	}
	if err := s.uploader.Discard(ctx, obj.Name); err != nil {
		log.Error(ctx, "rollback delete failed", "object", obj.Name, "error", err)
	}
}

// BannerService manages home-screen banners.
type BannerService struct {
	coll   collection[model.Banner]
	assets assets
	now    func() time.Time
}

var _ Resource[model.Banner, BannerInput] = (*BannerService)(nil)

// NewBannerService returns a BannerService. uploader may be nil when no blob
// store is configured; writes carrying an image then fail.
func NewBannerService(d Deps, uploader *media.Uploader) *BannerService {
	d = d.withDefaults()
	return &BannerService{
		coll:   newCollection(d, model.CollectionBanners, d.Projector.Banner),
		assets: assets{uploader: uploader, category: media.CategoryBanners},
		now:    time.Now,
	}
}

func (s *BannerService) List(ctx context.Context, search string) ([]model.Banner, error) {
	return s.coll.list(ctx, search)
}

// Create uploads the image, if any, then stores the banner. A failed store
// write removes the uploaded image.
func (s *BannerService) Create(ctx context.Context, in BannerInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	obj, err := s.assets.upload(ctx, in.Image)
	if err != nil {
		return "", err
	}
	id, err := s.coll.create(ctx, map[string]any{
		"Title":       in.Title,
		"NewsContent": in.NewsContent,
		"ImageUrl":    obj.URL,
		"CreatedAt":   s.now().UTC(),
	})
	if err != nil {
		s.assets.rollback(ctx, s.coll.Log, obj)
		return "", err
	}
	return id, nil
}

// Update refreshes CreatedAt. The image URL only changes when a new image is given.
func (s *BannerService) Update(ctx context.Context, id string, in BannerInput) error {
	if err := validate(in); err != nil {
		return err
	}
	if err := s.coll.exists(ctx, id); err != nil {
		return err
	}
	obj, err := s.assets.upload(ctx, in.Image)
	if err != nil {
		return err
	}
	fields := map[string]any{
		"Title":       in.Title,
		"NewsContent": in.NewsContent,
		"CreatedAt":   s.now().UTC(),
	}
	if obj.URL != "" {
		fields["ImageUrl"] = obj.URL
	}
	if err := s.coll.update(ctx, id, fields); err != nil {
		s.assets.rollback(ctx, s.coll.Log, obj)
		return err
	}
	return nil
}

func (s *BannerService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}
