package service

import (
	"context"
	"time"

	"hondaapi/internal/media"
	"hondaapi/internal/model"
)

// ProductService manages the product catalogue.
type ProductService struct {
	coll   collection[model.Product]
	assets assets
	now    func() time.Time
}

var _ Resource[model.Product, ProductInput] = (*ProductService)(nil)

// NewProductService returns a ProductService. uploader may be nil.
func NewProductService(d Deps, uploader *media.Uploader) *ProductService {
	d = d.withDefaults()
	return &ProductService{
		coll:   newCollection(d, model.CollectionProducts, d.Projector.Product),
		assets: assets{uploader: uploader, category: media.CategoryProduct},
		now:    time.Now,
	}
}

func (s *ProductService) List(ctx context.Context, search string) ([]model.Product, error) {
	return s.coll.list(ctx, search)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	obj, err := s.assets.upload(ctx, in.Image)
	if err != nil {
		return "", err
	}
	id, err := s.coll.create(ctx, map[string]any{
		"NameProduct": in.NameProduct,
		"Price":       in.Price,
		"Description": in.Description,
		"Category":    in.Category,
		"ImageUrl":    obj.URL,
		"AddedDate":   s.now().UTC(),
	})
	if err != nil {
		s.assets.rollback(ctx, s.coll.Log, obj)
		return "", err
	}
	return id, nil
}

// Update refreshes AddedDate and replaces the image only when one is given.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) error {
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
		"NameProduct": in.NameProduct,
		"Price":       in.Price,
		"Description": in.Description,
		"Category":    in.Category,
		"AddedDate":   s.now().UTC(),
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

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}
