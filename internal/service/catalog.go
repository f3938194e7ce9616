package service

import (
	"context"

	"hondaapi/internal/model"
)

// CatalogService manages the workshop's service offerings.
type CatalogService struct {
	coll collection[model.Service]
}

var _ Resource[model.Service, ServiceInput] = (*CatalogService)(nil)

func NewCatalogService(d Deps) *CatalogService {
	d = d.withDefaults()
	return &CatalogService{coll: newCollection(d, model.CollectionServices, d.Projector.Service)}
}

func (s *CatalogService) List(ctx context.Context, search string) ([]model.Service, error) {
	return s.coll.list(ctx, search)
}

func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	return s.coll.create(ctx, in.fields())
}

func (s *CatalogService) Update(ctx context.Context, id string, in ServiceInput) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.coll.update(ctx, id, in.fields())
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}

// VehicleService manages customer vehicles.
type VehicleService struct {
	coll collection[model.Vehicle]
}

var _ Resource[model.Vehicle, VehicleInput] = (*VehicleService)(nil)

func NewVehicleService(d Deps) *VehicleService {
	d = d.withDefaults()
	return &VehicleService{coll: newCollection(d, model.CollectionVehicles, d.Projector.Vehicle)}
}

func (s *VehicleService) List(ctx context.Context, search string) ([]model.Vehicle, error) {
	return s.coll.list(ctx, search)
}

func (s *VehicleService) Create(ctx context.Context, in VehicleInput) (string, error) {
	if err := validate(in); err != nil {
		return "", err
	}
	return s.coll.create(ctx, in.fields())
}

func (s *VehicleService) Update(ctx context.Context, id string, in VehicleInput) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.coll.update(ctx, id, in.updateFields())
}

func (s *VehicleService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}
