package service

import (
	"context"

	"hondaapi/internal/model"
	"hondaapi/internal/projection"
)

// staffLookup picks how staff references of one listing are resolved: one
// store read per record, or a single batch read up front.
type staffLookup struct {
	resolver *projection.Resolver
	batch    bool
}

func (s staffLookup) forRecords(ctx context.Context, recs []model.Record, field string) projection.Lookup {
	if s.batch {
		return s.resolver.Prefetch(ctx, projection.ForeignIDs(recs, field))
	}
	return s.resolver
}

// RepairScheduleService lists and edits booked repairs.
type RepairScheduleService struct {
	coll  collection[model.RepairSchedule]
	staff staffLookup
}

var _ Editor[model.RepairSchedule, RepairScheduleInput] = (*RepairScheduleService)(nil)

// NewRepairScheduleService resolves staff ids through staff. With batch set,
// each listing resolves all staff ids in one read.
func NewRepairScheduleService(d Deps, staff *projection.Resolver, batch bool) *RepairScheduleService {
	d = d.withDefaults()
	return &RepairScheduleService{
		coll:  newCollection[model.RepairSchedule](d, model.CollectionRepairSchedules, nil),
		staff: staffLookup{resolver: staff, batch: batch},
	}
}

func (s *RepairScheduleService) List(ctx context.Context, search string) ([]model.RepairSchedule, error) {
	recs, err := s.coll.Store.List(ctx, s.coll.name)
	if err != nil {
		return nil, err
	}
	lookup := s.staff.forRecords(ctx, recs, "staff")
	return s.coll.projectAll(ctx, recs, search, func(ctx context.Context, rec model.Record) (model.RepairSchedule, error) {
		return s.coll.Projector.RepairSchedule(ctx, rec, lookup)
	}), nil
}

func (s *RepairScheduleService) Update(ctx context.Context, id string, in RepairScheduleInput) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.coll.update(ctx, id, in.fields())
}

func (s *RepairScheduleService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}

// TestDriveService lists and edits booked test drives.
type TestDriveService struct {
	coll collection[model.TestDriveSchedule]
}

var _ Editor[model.TestDriveSchedule, TestDriveInput] = (*TestDriveService)(nil)

func NewTestDriveService(d Deps) *TestDriveService {
	d = d.withDefaults()
	return &TestDriveService{coll: newCollection(d, model.CollectionTestDriveSchedules, d.Projector.TestDriveSchedule)}
}

func (s *TestDriveService) List(ctx context.Context, search string) ([]model.TestDriveSchedule, error) {
	return s.coll.list(ctx, search)
}

func (s *TestDriveService) Update(ctx context.Context, id string, in TestDriveInput) error {
	if err := validate(in); err != nil {
		return err
	}
	return s.coll.update(ctx, id, in.fields())
}

func (s *TestDriveService) Delete(ctx context.Context, id string) error {
	return s.coll.delete(ctx, id)
}

// BillingService lists issued bills. Bills are written by the client apps.
type BillingService struct {
	coll collection[model.BillDetail]
}

func NewBillingService(d Deps) *BillingService {
	d = d.withDefaults()
	return &BillingService{coll: newCollection(d, model.CollectionBilling, d.Projector.BillDetail)}
}

func (s *BillingService) List(ctx context.Context, search string) ([]model.BillDetail, error) {
	return s.coll.list(ctx, search)
}
