package service

import (
	"context"
	"sort"

	"hondaapi/internal/model"
	"hondaapi/internal/projection"
)

// ReviewService lists customer reviews, newest first.
type ReviewService struct {
	coll  collection[model.Review]
	staff staffLookup
}

var _ ReviewLister = (*ReviewService)(nil)

func NewReviewService(d Deps, staff *projection.Resolver, batch bool) *ReviewService {
	d = d.withDefaults()
	return &ReviewService{
		coll:  newCollection[model.Review](d, model.CollectionReviews, nil),
		staff: staffLookup{resolver: staff, batch: batch},
	}
}

// List returns NotFoundError when q.StaffName matches no user.
func (s *ReviewService) List(ctx context.Context, q ReviewQuery) ([]model.Review, error) {
	var (
		recs []model.Record
		err  error
	)
	if q.StaffName != "" {
		staffID, lerr := s.staff.resolver.LookupID(ctx, q.StaffName)
		if lerr != nil {
			return nil, lerr
		}
		recs, err = s.coll.Store.ListWhere(ctx, s.coll.name, "staffId", staffID)
	} else {
		recs, err = s.coll.Store.List(ctx, s.coll.name)
	}
	if err != nil {
		return nil, err
	}

	lookup := s.staff.forRecords(ctx, recs, "staffId")
	items := s.coll.projectAll(ctx, recs, q.Search, func(ctx context.Context, rec model.Record) (model.Review, error) {
		return s.coll.Projector.Review(ctx, rec, lookup)
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
