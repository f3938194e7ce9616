package firestore

import (
	"context"
	"errors"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hondaapi/internal/apperr"
	"hondaapi/internal/docstore"
	"hondaapi/internal/model"
)

const service = "firestore"

// ClientFunc yields the shared Firestore client, creating it on first use.
type ClientFunc func(ctx context.Context) (*gfs.Client, error)

// Store implements docstore.Store on Cloud Firestore. Native timestamps come
// back as time.Time, integers as int64 and doubles as float64.
type Store struct {
	client ClientFunc
}

// NewStore creates a Store that obtains its client lazily from fn.
func NewStore(fn ClientFunc) *Store {
	return &Store{client: fn}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) List(ctx context.Context, collection string) ([]model.Record, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	return collect(c.Collection(collection).Documents(ctx))
}

func (s *Store) ListWhere(ctx context.Context, collection, field string, value any) ([]model.Record, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	return collect(c.Collection(collection).Where(field, "==", value).Documents(ctx))
}

func (s *Store) Get(ctx context.Context, collection, id string) (model.Record, error) {
	c, err := s.client(ctx)
	if err != nil {
		return model.Record{}, apperr.Remote(service, err)
	}
	snap, err := c.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return model.Record{}, classify(err, collection, id)
	}
	return model.Record{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *Store) GetMany(ctx context.Context, collection string, ids []string) (map[string]model.Record, error) {
	out := make(map[string]model.Record, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	c, err := s.client(ctx)
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	refs := make([]*gfs.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, c.Collection(collection).Doc(id))
	}
	snaps, err := c.GetAll(ctx, refs)
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		out[snap.Ref.ID] = model.Record{ID: snap.Ref.ID, Fields: snap.Data()}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	c, err := s.client(ctx)
	if err != nil {
		return "", apperr.Remote(service, err)
	}
	ref, _, err := c.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", apperr.Remote(service, err)
	}
	return ref.ID, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	c, err := s.client(ctx)
	if err != nil {
		return apperr.Remote(service, err)
	}
	if _, err := c.Collection(collection).Doc(id).Set(ctx, fields); err != nil {
		return apperr.Remote(service, err)
	}
	return nil
}

// Merge uses Update, which fails with NotFound when the document is absent.
// Keys are passed as literal field paths so names containing dots are kept whole.
func (s *Store) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	c, err := s.client(ctx)
	if err != nil {
		return apperr.Remote(service, err)
	}
	updates := make([]gfs.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, gfs.Update{FieldPath: gfs.FieldPath{k}, Value: v})
	}
	if _, err := c.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return classify(err, collection, id)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	c, err := s.client(ctx)
	if err != nil {
		return apperr.Remote(service, err)
	}
	if _, err := c.Collection(collection).Doc(id).Delete(ctx, gfs.Exists); err != nil {
		return classify(err, collection, id)
	}
	return nil
}

// Ping lists at most one collection id.
func (s *Store) Ping(ctx context.Context) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	_, err = c.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func collect(it *gfs.DocumentIterator) ([]model.Record, error) {
	defer it.Stop()

	items := make([]model.Record, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, apperr.Remote(service, err)
		}
		if !snap.Exists() {
			continue
		}
		items = append(items, model.Record{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return items, nil
}

func classify(err error, collection, id string) error {
	if status.Code(err) == codes.NotFound {
		return apperr.NotFound(collection + "/" + id)
	}
	return apperr.Remote(service, err)
}
