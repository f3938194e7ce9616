package projection

import (
	"context"
	"errors"
	"strings"

	"hondaapi/internal/apperr"
	"hondaapi/internal/docstore"
	"hondaapi/internal/logging"
	"hondaapi/internal/model"
)

// Display values used when a reference cannot be resolved.
const (
	UnknownStaff = "Unknown Staff"
	Unknown      = "Unknown"
)

// Lookup maps a foreign id to a display value. It never fails.
type Lookup interface {
	Resolve(ctx context.Context, id string) string
}

// Resolver resolves ids of one collection into one of its fields. Each Resolve
// of a non-blank id costs exactly one store read.
type Resolver struct {
	store      docstore.Reader
	collection string
	field      string
	sentinel   string
	log        logging.Logger
}

// NewResolver returns a Resolver reading field from documents of collection.
func NewResolver(store docstore.Reader, collection, field, sentinel string, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.Nop()
	}
	return &Resolver{
		store:      store,
		collection: collection,
		field:      field,
		sentinel:   sentinel,
		log:        log.With("component", "resolver", "collection", collection),
	}
}

// StaffNames resolves user ids to full names.
func StaffNames(store docstore.Reader, sentinel string, log logging.Logger) *Resolver {
	return NewResolver(store, model.CollectionUsers, "fullname", sentinel, log)
}

func (r *Resolver) Resolve(ctx context.Context, id string) string {
	if strings.TrimSpace(id) == "" {
		return r.sentinel
	}
	rec, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			r.log.Warn(ctx, "reference lookup failed", "id", id, "error", err)
		}
		return r.sentinel
	}
	return r.display(rec)
}

// Prefetch resolves all distinct non-blank ids with a single GetMany. A failed
// batch read yields a table that answers the sentinel for every id.
func (r *Resolver) Prefetch(ctx context.Context, ids []string) Table {
	t := Table{names: map[string]string{}, sentinel: r.sentinel}

	seen := make(map[string]struct{}, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return t
	}

	recs, err := r.store.GetMany(ctx, r.collection, uniq)
	if err != nil {
		r.log.Warn(ctx, "batch reference lookup failed", "count", len(uniq), "error", err)
		return t
	}
	for id, rec := range recs {
		t.names[id] = r.display(rec)
	}
	return t
}

// LookupID is the reverse of Resolve: the id of the first document whose field
// equals display. NotFoundError when there is none.
func (r *Resolver) LookupID(ctx context.Context, display string) (string, error) {
	recs, err := r.store.ListWhere(ctx, r.collection, r.field, display)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", apperr.NotFound(r.collection + " with " + r.field + " " + display)
	}
	return recs[0].ID, nil
}

func (r *Resolver) display(rec model.Record) string {
	v, ok := rec.Fields[r.field]
	if !ok || v == nil {
		return r.sentinel
	}
	return toString(v)
}

// Table is a prefetched Lookup. It performs no I/O.
type Table struct {
	names    map[string]string
	sentinel string
}

func (t Table) Resolve(_ context.Context, id string) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return t.sentinel
}
