// Package service holds one use-case service per stored resource. Services read
// raw records from the document store, project and filter them, and validate
// and write client input back.
package service

import (
	"context"
	"strings"

	"hondaapi/internal/apperr"
	"hondaapi/internal/docstore"
	"hondaapi/internal/logging"
	"hondaapi/internal/model"
	"hondaapi/internal/projection"
)

// Lister lists a resource, keeping only items that match search.
type Lister[T model.Entity] interface {
	List(ctx context.Context, search string) ([]T, error)
}

// Updater applies a partial update to an existing document.
type Updater[In any] interface {
	Update(ctx context.Context, id string, in In) error
}

// Deleter removes a document by id.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Editor lists, updates and deletes documents the client apps create.
type Editor[T model.Entity, In any] interface {
	Lister[T]
	Updater[In]
	Deleter
}

// Resource is the full set of operations of a client-managed collection.
type Resource[T model.Entity, In any] interface {
	Editor[T, In]
	// Create stores a new document and returns its id.
	Create(ctx context.Context, in In) (string, error)
}

// ReviewLister lists reviews, optionally for one staff member.
type ReviewLister interface {
	List(ctx context.Context, q ReviewQuery) ([]model.Review, error)
}

// Deps are the collaborators shared by all services.
type Deps struct {
	Store     docstore.Store
	Projector *projection.Projector
	Log       logging.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Projector == nil {
		d.Projector = &projection.Projector{}
	}
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	return d
}

// collection binds one store collection to its projection.
type collection[T model.Entity] struct {
	Deps
	name    string
	project func(context.Context, model.Record) (T, error)
}

func newCollection[T model.Entity](d Deps, name string, project func(context.Context, model.Record) (T, error)) collection[T] {
	d = d.withDefaults()
	d.Log = d.Log.With("collection", name)
	return collection[T]{Deps: d, name: name, project: project}
}

func (c collection[T]) list(ctx context.Context, search string) ([]T, error) {
	recs, err := c.Store.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return c.projectAll(ctx, recs, search, c.project), nil
}

func (c collection[T]) projectAll(ctx context.Context, recs []model.Record, search string, project func(context.Context, model.Record) (T, error)) []T {
	items := projection.ProjectAll(ctx, c.Projector, c.Log, c.name, recs, project)
	return projection.Filter(items, search)
}

func (c collection[T]) create(ctx context.Context, fields map[string]any) (string, error) {
	id, err := c.Store.Create(ctx, c.name, fields)
	if err != nil {
		return "", err
	}
	c.Log.Info(ctx, "document created", "id", id)
	return id, nil
}

func (c collection[T]) update(ctx context.Context, id string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid(ErrIDRequired)
	}
	return c.Store.Merge(ctx, c.name, id, fields)
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid(ErrIDRequired)
	}
	if err := c.Store.Delete(ctx, c.name, id); err != nil {
		return err
	}
	c.Log.Info(ctx, "document deleted", "id", id)
	return nil
}

// exists fails with NotFoundError when id has no document.
func (c collection[T]) exists(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid(ErrIDRequired)
	}
	_, err := c.Store.Get(ctx, c.name, id)
	return err
}

type validatable interface{ Validate() error }

func validate(in validatable) error {
	return apperr.Invalid(in.Validate())
}
