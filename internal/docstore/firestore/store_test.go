package firestore

import (
	"context"
	"errors"
	"testing"

	gfs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hondaapi/internal/apperr"
)

func TestClassify(t *testing.T) {
	nf := classify(status.Error(codes.NotFound, "no document"), "users", "u1")
	assert.ErrorIs(t, nf, apperr.ErrNotFound)
	assert.Equal(t, "users/u1 not found", nf.Error())

	other := classify(status.Error(codes.Unavailable, "try later"), "users", "u1")
	var re *apperr.RemoteError
	assert.ErrorAs(t, other, &re)
	assert.Equal(t, "firestore", re.Service)
}

func TestStore_ClientInitFailure(t *testing.T) {
	initErr := errors.New("missing credentials")
	store := NewStore(func(context.Context) (*gfs.Client, error) { return nil, initErr })
	ctx := context.Background()

	_, err := store.List(ctx, "products")
	assert.ErrorIs(t, err, initErr)

	_, err = store.Get(ctx, "users", "u1")
	var re *apperr.RemoteError
	assert.ErrorAs(t, err, &re)

	assert.ErrorIs(t, store.Delete(ctx, "users", "u1"), initErr)
	assert.ErrorIs(t, store.Ping(ctx), initErr)
}

func TestStore_NoopPaths(t *testing.T) {
	calls := 0
	store := NewStore(func(context.Context) (*gfs.Client, error) {
		calls++
		return nil, errors.New("unused")
	})
	ctx := context.Background()

	out, err := store.GetMany(ctx, "users", nil)
	assert.NoError(t, err)
	assert.Empty(t, out)

	assert.NoError(t, store.Merge(ctx, "users", "u1", map[string]any{}))
	assert.Zero(t, calls)
}
