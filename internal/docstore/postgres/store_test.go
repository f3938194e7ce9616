package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hondaapi/internal/apperr"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestStore_List(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("p1", []byte(`{"NameProduct":"Oil Filter","Price":12.5}`)).
		AddRow("p2", []byte(`{"NameProduct":"Brake Pad","Price":30}`))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, data FROM documents WHERE collection = $1 ORDER BY created_at, id")).
		WithArgs("products").
		WillReturnRows(rows)

	recs, err := store.List(ctx, "products")

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "p1", recs[0].ID)
	assert.Equal(t, "Oil Filter", recs[0].Fields["NameProduct"])
	assert.Equal(t, json.Number("12.5"), recs[0].Fields["Price"])
	assert.Equal(t, json.Number("30"), recs[1].Fields["Price"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List_Error(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT id, data FROM documents").
		WithArgs("products").
		WillReturnError(errors.New("connection reset"))

	recs, err := store.List(context.Background(), "products")

	assert.Nil(t, recs)
	var re *apperr.RemoteError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "postgres", re.Service)
}

func TestStore_ListWhere(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND data->>$2 = $3")).
		WithArgs("users", "fullname", "Nguyen Van A").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("u1", []byte(`{"fullname":"Nguyen Van A"}`)))

	recs, err := store.ListWhere(context.Background(), "users", "fullname", "Nguyen Van A")

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "u1", recs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT data FROM documents WHERE collection = \\$1 AND id = \\$2").
			WithArgs("users", "u1").
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"fullname":"Tran B"}`)))

		rec, err := store.Get(ctx, "users", "u1")

		require.NoError(t, err)
		assert.Equal(t, "u1", rec.ID)
		assert.Equal(t, "Tran B", rec.Fields["fullname"])
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT data FROM documents").
			WithArgs("users", "missing").
			WillReturnError(sql.ErrNoRows)

		_, err := store.Get(ctx, "users", "missing")

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetMany(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()

	t.Run("empty ids skip the query", func(t *testing.T) {
		out, err := store.GetMany(ctx, "users", nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("missing ids are omitted", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("jsonb_array_elements_text($2::jsonb)")).
			WithArgs("users", `["u1","u2"]`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("u1", []byte(`{"fullname":"Le C"}`)))

		out, err := store.GetMany(ctx, "users", []string{"u1", "u2"})

		require.NoError(t, err)
		assert.Len(t, out, 1)
		assert.Equal(t, "Le C", out["u1"].Fields["fullname"])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Create(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("banners", sqlmock.AnyArg(), []byte(`{"Title":"Sale"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.Create(context.Background(), "banners", map[string]any{"Title": "Sale"})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Set(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data")).
		WithArgs("users", "u9", []byte(`{"uid":"u9"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), "users", "u9", map[string]any{"uid": "u9"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Merge(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET data = data || $3::jsonb")).
			WithArgs("services", "s1", []byte(`{"price":150}`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Merge(ctx, "services", "s1", map[string]any{"price": 150}))
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs("services", "nope", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Merge(ctx, "services", "nope", map[string]any{"price": 1})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	store, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM documents WHERE collection = \\$1 AND id = \\$2").
		WithArgs("vehicles", "v1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("vehicles", "v2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("vehicles", "v3").
		WillReturnError(errors.New("lock timeout"))

	assert.NoError(t, store.Delete(ctx, "vehicles", "v1"))
	assert.ErrorIs(t, store.Delete(ctx, "vehicles", "v2"), apperr.ErrNotFound)

	var re *apperr.RemoteError
	assert.ErrorAs(t, store.Delete(ctx, "vehicles", "v3"), &re)
	assert.NoError(t, mock.ExpectationsWereMet())
}
