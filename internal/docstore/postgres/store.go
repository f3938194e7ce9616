package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hondaapi/internal/apperr"
	"hondaapi/internal/docstore"
	"hondaapi/internal/model"
)

const service = "postgres"

// Store is a PostgreSQL implementation of docstore.Store. Each document is one
// JSONB row keyed by (collection, id); there is no per-collection schema.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ docstore.Store = (*Store)(nil)

// List returns all documents of a collection in insertion order.
func (s *Store) List(ctx context.Context, collection string) ([]model.Record, error) {
	const q = `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	return scanRecords(rows)
}

// ListWhere filters on the text value of a top-level JSON field.
func (s *Store) ListWhere(ctx context.Context, collection, field string, value any) ([]model.Record, error) {
	const q = `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND data->>$2 = $3
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, q, collection, field, fmt.Sprint(value))
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	return scanRecords(rows)
}

// Get fetches a single document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (model.Record, error) {
	const q = `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	var raw []byte
	if err := s.db.QueryRowContext(ctx, q, collection, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Record{}, apperr.NotFound(collection + "/" + id)
		}
		return model.Record{}, apperr.Remote(service, err)
	}
	fields, err := decode(raw)
	if err != nil {
		return model.Record{}, apperr.Remote(service, err)
	}
	return model.Record{ID: id, Fields: fields}, nil
}

// GetMany fetches the given ids in one query. The id list travels as a JSON
// array so the query has only scalar parameters.
func (s *Store) GetMany(ctx context.Context, collection string, ids []string) (map[string]model.Record, error) {
	out := make(map[string]model.Record, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	idList, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	const q = `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND id IN (SELECT jsonb_array_elements_text($2::jsonb))
	`
	rows, err := s.db.QueryContext(ctx, q, collection, string(idList))
	if err != nil {
		return nil, apperr.Remote(service, err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		out[r.ID] = r
	}
	return out, nil
}

// Create inserts a document under a fresh UUID.
func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	const q = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, q, collection, id, raw); err != nil {
		return "", apperr.Remote(service, err)
	}
	return id, nil
}

// Set upserts the document at id, replacing its data.
func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	const q = `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`
	if _, err := s.db.ExecContext(ctx, q, collection, id, raw); err != nil {
		return apperr.Remote(service, err)
	}
	return nil
}

// Merge applies a shallow JSONB merge to an existing document.
func (s *Store) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	const q = `UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`
	return s.execOne(ctx, collection, id, q, collection, id, raw)
}

// Delete removes a document by id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	return s.execOne(ctx, collection, id, q, collection, id)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) execOne(ctx context.Context, collection, id, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return apperr.Remote(service, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Remote(service, err)
	}
	if n == 0 {
		return apperr.NotFound(collection + "/" + id)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]model.Record, error) {
	defer rows.Close()

	items := make([]model.Record, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, apperr.Remote(service, err)
		}
		fields, err := decode(raw)
		if err != nil {
			return nil, apperr.Remote(service, fmt.Errorf("decode %s: %w", id, err))
		}
		items = append(items, model.Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Remote(service, err)
	}
	return items, nil
}

// decode keeps numbers as json.Number so integer and decimal fields are not
// forced through float64 before projection sees them.
func decode(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(raw) == 0 {
		return fields, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
