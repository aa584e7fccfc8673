package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore implements [Store] on a local SQLite database.
//
// Documents live in a single table keyed by (collection, key) with a JSON
// body. Each mutation runs in its own transaction, which is what gives the
// array operations their atomic set semantics under concurrent callers;
// Set and Merge remain last-write-wins by contract.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStore creates a SQLiteStore over an open database connection.
//
// The documents table must exist; run [shared.RunMigrations] first.
func NewSQLiteStore(db *sql.DB, logger *log.Logger) *SQLiteStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SQLiteStore{db: db, logger: logger}
}

// Get retrieves a single document by collection and key.
func (s *SQLiteStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	query := `SELECT body FROM documents WHERE collection = ? AND key = ?`

	var body string
	err := s.db.QueryRowContext(ctx, query, collection, key).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", shared.ErrDocumentNotFound, collection, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return decodeDocument(collection, key, body)
}

// Set writes the full document body, creating or replacing it.
func (s *SQLiteStore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, key, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, collection, key, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

// Insert writes the document only when the key is unclaimed. The primary key
// constraint makes the check-and-write a single step.
func (s *SQLiteStore) Insert(ctx context.Context, collection, key string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `INSERT INTO documents (collection, key, body, updated_at) VALUES (?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, collection, key, string(body), time.Now().UTC()); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s/%s", shared.ErrDocumentExists, collection, key)
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// Create writes a new document under a generated key and returns the key.
func (s *SQLiteStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	key := shared.GenerateID()
	if err := s.Set(ctx, collection, key, fields); err != nil {
		return "", err
	}
	return key, nil
}

// Merge overlays the given fields onto the existing document.
func (s *SQLiteStore) Merge(ctx context.Context, collection, key string, fields map[string]any) error {
	return s.mutate(ctx, collection, key, func(body map[string]any) {
		for k, v := range fields {
			body[k] = v
		}
	})
}

// Delete removes a document. Deleting an absent document is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, collection, key string) error {
	query := `DELETE FROM documents WHERE collection = ? AND key = ?`
	if _, err := s.db.ExecContext(ctx, query, collection, key); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// ArrayUnion atomically adds value to the named array field unless present.
func (s *SQLiteStore) ArrayUnion(ctx context.Context, collection, key, field, value string) error {
	return s.mutate(ctx, collection, key, func(body map[string]any) {
		current := fieldStrings(body, field)
		if slices.Contains(current, value) {
			return
		}
		body[field] = append(current, value)
	})
}

// ArrayRemove atomically strips every occurrence of value from the named array field.
func (s *SQLiteStore) ArrayRemove(ctx context.Context, collection, key, field, value string) error {
	return s.mutate(ctx, collection, key, func(body map[string]any) {
		current := fieldStrings(body, field)
		kept := make([]string, 0, len(current))
		for _, v := range current {
			if v != value {
				kept = append(kept, v)
			}
		}
		body[field] = kept
	})
}

// FindArrayContains returns every document whose named array field contains value.
func (s *SQLiteStore) FindArrayContains(ctx context.Context, collection, field, value string) ([]*Document, error) {
	docs, err := s.scanCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	var matches []*Document
	for _, doc := range docs {
		if slices.Contains(doc.Strings(field), value) {
			matches = append(matches, doc)
		}
	}
	return matches, nil
}

// FindFieldEquals returns the first document whose named field equals value, or nil.
func (s *SQLiteStore) FindFieldEquals(ctx context.Context, collection, field, value string) (*Document, error) {
	docs, err := s.scanCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if doc.String(field) == value {
			return doc, nil
		}
	}
	return nil, nil
}

// mutate runs a read-modify-write of one document body inside a transaction.
//
// The connection's DSN makes this an immediate transaction, so concurrent
// mutators queue on the write lock instead of deadlocking on upgrade. See
// [shared.NewDatabase].
func (s *SQLiteStore) mutate(ctx context.Context, collection, key string, fn func(body map[string]any)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE collection = ? AND key = ?`, collection, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s/%s", shared.ErrDocumentNotFound, collection, key)
	}
	if err != nil {
		return fmt.Errorf("failed to query document: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	fn(body)

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND key = ?`
	if _, err := tx.ExecContext(ctx, query, string(encoded), time.Now().UTC(), collection, key); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	return tx.Commit()
}

// scanCollection loads every document in a collection.
func (s *SQLiteStore) scanCollection(ctx context.Context, collection string) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, body FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		doc, err := decodeDocument(collection, key, body)
		if err != nil {
			s.logger.Warn("skipping malformed document", "collection", collection, "key", key, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

func decodeDocument(collection, key, body string) (*Document, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document body: %w", err)
	}
	return &Document{Collection: collection, Key: key, Fields: fields}, nil
}

func fieldStrings(body map[string]any, field string) []string {
	raw, ok := body[field].([]any)
	if !ok {
		if typed, ok := body[field].([]string); ok {
			return typed
		}
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
