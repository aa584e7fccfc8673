// package store defines the key-document store client used by the domain layer
//
// The store holds named JSON documents grouped into collections and exposes
// CRUD plus atomic set-union/set-difference updates on array-valued fields.
// No multi-document transactions are exposed; everything outside the array
// operations is last-write-wins.
package store

import (
	"context"
	"time"
)

// Store is the narrow client surface of the document store.
//
// Lookup misses are reported as [shared.ErrDocumentNotFound] by Get and as a
// nil document by the Find methods.
type Store interface {
	// Get retrieves a single document.
	Get(ctx context.Context, collection, key string) (*Document, error)

	// Set writes the full document body, creating or replacing it.
	Set(ctx context.Context, collection, key string, fields map[string]any) error

	// Insert writes the document only when no document holds the key,
	// reporting [shared.ErrDocumentExists] otherwise. The existence check
	// and the write are one atomic step.
	Insert(ctx context.Context, collection, key string, fields map[string]any) error

	// Create writes a new document under a store-assigned key and returns the key.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Merge overlays the given fields onto the existing document. Fields not
	// named are left untouched. Concurrent merges race last-write-wins.
	Merge(ctx context.Context, collection, key string, fields map[string]any) error

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, key string) error

	// ArrayUnion atomically adds value to the named array field unless it is
	// already present.
	ArrayUnion(ctx context.Context, collection, key, field, value string) error

	// ArrayRemove atomically strips every occurrence of value from the named
	// array field. Removing an absent value is a no-op.
	ArrayRemove(ctx context.Context, collection, key, field, value string) error

	// FindArrayContains returns every document in the collection whose named
	// array field contains value. Order is store-defined.
	FindArrayContains(ctx context.Context, collection, field, value string) ([]*Document, error)

	// FindFieldEquals returns the first document whose named field equals
	// value, or nil when there is no match.
	FindFieldEquals(ctx context.Context, collection, field, value string) (*Document, error)
}

// Document is a decoded record from the store.
type Document struct {
	Collection string
	Key        string
	Fields     map[string]any
}

// String returns the named field as a string, or "" when absent or mistyped.
func (d *Document) String(field string) string {
	s, _ := d.Fields[field].(string)
	return s
}

// Strings returns the named array field as a string slice.
//
// JSON decoding yields []any, so elements are converted one by one; non-string
// elements are skipped.
func (d *Document) Strings(field string) []string {
	raw, ok := d.Fields[field].([]any)
	if !ok {
		// Round-tripped documents may still hold a typed slice.
		if typed, ok := d.Fields[field].([]string); ok {
			return append([]string(nil), typed...)
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

// Time returns the named field parsed as an RFC 3339 timestamp, or the zero
// time when absent or malformed.
func (d *Document) Time(field string) time.Time {
	s, ok := d.Fields[field].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Timestamp formats t the way documents store timestamps.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
