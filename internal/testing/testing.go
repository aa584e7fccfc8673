// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/Hardrivetech/wavebeat/internal/store"
)

// MustOpenStore opens an in-memory document store with migrations applied.
// The connection is closed when the test finishes.
func MustOpenStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	db := MustOpenDB(t)
	return store.NewSQLiteStore(db, shared.NewLogger(nil))
}

// MustOpenDB opens an in-memory SQLite database with migrations applied.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A pooled second connection would see its own empty in-memory database.
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
