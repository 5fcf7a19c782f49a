// internal/library/testutil_test.go
package library

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestStore opens an in-memory snapshot store. The pool is limited to
// one connection so every statement sees the same database.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}
