// Package storetest provides an in-memory store for tests.
package storetest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"officehub/internal/store"
)

// NewStore creates an in-memory SQLite store with the full schema
// applied. The store is closed automatically when the test completes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	// A second pool connection would see its own empty :memory: database.
	db.SetMaxOpenConns(1)

	if err := store.CreateTablesIfNotExist(db); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return store.New(db)
}
