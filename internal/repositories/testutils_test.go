package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/lastalibi/internal/sqlite"
	"github.com/myrjola/lastalibi/internal/testhelpers"
)

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	db, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	// Set the read pool to read-only mode.
	// The mode=ro flag doesn't seem to work with :memory: and cache=shared.
	if _, err = db.ReadOnly.Exec("PRAGMA query_only = TRUE;"); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return db
}
