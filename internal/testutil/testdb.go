package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/claquete/internal/db"
	"github.com/alexanderramin/claquete/internal/repository"
)

// NewTestDB opens a migrated in-memory store that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestProjectTx returns the transactional project store over database.
func NewTestProjectTx(database *sql.DB) repository.ProjectTx {
	return repository.NewSQLiteProjectTx(db.NewSQLiteUnitOfWork(database))
}
