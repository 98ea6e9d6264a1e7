package postgres

import (
	"os"
	"testing"

	"github.com/julianstephens/droplet/internal/storage/storagetest"
)

// TestStore_Integration runs against a real database.
// Example: POSTGRES_TEST_URL="postgres://droplet_user@localhost:5432/droplet_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	if _, err := store.db.Exec("TRUNCATE footprint_records"); err != nil {
		t.Fatalf("Failed to reset table: %v", err)
	}

	storagetest.TestRemote(t, store)
}
