package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mmynk/billcal/internal/storage/storagetest"
)

// TestPostgresStore needs a disposable database, e.g.
// BILLCAL_TEST_POSTGRES_URL=postgres://localhost/billcal_test?sslmode=disable
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("BILLCAL_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("BILLCAL_TEST_POSTGRES_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := New(ctx, dsn, Options{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	storagetest.Run(t, store)
}
