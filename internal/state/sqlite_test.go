package state

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the property_states table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE property_states (
			property_id TEXT PRIMARY KEY,
			actual_value TEXT,
			expected_value TEXT,
			pending INTEGER NOT NULL DEFAULT 0,
			valid INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestSQLiteBackendFetchAbsent(t *testing.T) {
	backend := NewSQLiteBackend(setupTestDB(t))

	s, err := backend.Fetch(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if s != nil {
		t.Errorf("Fetch(absent) = %v, want nil", s)
	}
}

func TestSQLiteBackendSaveAndFetch(t *testing.T) {
	backend := NewSQLiteBackend(setupTestDB(t))
	ctx := context.Background()
	store := NewStore(backend)

	written, err := store.Apply(ctx, "p1", Patch{
		ActualValue:   float64(21.5),
		HasActual:     true,
		ExpectedValue: float64(25),
		HasExpected:   true,
		Pending:       boolPtr(true),
		Valid:         boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	got, err := backend.Fetch(ctx, "p1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got == nil {
		t.Fatal("Fetch returned nil after save")
	}
	if got.ActualValue != float64(21.5) {
		t.Errorf("ActualValue = %v (%T), want 21.5", got.ActualValue, got.ActualValue)
	}
	if got.ExpectedValue != float64(25) {
		t.Errorf("ExpectedValue = %v, want 25", got.ExpectedValue)
	}
	if !got.Pending || !got.Valid {
		t.Errorf("Pending = %v, Valid = %v, want both true", got.Pending, got.Valid)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps did not round-trip")
	}
	if got.CreatedAt.After(written.UpdatedAt) {
		t.Errorf("CreatedAt %v after write time %v", got.CreatedAt, written.UpdatedAt)
	}
}

func TestSQLiteBackendUpsert(t *testing.T) {
	backend := NewSQLiteBackend(setupTestDB(t))
	ctx := context.Background()
	store := NewStore(backend)

	if _, err := store.Apply(ctx, "p1", Patch{ActualValue: "first", HasActual: true}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if _, err := store.Apply(ctx, "p1", Patch{ActualValue: "second", HasActual: true}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	got, err := backend.Fetch(ctx, "p1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.ActualValue != "second" {
		t.Errorf("ActualValue = %v, want second (last write wins)", got.ActualValue)
	}
}

func TestSQLiteBackendNilValues(t *testing.T) {
	backend := NewSQLiteBackend(setupTestDB(t))
	ctx := context.Background()
	store := NewStore(backend)

	if _, err := store.Apply(ctx, "p1", Patch{HasActual: true, HasExpected: true}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	got, err := backend.Fetch(ctx, "p1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.ActualValue != nil || got.ExpectedValue != nil {
		t.Errorf("values = %v / %v, want nil / nil", got.ActualValue, got.ExpectedValue)
	}
}

func TestSQLiteBackendDelete(t *testing.T) {
	backend := NewSQLiteBackend(setupTestDB(t))
	ctx := context.Background()
	store := NewStore(backend)

	if _, err := store.Apply(ctx, "p1", Patch{ActualValue: int64(1), HasActual: true}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if err := backend.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := backend.Delete(ctx, "p1"); err != nil {
		t.Errorf("Delete of absent record must not error, got %v", err)
	}

	got, err := backend.Fetch(ctx, "p1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got != nil {
		t.Errorf("Fetch after delete = %v, want nil", got)
	}
}
