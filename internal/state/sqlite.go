package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteBackend implements Backend using SQLite.
//
// Values are stored as JSON in the property_states table so any flattened
// scalar round-trips without a per-type column.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a backend over an open SQLite connection.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

// Fetch retrieves the state record for a property, or (nil, nil) when none
// has been written yet.
func (b *SQLiteBackend) Fetch(ctx context.Context, propertyID string) (*State, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT property_id, actual_value, expected_value, pending, valid, created_at, updated_at
		 FROM property_states
		 WHERE property_id = ?`,
		propertyID,
	)

	var (
		s            State
		actualJSON   sql.NullString
		expectedJSON sql.NullString
		pending      int
		valid        int
		createdAt    string
		updatedAt    string
	)

	err := row.Scan(&s.PropertyID, &actualJSON, &expectedJSON, &pending, &valid, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property state: %w", err)
	}

	s.Pending = pending != 0
	s.Valid = valid != 0

	if actualJSON.Valid && actualJSON.String != "" {
		if err := json.Unmarshal([]byte(actualJSON.String), &s.ActualValue); err != nil {
			return nil, fmt.Errorf("unmarshalling actual value: %w", err)
		}
	}
	if expectedJSON.Valid && expectedJSON.String != "" {
		if err := json.Unmarshal([]byte(expectedJSON.String), &s.ExpectedValue); err != nil {
			return nil, fmt.Errorf("unmarshalling expected value: %w", err)
		}
	}

	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &s, nil
}

// Save inserts or replaces the state record for s.PropertyID.
func (b *SQLiteBackend) Save(ctx context.Context, s *State) error {
	if s == nil || s.PropertyID == "" {
		return fmt.Errorf("%w: property id is required", ErrInvalidState)
	}

	actualJSON, err := marshalValue(s.ActualValue)
	if err != nil {
		return fmt.Errorf("marshalling actual value: %w", err)
	}
	expectedJSON, err := marshalValue(s.ExpectedValue)
	if err != nil {
		return fmt.Errorf("marshalling expected value: %w", err)
	}

	_, err = b.db.ExecContext(ctx,
		`INSERT INTO property_states (
			property_id, actual_value, expected_value, pending, valid, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(property_id) DO UPDATE SET
			actual_value = excluded.actual_value,
			expected_value = excluded.expected_value,
			pending = excluded.pending,
			valid = excluded.valid,
			updated_at = excluded.updated_at`,
		s.PropertyID,
		actualJSON,
		expectedJSON,
		boolToInt(s.Pending),
		boolToInt(s.Valid),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving property state: %w", err)
	}

	return nil
}

// Delete removes the state record for a property.
func (b *SQLiteBackend) Delete(ctx context.Context, propertyID string) error {
	if _, err := b.db.ExecContext(ctx, "DELETE FROM property_states WHERE property_id = ?", propertyID); err != nil {
		return fmt.Errorf("deleting property state: %w", err)
	}
	return nil
}

// marshalValue JSON-encodes a flattened scalar, with nil mapping to NULL.
func marshalValue(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
