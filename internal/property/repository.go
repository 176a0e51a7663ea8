package property

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for property persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a property by its unique identifier.
	// Returns ErrPropertyNotFound if the property does not exist.
	GetByID(ctx context.Context, id string) (*Property, error)

	// List retrieves all properties.
	List(ctx context.Context) ([]Property, error)

	// ListByOwner retrieves all properties of a specific owner entity.
	ListByOwner(ctx context.Context, kind OwnerKind, ownerID string) ([]Property, error)

	// ListChildren retrieves all mapped properties referencing the given parent.
	ListChildren(ctx context.Context, parentID string) ([]Property, error)

	// Create inserts a new property. An empty ID is assigned a fresh UUID.
	// Returns ErrPropertyExists on an ID or owner+identifier collision.
	Create(ctx context.Context, p *Property) error

	// Update modifies an existing property.
	// Returns ErrPropertyNotFound if the property does not exist.
	Update(ctx context.Context, p *Property) error

	// Delete removes a property by ID. Mapped children referencing it are
	// removed by the schema's cascade rule.
	// Returns ErrPropertyNotFound if the property does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository backed by the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// propertyColumns is the canonical SELECT column list, kept in one place so
// every query scans identically.
const propertyColumns = `id, owner_kind, owner_id, identifier, name, kind,
	data_type, format, unit, scale, invalid, settable, queryable,
	parent_id, value, created_at, updated_at`

// GetByID retrieves a property by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProperty(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("querying property: %w", err)
	}
	return p, nil
}

// List retrieves all properties.
func (r *SQLiteRepository) List(ctx context.Context) ([]Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY owner_kind, owner_id, identifier`
	return r.queryProperties(ctx, query)
}

// ListByOwner retrieves all properties of a specific owner entity.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, kind OwnerKind, ownerID string) ([]Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties
		WHERE owner_kind = ? AND owner_id = ?
		ORDER BY identifier`
	return r.queryProperties(ctx, query, string(kind), ownerID)
}

// ListChildren retrieves all mapped properties referencing the given parent.
func (r *SQLiteRepository) ListChildren(ctx context.Context, parentID string) ([]Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties
		WHERE parent_id = ?
		ORDER BY identifier`
	return r.queryProperties(ctx, query, parentID)
}

// Create inserts a new property.
func (r *SQLiteRepository) Create(ctx context.Context, p *Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	formatJSON, err := marshalNullable(p.Format)
	if err != nil {
		return fmt.Errorf("marshalling format: %w", err)
	}
	invalidJSON, err := marshalNullable(p.Invalid)
	if err != nil {
		return fmt.Errorf("marshalling invalid sentinel: %w", err)
	}
	valueJSON, err := marshalNullable(p.Value)
	if err != nil {
		return fmt.Errorf("marshalling value: %w", err)
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO properties (
			id, owner_kind, owner_id, identifier, name, kind,
			data_type, format, unit, scale, invalid, settable, queryable,
			parent_id, value, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		string(p.OwnerKind),
		p.OwnerID,
		p.Identifier,
		p.Name,
		string(p.Kind),
		string(p.DataType),
		formatJSON,
		nullableString(p.Unit),
		nullableInt(p.Scale),
		invalidJSON,
		boolToInt(p.Settable),
		boolToInt(p.Queryable),
		nullableString(p.ParentID),
		valueJSON,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPropertyExists
		}
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// Update modifies an existing property.
func (r *SQLiteRepository) Update(ctx context.Context, p *Property) error {
	exists, err := r.exists(ctx, p.ID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPropertyNotFound
	}

	formatJSON, err := marshalNullable(p.Format)
	if err != nil {
		return fmt.Errorf("marshalling format: %w", err)
	}
	invalidJSON, err := marshalNullable(p.Invalid)
	if err != nil {
		return fmt.Errorf("marshalling invalid sentinel: %w", err)
	}
	valueJSON, err := marshalNullable(p.Value)
	if err != nil {
		return fmt.Errorf("marshalling value: %w", err)
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE properties SET
			owner_kind = ?, owner_id = ?, identifier = ?, name = ?, kind = ?,
			data_type = ?, format = ?, unit = ?, scale = ?, invalid = ?,
			settable = ?, queryable = ?, parent_id = ?, value = ?, updated_at = ?
		WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query,
		string(p.OwnerKind),
		p.OwnerID,
		p.Identifier,
		p.Name,
		string(p.Kind),
		string(p.DataType),
		formatJSON,
		nullableString(p.Unit),
		nullableInt(p.Scale),
		invalidJSON,
		boolToInt(p.Settable),
		boolToInt(p.Queryable),
		nullableString(p.ParentID),
		valueJSON,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	return nil
}

// Delete removes a property by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPropertyNotFound
	}

	return nil
}

// exists checks whether a property ID is present.
func (r *SQLiteRepository) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM properties WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking property existence: %w", err)
	}
	return true, nil
}

// queryProperties runs a multi-row query and scans the results.
func (r *SQLiteRepository) queryProperties(ctx context.Context, query string, args ...any) ([]Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var properties []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property row: %w", err)
		}
		properties = append(properties, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return properties, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProperty scans a single property row.
func scanProperty(row rowScanner) (*Property, error) {
	var (
		p           Property
		ownerKind   string
		kind        string
		dataType    string
		formatJSON  sql.NullString
		unit        sql.NullString
		scale       sql.NullInt64
		invalidJSON sql.NullString
		settable    int
		queryable   int
		parentID    sql.NullString
		valueJSON   sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(
		&p.ID,
		&ownerKind,
		&p.OwnerID,
		&p.Identifier,
		&p.Name,
		&kind,
		&dataType,
		&formatJSON,
		&unit,
		&scale,
		&invalidJSON,
		&settable,
		&queryable,
		&parentID,
		&valueJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.OwnerKind = OwnerKind(ownerKind)
	p.Kind = Kind(kind)
	p.DataType = DataType(dataType)
	p.Settable = settable != 0
	p.Queryable = queryable != 0

	if unit.Valid {
		p.Unit = &unit.String
	}
	if scale.Valid {
		s := int(scale.Int64)
		p.Scale = &s
	}
	if parentID.Valid {
		p.ParentID = &parentID.String
	}

	if formatJSON.Valid && formatJSON.String != "" {
		var f Format
		if err := json.Unmarshal([]byte(formatJSON.String), &f); err != nil {
			return nil, fmt.Errorf("unmarshalling format: %w", err)
		}
		p.Format = &f
	}
	if invalidJSON.Valid && invalidJSON.String != "" {
		if err := json.Unmarshal([]byte(invalidJSON.String), &p.Invalid); err != nil {
			return nil, fmt.Errorf("unmarshalling invalid sentinel: %w", err)
		}
	}
	if valueJSON.Valid && valueJSON.String != "" {
		if err := json.Unmarshal([]byte(valueJSON.String), &p.Value); err != nil {
			return nil, fmt.Errorf("unmarshalling value: %w", err)
		}
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &p, nil
}

// marshalNullable JSON-encodes a value for storage, with nil mapping to NULL.
func marshalNullable(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	// Typed nil pointers (e.g. (*Format)(nil)) also map to NULL.
	if f, ok := v.(*Format); ok && f == nil {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullableInt returns a sql.NullInt64 for optional int pointers.
func nullableInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
