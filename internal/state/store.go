package state

import (
	"context"
	"time"

	"github.com/lumenhaus/lumen-core/internal/property"
)

// Logger is the minimal logging interface the state package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store holds runtime state for one owner category.
//
// A store without a backend is valid: the category has runtime state
// disabled, Get and Apply surface ErrStoreNotConfigured, and Remove is a
// no-op. Writes are last-write-wins; there is no compare-and-set.
type Store struct {
	backend Backend
	logger  Logger
}

// NewStore creates a store over the given backend. A nil backend disables
// the category.
func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for store operations.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Configured reports whether the store has a backend.
func (s *Store) Configured() bool {
	return s != nil && s.backend != nil
}

// Get retrieves the state record for a property, or (nil, nil) when none
// has been written yet.
//
// Returns ErrStoreNotConfigured when the category has no backend.
func (s *Store) Get(ctx context.Context, propertyID string) (*State, error) {
	if !s.Configured() {
		return nil, ErrStoreNotConfigured
	}
	return s.backend.Fetch(ctx, propertyID)
}

// Apply merges a patch into the property's state record, creating the
// record on first write. Patch values must already be normalized and
// flattened by the caller.
//
// Returns ErrStoreNotConfigured when the category has no backend.
func (s *Store) Apply(ctx context.Context, propertyID string, patch Patch) (*State, error) {
	if !s.Configured() {
		return nil, ErrStoreNotConfigured
	}

	existing, err := s.backend.Fetch(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if existing == nil {
		existing = &State{
			PropertyID: propertyID,
			CreatedAt:  now,
		}
	}

	if patch.HasActual {
		existing.ActualValue = patch.ActualValue
	}
	if patch.HasExpected {
		existing.ExpectedValue = patch.ExpectedValue
	}
	if patch.Pending != nil {
		existing.Pending = *patch.Pending
	}
	if patch.Valid != nil {
		existing.Valid = *patch.Valid
	}
	existing.UpdatedAt = now

	if err := s.backend.Save(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Debug("property state applied",
		"property_id", propertyID,
		"pending", existing.Pending,
		"valid", existing.Valid,
	)
	return existing, nil
}

// Remove deletes the property's state record. Removing from an unconfigured
// store or removing an absent record is not an error.
func (s *Store) Remove(ctx context.Context, propertyID string) error {
	if !s.Configured() {
		return nil
	}
	return s.backend.Delete(ctx, propertyID)
}

// Stores groups the per-category state stores.
type Stores struct {
	connectors *Store
	devices    *Store
	channels   *Store
}

// NewStores creates the category group. Any store may be unconfigured.
func NewStores(connectors, devices, channels *Store) *Stores {
	return &Stores{
		connectors: connectors,
		devices:    devices,
		channels:   channels,
	}
}

// For returns the store for an owner kind. Unknown kinds map to an
// unconfigured store so callers get ErrStoreNotConfigured instead of a nil
// dereference.
func (s *Stores) For(kind property.OwnerKind) *Store {
	switch kind {
	case property.OwnerConnector:
		return s.connectors
	case property.OwnerDevice:
		return s.devices
	case property.OwnerChannel:
		return s.channels
	default:
		return NewStore(nil)
	}
}
