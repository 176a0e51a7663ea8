package state

import "context"

// Backend persists state records for one owner category.
//
// Implementations must be thread-safe and use UTC timestamps. Fetch returns
// (nil, nil) when no record exists; absence is not an error.
type Backend interface {
	// Fetch retrieves the state record for a property, or (nil, nil) when
	// none has been written yet.
	Fetch(ctx context.Context, propertyID string) (*State, error)

	// Save inserts or replaces the state record for s.PropertyID.
	Save(ctx context.Context, s *State) error

	// Delete removes the state record for a property. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, propertyID string) error
}
