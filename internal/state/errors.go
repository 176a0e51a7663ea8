package state

import "errors"

// Sentinel errors for state operations.
var (
	// ErrStoreNotConfigured indicates the state store for the property's
	// owner category has no backend. Read paths treat this as "no value"
	// rather than a failure.
	ErrStoreNotConfigured = errors.New("state: store not configured")

	// ErrInvalidState indicates a structurally invalid state record.
	ErrInvalidState = errors.New("state: invalid state")
)
