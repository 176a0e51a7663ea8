package state

import "time"

// State is the runtime value record of a single property.
//
// ActualValue holds the last value reported by the owning integration;
// ExpectedValue holds the last value a caller asked to be applied. Both are
// flattened scalars (bool, int64, float64, string) or nil. Pending marks an
// expected value that has not been confirmed by a matching report yet, and
// Valid marks whether the actual value is currently trustworthy.
type State struct {
	// PropertyID is the unique identifier of the owning property.
	PropertyID string `json:"property_id"`

	// ActualValue is the last reported value, or nil when unknown.
	ActualValue any `json:"actual_value"`

	// ExpectedValue is the last requested value, or nil when none is pending.
	ExpectedValue any `json:"expected_value"`

	// Pending reports whether an expected value awaits confirmation.
	Pending bool `json:"pending"`

	// Valid reports whether the actual value is currently trustworthy.
	Valid bool `json:"valid"`

	// CreatedAt is the timestamp of the first write (UTC).
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last write (UTC).
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy returns an independent copy of the state.
func (s *State) DeepCopy() *State {
	if s == nil {
		return nil
	}
	copy := *s
	return &copy
}

// Patch describes a partial state mutation. The Has* flags distinguish
// "set the value to nil" from "leave the value alone"; the pointer fields
// are applied only when non-nil. Writes are last-write-wins.
type Patch struct {
	// ActualValue replaces the actual value when HasActual is set.
	ActualValue any
	HasActual   bool

	// ExpectedValue replaces the expected value when HasExpected is set.
	ExpectedValue any
	HasExpected   bool

	// Pending replaces the pending flag when non-nil.
	Pending *bool

	// Valid replaces the valid flag when non-nil.
	Valid *bool
}

// IsZero reports whether the patch mutates nothing.
func (p Patch) IsZero() bool {
	return !p.HasActual && !p.HasExpected && p.Pending == nil && p.Valid == nil
}
