package property

import (
	"fmt"
	"strings"
)

// Validation limits.
const (
	maxIdentifierLength = 100
	maxNameLength       = 200
)

// ValidateProperty checks a property's structural invariants.
//
// It verifies:
//   - Identifier is present, within length limits, and slug-like
//   - OwnerKind, Kind, and DataType are recognised values
//   - ParentID is set if and only if the kind is Mapped
//   - A Variable property carries no format range nonsense for its value
//
// Returns:
//   - error: ErrInvalidProperty-wrapped description, or nil if valid
func ValidateProperty(p *Property) error {
	if p == nil {
		return fmt.Errorf("%w: nil property", ErrInvalidProperty)
	}

	if strings.TrimSpace(p.Identifier) == "" {
		return fmt.Errorf("%w: identifier is required", ErrInvalidProperty)
	}
	if len(p.Identifier) > maxIdentifierLength {
		return fmt.Errorf("%w: identifier exceeds %d characters", ErrInvalidProperty, maxIdentifierLength)
	}
	if len(p.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidProperty, maxNameLength)
	}
	if p.OwnerID == "" {
		return fmt.Errorf("%w: owner id is required", ErrInvalidProperty)
	}

	if !validOwnerKind(p.OwnerKind) {
		return fmt.Errorf("%w: unknown owner kind %q", ErrInvalidProperty, p.OwnerKind)
	}
	if !validKind(p.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidProperty, p.Kind)
	}
	if !validDataType(p.DataType) {
		return fmt.Errorf("%w: unknown data type %q", ErrInvalidProperty, p.DataType)
	}

	switch p.Kind {
	case KindMapped:
		if p.ParentID == nil || *p.ParentID == "" {
			return fmt.Errorf("%w: mapped property requires a parent", ErrInvalidProperty)
		}
	default:
		if p.ParentID != nil && *p.ParentID != "" {
			return fmt.Errorf("%w: only mapped properties may have a parent", ErrInvalidProperty)
		}
	}

	if p.Scale != nil && *p.Scale < 0 {
		return fmt.Errorf("%w: scale must be non-negative", ErrInvalidProperty)
	}

	if p.Format != nil && p.Format.Min != nil && p.Format.Max != nil && *p.Format.Min > *p.Format.Max {
		return fmt.Errorf("%w: format range min %v exceeds max %v", ErrInvalidProperty, *p.Format.Min, *p.Format.Max)
	}

	return nil
}

func validOwnerKind(k OwnerKind) bool {
	for _, v := range AllOwnerKinds() {
		if v == k {
			return true
		}
	}
	return false
}

func validKind(k Kind) bool {
	for _, v := range AllKinds() {
		if v == k {
			return true
		}
	}
	return false
}

func validDataType(dt DataType) bool {
	for _, v := range AllDataTypes() {
		if v == dt {
			return true
		}
	}
	return false
}
