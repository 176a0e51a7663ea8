package property

import "errors"

// Domain errors for the property package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, property.ErrInvalidValue) {
//	    // reject the write
//	}
var (
	// ErrPropertyNotFound is returned when a property ID does not exist.
	ErrPropertyNotFound = errors.New("property: not found")

	// ErrPropertyExists is returned when creating a property whose ID or
	// owner+identifier pair already exists.
	ErrPropertyExists = errors.New("property: already exists")

	// ErrInvalidProperty is returned when property validation fails.
	ErrInvalidProperty = errors.New("property: invalid")

	// ErrInvalidValue is returned when a raw value fails normalization
	// against the property's declared data type and format.
	ErrInvalidValue = errors.New("property: invalid value")

	// ErrNoParent is returned when resolving a mapped property whose
	// parent reference is unset.
	ErrNoParent = errors.New("property: mapped property has no parent")

	// ErrBadParent is returned when a mapped property's parent does not
	// resolve to a dynamic or variable property of the same owner kind.
	ErrBadParent = errors.New("property: mapped property has invalid parent")

	// ErrNotSettable is returned when writing to a property that does not
	// accept writes.
	ErrNotSettable = errors.New("property: not settable")
)
