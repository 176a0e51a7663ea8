package property

import (
	"context"
	"fmt"
)

// Lookup is the read interface the resolver needs from the registry.
type Lookup interface {
	// GetProperty retrieves a property by ID.
	// Returns ErrPropertyNotFound if the property does not exist.
	GetProperty(ctx context.Context, id string) (*Property, error)
}

// Resolver resolves a property to the backing property whose State (or
// configuration value, for variable-backed aliases) actually holds data.
//
// All read/write entry points accept any property kind and resolve before
// touching the state store, so callers never special-case mapped vs dynamic.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a resolver over the given property lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the effective property for reads and writes:
//   - Dynamic and Variable properties resolve to themselves.
//   - Mapped properties follow ParentID; the parent must be a Dynamic or
//     Variable property of the same owner kind.
//
// Returns:
//   - *Property: The backing property
//   - error: ErrNoParent or ErrBadParent on structural problems; these are
//     fatal to the current operation and are propagated, never healed
func (r *Resolver) Resolve(ctx context.Context, p *Property) (*Property, error) {
	switch p.Kind {
	case KindDynamic, KindVariable:
		return p, nil

	case KindMapped:
		if p.ParentID == nil || *p.ParentID == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoParent, p.ID)
		}

		parent, err := r.lookup.GetProperty(ctx, *p.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: parent %s: %w", ErrBadParent, p.ID, *p.ParentID, err)
		}

		if parent.Kind == KindMapped {
			return nil, fmt.Errorf("%w: %s: parent %s is itself mapped", ErrBadParent, p.ID, parent.ID)
		}
		if parent.OwnerKind != p.OwnerKind {
			return nil, fmt.Errorf("%w: %s: parent %s has owner kind %s, want %s",
				ErrBadParent, p.ID, parent.ID, parent.OwnerKind, p.OwnerKind)
		}

		return parent, nil

	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidProperty, p.ID, p.Kind)
	}
}
