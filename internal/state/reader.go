package state

import (
	"context"
	"errors"

	"github.com/lumenhaus/lumen-core/internal/property"
)

// VariableWriter is the write-through interface for variable-backed
// properties, whose value lives on the configuration record.
type VariableWriter interface {
	// SetValue updates the configuration-resident value of a Variable
	// property.
	SetValue(ctx context.Context, id string, value any) (*property.Property, error)
}

// Reader reads the effective value of a property.
//
// Reads resolve mapped properties to their backing property first, so a
// mapped alias and its parent always observe the same value. A stored value
// that no longer normalizes against the property's current definition is
// healed in place: the offending field is reset, the reset is persisted,
// and the read returns nil. Structural resolution failures are never
// healed.
type Reader struct {
	resolver  *property.Resolver
	stores    *Stores
	variables VariableWriter
	logger    Logger
}

// NewReader creates a reader over the given resolver and state stores.
func NewReader(resolver *property.Resolver, stores *Stores, variables VariableWriter) *Reader {
	return &Reader{
		resolver:  resolver,
		stores:    stores,
		variables: variables,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for read operations.
func (r *Reader) SetLogger(logger Logger) {
	r.logger = logger
}

// ReadValue returns the property's effective value, normalized for reading
// (scale applied, sentinel passed through).
//
// Returns:
//   - any: The normalized value; nil when no value exists, when the
//     category's store is not configured, or after a self-heal reset
//   - error: Resolution failures (ErrNoParent, ErrBadParent) and backend
//     failures; never a normalization failure of a stored value
func (r *Reader) ReadValue(ctx context.Context, p *property.Property) (any, error) {
	resolved, err := r.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	if resolved.Kind == property.KindVariable {
		return r.readVariable(ctx, resolved)
	}

	store := r.stores.For(resolved.OwnerKind)
	s, err := store.Get(ctx, resolved.ID)
	if errors.Is(err, ErrStoreNotConfigured) {
		r.logger.Warn("state store not configured for read",
			"property_id", resolved.ID,
			"owner_kind", resolved.OwnerKind,
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	value, err := property.NormalizeReadValue(resolved, s.ActualValue)
	if err != nil {
		// The stored value no longer fits the property definition, most
		// likely after a format or data type change. Reset it so the next
		// report starts clean.
		r.logger.Warn("resetting unreadable stored value",
			"property_id", resolved.ID,
			"stored", s.ActualValue,
			"error", err,
		)
		valid := false
		if _, healErr := store.Apply(ctx, resolved.ID, Patch{HasActual: true, Valid: &valid}); healErr != nil {
			return nil, healErr
		}
		return nil, nil
	}

	return value, nil
}

// ReadState returns the property's raw state record after resolution, or
// (nil, nil) when no record exists or the category's store is not
// configured.
func (r *Reader) ReadState(ctx context.Context, p *property.Property) (*State, error) {
	resolved, err := r.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	if resolved.Kind == property.KindVariable {
		return nil, nil
	}

	s, err := r.stores.For(resolved.OwnerKind).Get(ctx, resolved.ID)
	if errors.Is(err, ErrStoreNotConfigured) {
		return nil, nil
	}
	return s, err
}

// readVariable reads a variable-backed property from its configuration
// record, with the same self-heal rule as stored state.
func (r *Reader) readVariable(ctx context.Context, p *property.Property) (any, error) {
	value, err := property.NormalizeReadValue(p, p.Value)
	if err != nil {
		r.logger.Warn("resetting unreadable variable value",
			"property_id", p.ID,
			"stored", p.Value,
			"error", err,
		)
		if _, healErr := r.variables.SetValue(ctx, p.ID, nil); healErr != nil {
			return nil, healErr
		}
		return nil, nil
	}
	return value, nil
}
