package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenhaus/lumen-core/internal/property"
)

// Writer applies value changes to a property's runtime state.
//
// Writes resolve mapped properties to their backing property first and are
// last-write-wins. Actual values are normalized as stored-domain reports;
// expected values are normalized as user input with the write-side scale
// applied. A value that fails normalization resets the field it targeted,
// persists the reset, and then surfaces the error to the caller.
type Writer struct {
	resolver  *property.Resolver
	stores    *Stores
	variables VariableWriter
	logger    Logger
}

// NewWriter creates a writer over the given resolver and state stores.
func NewWriter(resolver *property.Resolver, stores *Stores, variables VariableWriter) *Writer {
	return &Writer{
		resolver:  resolver,
		stores:    stores,
		variables: variables,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for write operations.
func (w *Writer) SetLogger(logger Logger) {
	w.logger = logger
}

// SetActualValue records a reported value for the property. A successful
// report marks the state valid and clears the pending flag.
func (w *Writer) SetActualValue(ctx context.Context, p *property.Property, value any) (*State, error) {
	return w.WriteValue(ctx, p, Patch{ActualValue: value, HasActual: true})
}

// SetExpectedValue records a requested value for the property and marks it
// pending until a matching report arrives.
//
// Returns ErrNotSettable if the backing property is not settable.
func (w *Writer) SetExpectedValue(ctx context.Context, p *property.Property, value any) (*State, error) {
	return w.WriteValue(ctx, p, Patch{ExpectedValue: value, HasExpected: true})
}

// WriteValue merges a patch into the property's runtime state.
//
// Variable-backed properties have no state record: the write goes through
// the configuration registry and the returned state is nil.
//
// Returns:
//   - *State: The state record after the write, nil for variable-backed
//     properties and unconfigured stores
//   - error: Resolution failures, ErrNotSettable for expected writes to a
//     non-settable property, normalization failures (after the reset has
//     been persisted), and backend failures
func (w *Writer) WriteValue(ctx context.Context, p *property.Property, patch Patch) (*State, error) {
	if patch.IsZero() {
		return nil, nil
	}

	resolved, err := w.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	if patch.HasExpected && !resolved.Settable {
		return nil, fmt.Errorf("%w: %s", property.ErrNotSettable, resolved.ID)
	}

	if resolved.Kind == property.KindVariable {
		return nil, w.writeVariable(ctx, resolved, patch)
	}

	store := w.stores.For(resolved.OwnerKind)

	if patch.HasActual {
		value, err := property.NormalizeValue(resolved.DataType, patch.ActualValue, resolved.Format, resolved.Invalid)
		if err != nil {
			w.resetAfterBadWrite(ctx, store, resolved.ID, "actual", err)
			return nil, err
		}
		patch.ActualValue = property.FlattenValue(value)
		if patch.Valid == nil {
			valid := true
			patch.Valid = &valid
		}
		if patch.Pending == nil && !patch.HasExpected {
			pending := false
			patch.Pending = &pending
		}
	}

	if patch.HasExpected {
		value, err := property.NormalizeWriteValue(resolved, patch.ExpectedValue)
		if err != nil {
			w.resetAfterBadWrite(ctx, store, resolved.ID, "expected", err)
			return nil, err
		}
		patch.ExpectedValue = property.FlattenValue(value)
		if patch.Pending == nil {
			pending := true
			patch.Pending = &pending
		}
	}

	s, err := store.Apply(ctx, resolved.ID, patch)
	if errors.Is(err, ErrStoreNotConfigured) {
		w.logger.Warn("state store not configured for write",
			"property_id", resolved.ID,
			"owner_kind", resolved.OwnerKind,
		)
		return nil, nil
	}
	return s, err
}

// DeleteState removes the property's state record without resolution. Used
// when the property itself is being removed.
func (w *Writer) DeleteState(ctx context.Context, p *property.Property) error {
	if p.Kind == property.KindVariable {
		return nil
	}
	return w.stores.For(p.OwnerKind).Remove(ctx, p.ID)
}

// writeVariable writes through to the configuration registry for
// variable-backed properties. The expected value wins when the patch
// carries both sides.
func (w *Writer) writeVariable(ctx context.Context, p *property.Property, patch Patch) error {
	var raw any
	switch {
	case patch.HasExpected:
		raw = patch.ExpectedValue
	case patch.HasActual:
		raw = patch.ActualValue
	default:
		return nil
	}

	value, err := property.NormalizeWriteValue(p, raw)
	if err != nil {
		w.logger.Warn("resetting variable value after failed write",
			"property_id", p.ID,
			"error", err,
		)
		if _, healErr := w.variables.SetValue(ctx, p.ID, nil); healErr != nil {
			w.logger.Error("variable reset failed", "property_id", p.ID, "error", healErr)
		}
		return err
	}

	_, err = w.variables.SetValue(ctx, p.ID, property.FlattenValue(value))
	return err
}

// resetAfterBadWrite persists a reset of the field a failed write targeted,
// so stored state never carries a value that was rejected on the way in.
func (w *Writer) resetAfterBadWrite(ctx context.Context, store *Store, propertyID, field string, cause error) {
	w.logger.Warn("resetting state after failed write",
		"property_id", propertyID,
		"field", field,
		"error", cause,
	)

	flag := false
	var reset Patch
	if field == "actual" {
		reset = Patch{HasActual: true, Valid: &flag}
	} else {
		reset = Patch{HasExpected: true, Pending: &flag}
	}

	if _, err := store.Apply(ctx, propertyID, reset); err != nil && !errors.Is(err, ErrStoreNotConfigured) {
		w.logger.Error("state reset failed", "property_id", propertyID, "error", err)
	}
}
