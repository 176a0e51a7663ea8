package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumenhaus/lumen-core/internal/infrastructure/exchange"
	"github.com/lumenhaus/lumen-core/internal/property"
	"github.com/lumenhaus/lumen-core/internal/state"
)

// Registry is the read interface the synchronizer needs from the property
// registry.
type Registry interface {
	// GetProperty retrieves a property by its ID.
	GetProperty(ctx context.Context, id string) (*property.Property, error)

	// ListChildren retrieves all mapped properties referencing the given parent.
	ListChildren(ctx context.Context, parentID string) ([]property.Property, error)
}

// StateReader reads the resolved runtime state of a property.
type StateReader interface {
	// ReadState returns the property's state record after resolution, or
	// (nil, nil) when no record exists or the store is not configured.
	ReadState(ctx context.Context, p *property.Property) (*state.State, error)
}

// StateDeleter removes the runtime state of a property.
type StateDeleter interface {
	// DeleteState removes the property's state record. Unconfigured stores
	// are a no-op.
	DeleteState(ctx context.Context, p *property.Property) error
}

// Publisher sends documents to the exchange.
type Publisher interface {
	// PublishDocument publishes a payload under the given routing key.
	PublishDocument(key exchange.RoutingKey, payload []byte) error
}

// Telemetry records property readings in the time-series store.
type Telemetry interface {
	WritePropertyReading(propertyID string, category string, value float64, valid bool)
	WritePendingFlag(propertyID string, category string, pending bool)
}

// Synchronizer publishes merged configuration-and-state documents to the
// exchange whenever a property's configuration or runtime state changes.
//
// A change to a backing property also republishes every mapped alias, all
// sharing one state snapshot so consumers never observe an alias and its
// parent disagreeing. Numeric state changes are additionally written to the
// telemetry store when one is attached.
type Synchronizer struct {
	registry  Registry
	reader    StateReader
	deleter   StateDeleter
	publisher Publisher
	telemetry Telemetry
	logger    Logger
}

// NewSynchronizer creates a synchronizer. Telemetry may be nil when the
// time-series store is disabled.
func NewSynchronizer(registry Registry, reader StateReader, deleter StateDeleter, publisher Publisher) *Synchronizer {
	return &Synchronizer{
		registry:  registry,
		reader:    reader,
		deleter:   deleter,
		publisher: publisher,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for synchronization operations.
func (s *Synchronizer) SetLogger(logger Logger) {
	s.logger = logger
}

// SetTelemetry attaches a telemetry writer for numeric state changes.
func (s *Synchronizer) SetTelemetry(telemetry Telemetry) {
	s.telemetry = telemetry
}

// HandleConfiguration publishes documents for a configuration change.
//
// Deletes first remove the property's runtime state, then publish one
// deletion document for the property and one for each cascaded alias from
// the event's children snapshot, all with null values and cleared flags.
// Creates and updates publish the merged document for the property and
// republish its aliases against the same state snapshot; for a mapped
// alias the backing parent is republished against that snapshot too.
func (s *Synchronizer) HandleConfiguration(ctx context.Context, ev ConfigurationEvent) error {
	if ev.Property == nil {
		s.logger.Warn("configuration event without a property", "action", ev.Action)
		return nil
	}

	if ev.Action == ActionDeleted {
		return s.handleDeleted(ctx, ev)
	}

	snapshot, err := s.reader.ReadState(ctx, ev.Property)
	if err != nil {
		return fmt.Errorf("reading state for %s: %w", ev.Property.ID, err)
	}

	if err := s.publish(ev.Property, snapshot, ev.Action); err != nil {
		return err
	}
	if err := s.publishChildren(ctx, ev.Property, snapshot); err != nil {
		return err
	}
	return s.publishParent(ctx, ev.Property, snapshot)
}

// HandleState publishes documents for a runtime state change and records
// numeric readings in the telemetry store.
func (s *Synchronizer) HandleState(ctx context.Context, ev StateEvent) error {
	if ev.Property == nil {
		s.logger.Warn("state event without a property", "action", ev.Action)
		return nil
	}

	if err := s.publish(ev.Property, ev.Current, ActionUpdated); err != nil {
		return err
	}
	if err := s.publishChildren(ctx, ev.Property, ev.Current); err != nil {
		return err
	}

	s.recordTelemetry(ev)
	return nil
}

// handleDeleted removes state and publishes deletion documents for the
// property and its cascaded aliases.
func (s *Synchronizer) handleDeleted(ctx context.Context, ev ConfigurationEvent) error {
	if err := s.deleter.DeleteState(ctx, ev.Property); err != nil {
		return fmt.Errorf("deleting state for %s: %w", ev.Property.ID, err)
	}

	if err := s.publish(ev.Property, nil, ActionDeleted); err != nil {
		return err
	}
	for i := range ev.Children {
		if err := s.publish(&ev.Children[i], nil, ActionDeleted); err != nil {
			return err
		}
	}
	return nil
}

// publishChildren republishes every mapped alias of the property against
// the given state snapshot.
func (s *Synchronizer) publishChildren(ctx context.Context, p *property.Property, snapshot *state.State) error {
	children, err := s.registry.ListChildren(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("listing children of %s: %w", p.ID, err)
	}
	for i := range children {
		if err := s.publish(&children[i], snapshot, ActionUpdated); err != nil {
			return err
		}
	}
	return nil
}

// publishParent republishes the backing parent of a mapped alias against
// the given state snapshot, so the alias and its parent never advertise
// diverging state. Non-mapped properties are a no-op.
func (s *Synchronizer) publishParent(ctx context.Context, p *property.Property, snapshot *state.State) error {
	if p.Kind != property.KindMapped || p.ParentID == nil {
		return nil
	}
	parent, err := s.registry.GetProperty(ctx, *p.ParentID)
	if err != nil {
		return fmt.Errorf("resolving parent of %s: %w", p.ID, err)
	}
	return s.publish(parent, snapshot, ActionUpdated)
}

// publish assembles and sends the merged document for one property.
func (s *Synchronizer) publish(p *property.Property, snapshot *state.State, action Action) error {
	key, ok := exchange.RoutingKeyForCategory(string(p.OwnerKind))
	if !ok {
		s.logger.Warn("no routing key for owner kind",
			"property_id", p.ID,
			"owner_kind", p.OwnerKind,
		)
		return nil
	}

	doc := buildDocument(p, snapshot, action)
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling document for %s: %w", p.ID, err)
	}

	if err := s.publisher.PublishDocument(key, payload); err != nil {
		return fmt.Errorf("publishing document for %s: %w", p.ID, err)
	}

	s.logger.Debug("property document published",
		"property_id", p.ID,
		"routing_key", key,
		"action", action,
	)
	return nil
}

// recordTelemetry writes the state change into the time-series store.
// Non-numeric actual values are skipped; the pending flag is written only
// on transitions.
func (s *Synchronizer) recordTelemetry(ev StateEvent) {
	if s.telemetry == nil || ev.Current == nil {
		return
	}

	category := string(ev.Property.OwnerKind)
	if value, ok := numericValue(ev.Current.ActualValue); ok {
		s.telemetry.WritePropertyReading(ev.Property.ID, category, value, ev.Current.Valid)
	}
	if ev.Previous == nil || ev.Previous.Pending != ev.Current.Pending {
		s.telemetry.WritePendingFlag(ev.Property.ID, category, ev.Current.Pending)
	}
}

// buildDocument merges a property's configuration attributes with its state
// fields. State fields win on a name collision.
func buildDocument(p *property.Property, snapshot *state.State, action Action) map[string]any {
	doc := map[string]any{
		"id":         p.ID,
		"action":     string(action),
		"owner_kind": string(p.OwnerKind),
		"owner_id":   p.OwnerID,
		"identifier": p.Identifier,
		"name":       p.Name,
		"kind":       string(p.Kind),
		"data_type":  string(p.DataType),
		"settable":   p.Settable,
		"queryable":  p.Queryable,
	}
	if p.Unit != nil {
		doc["unit"] = *p.Unit
	}
	if p.Scale != nil {
		doc["scale"] = *p.Scale
	}
	if p.ParentID != nil {
		doc["parent_id"] = *p.ParentID
	}
	if p.Format != nil {
		doc["format"] = p.Format
	}

	// State fields are always present so consumers can rely on the shape:
	// with no snapshot (deletes, absent store) values are null and the
	// flags are false.
	if snapshot != nil {
		doc["actual_value"] = snapshot.ActualValue
		doc["expected_value"] = snapshot.ExpectedValue
		doc["pending"] = snapshot.Pending
		doc["valid"] = snapshot.Valid
	} else {
		doc["actual_value"] = nil
		doc["expected_value"] = nil
		doc["pending"] = false
		doc["valid"] = false
	}

	return doc
}

// numericValue extracts a float64 from a flattened scalar.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
