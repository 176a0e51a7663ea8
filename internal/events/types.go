package events

import (
	"github.com/lumenhaus/lumen-core/internal/cache"
	"github.com/lumenhaus/lumen-core/internal/property"
	"github.com/lumenhaus/lumen-core/internal/state"
)

// Action describes what happened to the entity an event refers to.
type Action string

// Event actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is the closed set of domain events the dispatcher routes. Only
// ConfigurationEvent and StateEvent implement it.
type Event interface {
	isEvent()
}

// ConfigurationEvent signals a change to a property's configuration
// record.
type ConfigurationEvent struct {
	// Action is what happened to the property.
	Action Action

	// Category is the cache category the change invalidates.
	Category cache.Category

	// EntityID keys the per-entity cache invalidation.
	EntityID string

	// Property is the configuration record after the change; for deletes,
	// the record as it was before removal.
	Property *property.Property

	// Children snapshots the mapped children as they were when the event
	// was emitted. For deletes this is the only record of the cascaded
	// aliases, since the schema removes them with the parent.
	Children []property.Property
}

func (ConfigurationEvent) isEvent() {}

// StateEvent signals a change to a property's runtime state.
type StateEvent struct {
	// Action is what happened to the state record.
	Action Action

	// Property is the configuration record whose state changed. It is the
	// backing property: emitters resolve mapped aliases before emitting.
	Property *property.Property

	// Previous is the state before the change, nil on first write.
	Previous *state.State

	// Current is the state after the change.
	Current *state.State
}

func (StateEvent) isEvent() {}
