package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumenhaus/lumen-core/internal/cache"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/exchange"
	"github.com/lumenhaus/lumen-core/internal/property"
	"github.com/lumenhaus/lumen-core/internal/state"
)

// Subscriber registers handlers for inbound routing keys.
type Subscriber interface {
	SubscribeDocument(key exchange.RoutingKey, handler exchange.MessageHandler) error
}

// StateWriter applies a state patch for a property.
type StateWriter interface {
	// WriteValue normalizes and persists the patch, returning the stored
	// state or (nil, nil) when the store is not configured.
	WriteValue(ctx context.Context, p *property.Property, patch state.Patch) (*state.State, error)
}

// configurationSignal is the wire shape of a configuration lifecycle
// signal from the configuration service.
type configurationSignal struct {
	Action   string              `json:"action"`
	Property *property.Property  `json:"property"`
	Children []property.Property `json:"children,omitempty"`
}

// stateSignal is the wire shape of a raw value report from a connector
// service. A field that is absent leaves that side of the state untouched.
type stateSignal struct {
	PropertyID    string          `json:"property_id"`
	ActualValue   json.RawMessage `json:"actual_value"`
	ExpectedValue json.RawMessage `json:"expected_value"`
}

// Consumer turns inbound exchange signals into dispatched domain events.
//
// Configuration lifecycle signals are dispatched as ConfigurationEvents.
// Raw value reports are written through the state writer (normalization,
// self-heal, pending bookkeeping) and the resulting transition is
// dispatched as a StateEvent.
type Consumer struct {
	registry   Registry
	reader     StateReader
	writer     StateWriter
	dispatcher *Dispatcher
	logger     Logger
}

// NewConsumer creates a consumer over the registry, state access and
// dispatcher.
func NewConsumer(registry Registry, reader StateReader, writer StateWriter, dispatcher *Dispatcher) *Consumer {
	return &Consumer{
		registry:   registry,
		reader:     reader,
		writer:     writer,
		dispatcher: dispatcher,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for signal handling.
func (c *Consumer) SetLogger(logger Logger) {
	c.logger = logger
}

// Bind subscribes the consumer's handlers to the inbound routing keys.
func (c *Consumer) Bind(subscriber Subscriber) error {
	if err := subscriber.SubscribeDocument(exchange.RoutingKeyConfigurationChanged, c.HandleConfigurationSignal); err != nil {
		return fmt.Errorf("binding configuration signals: %w", err)
	}
	if err := subscriber.SubscribeDocument(exchange.RoutingKeyStateReported, c.HandleStateSignal); err != nil {
		return fmt.Errorf("binding state signals: %w", err)
	}
	return nil
}

// HandleConfigurationSignal decodes a configuration lifecycle signal and
// dispatches it as a ConfigurationEvent.
func (c *Consumer) HandleConfigurationSignal(_ string, payload []byte) error {
	var sig configurationSignal
	if err := json.Unmarshal(payload, &sig); err != nil {
		return fmt.Errorf("decoding configuration signal: %w", err)
	}
	if sig.Property == nil {
		return fmt.Errorf("configuration signal without a property")
	}

	action := Action(sig.Action)
	switch action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return fmt.Errorf("configuration signal with unknown action %q", sig.Action)
	}

	category, ok := cache.PropertyCategory(sig.Property.OwnerKind)
	if !ok {
		return fmt.Errorf("configuration signal with unknown owner kind %q", sig.Property.OwnerKind)
	}

	return c.dispatcher.Dispatch(context.Background(), ConfigurationEvent{
		Action:   action,
		Category: category,
		EntityID: sig.Property.ID,
		Property: sig.Property,
		Children: sig.Children,
	})
}

// HandleStateSignal decodes a raw value report, writes it through the
// state writer and dispatches the resulting transition.
func (c *Consumer) HandleStateSignal(_ string, payload []byte) error {
	var sig stateSignal
	if err := json.Unmarshal(payload, &sig); err != nil {
		return fmt.Errorf("decoding state signal: %w", err)
	}
	if sig.PropertyID == "" {
		return fmt.Errorf("state signal without a property id")
	}

	ctx := context.Background()
	p, err := c.registry.GetProperty(ctx, sig.PropertyID)
	if err != nil {
		return fmt.Errorf("looking up property %s: %w", sig.PropertyID, err)
	}

	patch, err := patchFromSignal(sig)
	if err != nil {
		return err
	}
	if patch.IsZero() {
		c.logger.Debug("state signal carried no values", "property_id", sig.PropertyID)
		return nil
	}

	previous, err := c.reader.ReadState(ctx, p)
	if err != nil {
		return fmt.Errorf("reading previous state of %s: %w", p.ID, err)
	}

	current, err := c.writer.WriteValue(ctx, p, patch)
	if err != nil {
		return fmt.Errorf("writing state of %s: %w", p.ID, err)
	}
	if current == nil {
		// Store not configured for this category; nothing to announce.
		return nil
	}

	backing := p
	if current.PropertyID != p.ID {
		// Mapped alias: the write landed on the backing parent.
		if backing, err = c.registry.GetProperty(ctx, current.PropertyID); err != nil {
			return fmt.Errorf("looking up backing property %s: %w", current.PropertyID, err)
		}
	}

	return c.dispatcher.Dispatch(ctx, StateEvent{
		Action:   ActionUpdated,
		Property: backing,
		Previous: previous,
		Current:  current,
	})
}

// patchFromSignal builds a state patch from the signal's present fields.
func patchFromSignal(sig stateSignal) (state.Patch, error) {
	var patch state.Patch
	if sig.ActualValue != nil {
		var value any
		if err := json.Unmarshal(sig.ActualValue, &value); err != nil {
			return state.Patch{}, fmt.Errorf("decoding actual value: %w", err)
		}
		patch.ActualValue = value
		patch.HasActual = true
	}
	if sig.ExpectedValue != nil {
		var value any
		if err := json.Unmarshal(sig.ExpectedValue, &value); err != nil {
			return state.Patch{}, fmt.Errorf("decoding expected value: %w", err)
		}
		patch.ExpectedValue = value
		patch.HasExpected = true
	}
	return patch, nil
}
