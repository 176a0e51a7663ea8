package events

import (
	"context"
	"testing"
	"time"

	"github.com/lumenhaus/lumen-core/internal/cache"
	"github.com/lumenhaus/lumen-core/internal/infrastructure/exchange"
	"github.com/lumenhaus/lumen-core/internal/state"
)

// orderedInvalidator appends to a shared call sequence on invalidation.
type orderedInvalidator struct {
	sequence *[]string
}

func (o *orderedInvalidator) Invalidate(category cache.Category, entityID string) int {
	*o.sequence = append(*o.sequence, "invalidate:"+string(category)+":"+entityID)
	return 1
}

// sequencePublisher appends to the same sequence on publish.
type sequencePublisher struct {
	sequence *[]string
}

func (s *sequencePublisher) PublishDocument(_ exchange.RoutingKey, _ []byte) error {
	*s.sequence = append(*s.sequence, "publish")
	return nil
}

func newSequenceDispatcher(sequence *[]string) *Dispatcher {
	synchronizer := NewSynchronizer(
		&mockRegistry{},
		&mockStateReader{},
		&mockStateDeleter{},
		&sequencePublisher{sequence: sequence},
	)
	return NewDispatcher(&orderedInvalidator{sequence: sequence}, synchronizer)
}

func TestDispatchInvalidatesBeforePublishing(t *testing.T) {
	var sequence []string
	dispatcher := newSequenceDispatcher(&sequence)

	ev := ConfigurationEvent{
		Action:   ActionUpdated,
		Category: cache.CategoryDevicesProperties,
		EntityID: "p1",
		Property: deviceProperty("p1"),
	}
	if err := dispatcher.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if len(sequence) != 2 {
		t.Fatalf("sequence = %v, want invalidate then publish", sequence)
	}
	if sequence[0] != "invalidate:devices-properties:p1" {
		t.Errorf("first call = %s, want the invalidation", sequence[0])
	}
	if sequence[1] != "publish" {
		t.Errorf("second call = %s, want the publish", sequence[1])
	}
}

func TestDispatchStateEventSkipsInvalidation(t *testing.T) {
	var sequence []string
	dispatcher := newSequenceDispatcher(&sequence)

	ev := StateEvent{
		Action:   ActionUpdated,
		Property: deviceProperty("p1"),
		Current:  &state.State{PropertyID: "p1", ActualValue: float64(1)},
	}
	if err := dispatcher.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if len(sequence) != 1 || sequence[0] != "publish" {
		t.Errorf("sequence = %v, want a single publish", sequence)
	}
}

func TestDispatchUnknownCategorySkipsInvalidation(t *testing.T) {
	var sequence []string
	dispatcher := newSequenceDispatcher(&sequence)

	ev := ConfigurationEvent{
		Action:   ActionUpdated,
		Category: "fridge",
		EntityID: "p1",
		Property: deviceProperty("p1"),
	}
	if err := dispatcher.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if len(sequence) != 1 || sequence[0] != "publish" {
		t.Errorf("sequence = %v, want publish without invalidation", sequence)
	}
}

func TestDispatcherRunLoop(t *testing.T) {
	var sequence []string
	dispatcher := newSequenceDispatcher(&sequence)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := dispatcher.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := dispatcher.Start(ctx); err == nil {
		t.Error("second Start must fail while running")
	}

	dispatcher.Publish(ConfigurationEvent{
		Action:   ActionCreated,
		Category: cache.CategoryDevicesProperties,
		EntityID: "p1",
		Property: deviceProperty("p1"),
	})
	dispatcher.Publish(StateEvent{
		Action:   ActionUpdated,
		Property: deviceProperty("p1"),
		Current:  &state.State{PropertyID: "p1"},
	})

	dispatcher.Stop()

	if len(sequence) != 3 {
		t.Errorf("sequence = %v, want both events drained before Stop returns", sequence)
	}
}

func TestDispatcherStopWithoutStart(t *testing.T) {
	dispatcher := newSequenceDispatcher(&[]string{})

	done := make(chan struct{})
	go func() {
		dispatcher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop without Start must not block")
	}
}

func TestDispatcherPublishAfterStopDropsEvent(t *testing.T) {
	var sequence []string
	dispatcher := newSequenceDispatcher(&sequence)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := dispatcher.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	dispatcher.Stop()

	// Must not panic; the event is dropped.
	dispatcher.Publish(StateEvent{
		Action:   ActionUpdated,
		Property: deviceProperty("p1"),
		Current:  &state.State{PropertyID: "p1"},
	})

	if len(sequence) != 0 {
		t.Errorf("sequence = %v, want no dispatches after Stop", sequence)
	}
}
