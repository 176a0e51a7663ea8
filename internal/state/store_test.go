package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lumenhaus/lumen-core/internal/property"
)

// MockBackend is a test implementation of Backend.
type MockBackend struct {
	mu     sync.Mutex
	states map[string]*State
	// For testing error paths
	fetchErr error
	saveErr  error
}

func NewMockBackend() *MockBackend {
	return &MockBackend{
		states: make(map[string]*State),
	}
}

func (m *MockBackend) Fetch(_ context.Context, propertyID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if s, ok := m.states[propertyID]; ok {
		return s.DeepCopy(), nil
	}
	return nil, nil
}

func (m *MockBackend) Save(_ context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[s.PropertyID] = s.DeepCopy()
	return nil
}

func (m *MockBackend) Delete(_ context.Context, propertyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, propertyID)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func TestStoreGetUnconfigured(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Get(context.Background(), "p1")
	if !errors.Is(err, ErrStoreNotConfigured) {
		t.Errorf("Get error = %v, want ErrStoreNotConfigured", err)
	}
}

func TestStoreApplyUnconfigured(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Apply(context.Background(), "p1", Patch{HasActual: true})
	if !errors.Is(err, ErrStoreNotConfigured) {
		t.Errorf("Apply error = %v, want ErrStoreNotConfigured", err)
	}
}

func TestStoreRemoveUnconfiguredIsNoop(t *testing.T) {
	store := NewStore(nil)

	if err := store.Remove(context.Background(), "p1"); err != nil {
		t.Errorf("Remove on unconfigured store must be a no-op, got %v", err)
	}
}

func TestStoreApplyCreatesRecord(t *testing.T) {
	backend := NewMockBackend()
	store := NewStore(backend)

	s, err := store.Apply(context.Background(), "p1", Patch{
		ActualValue: int64(21),
		HasActual:   true,
		Valid:       boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if s.PropertyID != "p1" {
		t.Errorf("PropertyID = %s, want p1", s.PropertyID)
	}
	if s.ActualValue != int64(21) {
		t.Errorf("ActualValue = %v, want 21", s.ActualValue)
	}
	if !s.Valid {
		t.Error("Valid = false, want true")
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("timestamps must be stamped on first write")
	}
}

func TestStoreApplyMergesPartialPatch(t *testing.T) {
	backend := NewMockBackend()
	store := NewStore(backend)
	ctx := context.Background()

	if _, err := store.Apply(ctx, "p1", Patch{ActualValue: int64(21), HasActual: true, Valid: boolPtr(true)}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	s, err := store.Apply(ctx, "p1", Patch{ExpectedValue: int64(25), HasExpected: true, Pending: boolPtr(true)})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if s.ActualValue != int64(21) {
		t.Errorf("ActualValue = %v, want 21 untouched", s.ActualValue)
	}
	if s.ExpectedValue != int64(25) {
		t.Errorf("ExpectedValue = %v, want 25", s.ExpectedValue)
	}
	if !s.Pending || !s.Valid {
		t.Errorf("Pending = %v, Valid = %v, want both true", s.Pending, s.Valid)
	}
}

func TestStoreApplySetsFieldToNil(t *testing.T) {
	backend := NewMockBackend()
	store := NewStore(backend)
	ctx := context.Background()

	if _, err := store.Apply(ctx, "p1", Patch{ActualValue: int64(21), HasActual: true}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	s, err := store.Apply(ctx, "p1", Patch{HasActual: true, Valid: boolPtr(false)})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if s.ActualValue != nil {
		t.Errorf("ActualValue = %v, want nil", s.ActualValue)
	}
	if s.Valid {
		t.Error("Valid = true, want false")
	}
}

func TestStoresFor(t *testing.T) {
	connectors := NewStore(NewMockBackend())
	devices := NewStore(nil)
	channels := NewStore(NewMockBackend())
	stores := NewStores(connectors, devices, channels)

	tests := []struct {
		kind       property.OwnerKind
		configured bool
	}{
		{property.OwnerConnector, true},
		{property.OwnerDevice, false},
		{property.OwnerChannel, true},
		{property.OwnerKind("fridge"), false},
	}

	for _, tt := range tests {
		if got := stores.For(tt.kind).Configured(); got != tt.configured {
			t.Errorf("For(%s).Configured() = %v, want %v", tt.kind, got, tt.configured)
		}
	}
}
