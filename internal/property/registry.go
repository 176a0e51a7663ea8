package property

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides property configuration management with caching and
// thread safety. It wraps a Repository and adds an in-memory cache for
// fast lookups during resolution and document building.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Property // Cached properties by ID
	cacheMu sync.RWMutex         // Protects cache
	logger  Logger
}

// NewRegistry creates a new property registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Property),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all properties from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	properties, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading properties: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	// Clear and rebuild cache with deep copies
	r.cache = make(map[string]*Property, len(properties))
	for i := range properties {
		p := properties[i]
		r.cache[p.ID] = p.DeepCopy()
	}

	r.logger.Info("property cache refreshed", "count", len(properties))
	return nil
}

// GetProperty retrieves a property by ID.
// Returns ErrPropertyNotFound if the property does not exist.
// The returned property is a deep copy; callers can safely modify it.
func (r *Registry) GetProperty(ctx context.Context, id string) (*Property, error) {
	// Try cache first
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		// Return a deep copy to prevent external mutation of cache
		return cached.DeepCopy(), nil
	}

	// Fall back to repository (might be a new property not yet cached)
	p, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cache for future lookups (store a deep copy)
	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	return p, nil
}

// ListProperties retrieves all properties.
// The returned properties are deep copies; callers can safely modify them.
func (r *Registry) ListProperties(ctx context.Context) ([]Property, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	// Return from cache if populated
	if len(r.cache) > 0 {
		properties := make([]Property, 0, len(r.cache))
		for _, p := range r.cache {
			properties = append(properties, *p.DeepCopy())
		}
		return properties, nil
	}

	// Fall back to repository
	return r.repo.List(ctx)
}

// ListByOwner retrieves all properties of a specific owner entity.
// The returned properties are deep copies; callers can safely modify them.
func (r *Registry) ListByOwner(ctx context.Context, kind OwnerKind, ownerID string) ([]Property, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	// Filter from cache if populated
	if len(r.cache) > 0 {
		var properties []Property
		for _, p := range r.cache {
			if p.OwnerKind == kind && p.OwnerID == ownerID {
				properties = append(properties, *p.DeepCopy())
			}
		}
		return properties, nil
	}

	return r.repo.ListByOwner(ctx, kind, ownerID)
}

// ListChildren retrieves all mapped properties referencing the given parent.
// The returned properties are deep copies; callers can safely modify them.
func (r *Registry) ListChildren(ctx context.Context, parentID string) ([]Property, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var properties []Property
		for _, p := range r.cache {
			if p.ParentID != nil && *p.ParentID == parentID {
				properties = append(properties, *p.DeepCopy())
			}
		}
		return properties, nil
	}

	return r.repo.ListChildren(ctx, parentID)
}

// CreateProperty creates a new property.
// It validates the property, generates an ID if needed, and persists it.
func (r *Registry) CreateProperty(ctx context.Context, p *Property) error {
	if err := ValidateProperty(p); err != nil {
		return err
	}

	if err := r.repo.Create(ctx, p); err != nil {
		return err
	}

	// Update cache (store a deep copy to prevent external modification)
	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("property created",
		"id", p.ID,
		"identifier", p.Identifier,
		"owner_kind", p.OwnerKind,
		"kind", p.Kind,
	)
	return nil
}

// UpdateProperty modifies an existing property.
func (r *Registry) UpdateProperty(ctx context.Context, p *Property) error {
	if err := ValidateProperty(p); err != nil {
		return err
	}

	if err := r.repo.Update(ctx, p); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("property updated", "id", p.ID, "identifier", p.Identifier)
	return nil
}

// SetValue updates the configuration-resident value of a Variable property.
// This is the write-through path for variable-backed aliases: the value
// lives on the property record, not in a runtime State.
//
// Returns ErrInvalidProperty if the property is not of Variable kind.
func (r *Registry) SetValue(ctx context.Context, id string, value any) (*Property, error) {
	p, err := r.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Kind != KindVariable {
		return nil, fmt.Errorf("%w: %s: value writes require a variable property, got %s",
			ErrInvalidProperty, p.ID, p.Kind)
	}

	p.Value = value
	if err := r.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Debug("variable property value set", "id", p.ID, "identifier", p.Identifier)
	return p, nil
}

// DeleteProperty removes a property by ID.
//
// Mapped children referencing the property are removed by the schema's
// cascade rule; their cache entries are evicted here so readers never see
// an orphaned alias.
func (r *Registry) DeleteProperty(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	for childID, child := range r.cache {
		if child.ParentID != nil && *child.ParentID == id {
			delete(r.cache, childID)
		}
	}
	r.cacheMu.Unlock()

	r.logger.Info("property deleted", "id", id)
	return nil
}

// Count returns the number of cached properties.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
