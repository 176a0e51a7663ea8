package cache

// Logger is the minimal logging interface the cache package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Invalidator drops stale cache entries when an entity's configuration
// changes.
//
// Two caches are maintained: the builder cache holds assembled documents
// and is cleaned per category, since any entity change can affect documents
// that embed it; the repository cache holds raw records and is cleaned per
// entity, so unrelated records of the same category survive.
type Invalidator struct {
	builder    *Cache
	repository *Cache
	logger     Logger
}

// NewInvalidator creates an invalidator over the two caches.
func NewInvalidator(builder, repository *Cache) *Invalidator {
	return &Invalidator{
		builder:    builder,
		repository: repository,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for invalidation operations.
func (i *Invalidator) SetLogger(logger Logger) {
	i.logger = logger
}

// Builder returns the assembled-document cache.
func (i *Invalidator) Builder() *Cache {
	return i.builder
}

// Repository returns the raw-record cache.
func (i *Invalidator) Repository() *Cache {
	return i.repository
}

// Invalidate cleans the category's builder partition and the entity's
// repository entries. Returns the number of entries removed.
func (i *Invalidator) Invalidate(category Category, entityID string) int {
	if !category.Valid() {
		i.logger.Warn("invalidation for unknown category", "category", category)
		return 0
	}

	removed := i.builder.Clean(category.BuilderTag())
	if entityID != "" {
		removed += i.repository.Clean(category.RepoTag(entityID))
	}

	i.logger.Debug("cache invalidated",
		"category", category,
		"entity_id", entityID,
		"removed", removed,
	)
	return removed
}
