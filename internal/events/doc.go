// Package events defines the domain events of the property subsystem and
// routes them to their consumers.
//
// The event set is closed: configuration events signal a change to a
// property's configuration record, state events signal a change to its
// runtime state. The dispatcher routes each event to the cache invalidator
// first and the synchronizer second, so consumers of published documents
// always observe a cache that has already dropped the stale entries.
//
// The synchronizer is the only component that publishes property documents
// to the exchange. Documents merge configuration attributes with state
// fields, and a change to a backing property fans out to its mapped
// aliases against one shared state snapshot.
package events
