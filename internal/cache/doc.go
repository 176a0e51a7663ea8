// Package cache provides a tag-addressable in-memory cache and the
// invalidator that keeps it consistent with configuration changes.
//
// Entries are stored with tags; cleaning a tag removes every entry that
// holds it. Each entity category maps to a builder-partition tag covering
// assembled documents and a per-entity repository tag covering raw
// records, so a single configuration event can drop exactly the entries
// it may have staled.
package cache
