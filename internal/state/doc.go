// Package state holds the runtime values of properties, separate from their
// configuration records.
//
// Each owner category (connectors, devices, channels) has its own Store,
// individually enabled in configuration. A disabled store is not an error
// condition: reads through it yield no value with a warning, and deletes
// are no-ops.
//
// The Reader and Writer are the only entry points that touch property
// values. Both resolve mapped properties to their backing property before
// acting, apply the property's normalization rules, and heal stored values
// that no longer fit the property definition by resetting them in place.
// Variable-backed properties bypass the stores entirely; their value lives
// on the configuration record and is written through the property registry.
package state
