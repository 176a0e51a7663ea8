// Package property provides the property configuration model for Lumen Core.
//
// A property belongs to exactly one connector, device, or channel and
// declares the value domain of one measurable or controllable aspect of it:
// data type, optional format constraints (numeric range, string enumeration,
// or combined enumeration), unit, scale for integer-encoded floats, and a
// sentinel "invalid" raw value meaning no reading.
//
// # Kinds
//
// One generic Property record carries a Kind discriminator instead of a
// subclass per owner/kind combination:
//
//   - Dynamic: the live value is held in a separate runtime State record
//     (see the state package)
//   - Mapped: an alias with no State of its own; reads and writes forward
//     to the parent property via the Resolver
//   - Variable: the value is part of the configuration record itself
//
// # Normalization
//
// NormalizeValue, NormalizeReadValue, and NormalizeWriteValue are pure
// functions casting and validating raw values against the declared type and
// format. Read-side normalization divides integer-encoded values by
// 10^scale; write-side multiplies. FlattenValue reduces any normalized
// value to a storage- and wire-safe scalar.
//
// # Registry
//
// Registry wraps a Repository with an in-memory cache, mirroring the
// configuration store the rest of the pipeline resolves against. All
// Registry methods are thread-safe and return deep copies.
package property
