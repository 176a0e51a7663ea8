package property

import "time"

// OwnerKind identifies which entity category a property belongs to.
// It determines the routing key of published documents and the cache tag
// family used for invalidation.
type OwnerKind string

// Owner categories.
const (
	OwnerConnector OwnerKind = "connector"
	OwnerDevice    OwnerKind = "device"
	OwnerChannel   OwnerKind = "channel"
)

// AllOwnerKinds returns all valid owner categories.
func AllOwnerKinds() []OwnerKind {
	return []OwnerKind{OwnerConnector, OwnerDevice, OwnerChannel}
}

// Kind is the property kind discriminator.
//
// A single generic Property record carries one of three kinds instead of a
// subclass per owner/kind combination:
//   - Dynamic: live value held in a separate runtime State record
//   - Mapped: alias with no State of its own; reads/writes forward to the parent
//   - Variable: value is part of the configuration record itself
type Kind string

// Property kinds.
const (
	KindDynamic  Kind = "dynamic"
	KindMapped   Kind = "mapped"
	KindVariable Kind = "variable"
)

// AllKinds returns all valid property kinds.
func AllKinds() []Kind {
	return []Kind{KindDynamic, KindMapped, KindVariable}
}

// DataType declares the value domain of a property.
type DataType string

// Data types.
const (
	DataTypeChar     DataType = "char"
	DataTypeUChar    DataType = "uchar"
	DataTypeShort    DataType = "short"
	DataTypeUShort   DataType = "ushort"
	DataTypeInt      DataType = "int"
	DataTypeUInt     DataType = "uint"
	DataTypeFloat    DataType = "float"
	DataTypeBool     DataType = "bool"
	DataTypeString   DataType = "string"
	DataTypeDate     DataType = "date"
	DataTypeTime     DataType = "time"
	DataTypeDateTime DataType = "datetime"
	DataTypeButton   DataType = "button"
	DataTypeSwitch   DataType = "switch"
	DataTypeCover    DataType = "cover"
	DataTypeEnum     DataType = "enum"
	DataTypeUnknown  DataType = "unknown"
)

// AllDataTypes returns all valid data type values.
func AllDataTypes() []DataType {
	return []DataType{
		DataTypeChar, DataTypeUChar, DataTypeShort, DataTypeUShort,
		DataTypeInt, DataTypeUInt, DataTypeFloat, DataTypeBool,
		DataTypeString, DataTypeDate, DataTypeTime, DataTypeDateTime,
		DataTypeButton, DataTypeSwitch, DataTypeCover, DataTypeEnum,
		DataTypeUnknown,
	}
}

// IsInteger reports whether the data type belongs to the integer family.
func (dt DataType) IsInteger() bool {
	switch dt {
	case DataTypeChar, DataTypeUChar, DataTypeShort, DataTypeUShort, DataTypeInt, DataTypeUInt:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the data type is integer-family or float.
func (dt DataType) IsNumeric() bool {
	return dt.IsInteger() || dt == DataTypeFloat
}

// Property is the configuration record for a connector, device, or channel
// property. It is the long-lived, authoritative record; runtime State is a
// satellite keyed by the property id and never outlives it.
//
// Invariants:
//   - A Mapped property's ParentID references a Dynamic or Variable property
//     of the same owner kind.
//   - A Variable property never has live State; its value lives in Value.
type Property struct {
	// Identity
	ID        string    `json:"id"`
	OwnerKind OwnerKind `json:"owner_kind"`
	OwnerID   string    `json:"owner_id"`

	// Identifier is the human key, unique within the owner.
	Identifier string `json:"identifier"`
	Name       string `json:"name"`

	// Kind discriminates dynamic/mapped/variable behaviour.
	Kind Kind `json:"kind"`

	// Value domain
	DataType DataType `json:"data_type"`
	Format   *Format  `json:"format,omitempty"`
	Unit     *string  `json:"unit,omitempty"`

	// Scale is the number of decimal places for integer-encoded floats.
	// Read divides by 10^Scale, write multiplies. Nil means no scaling.
	Scale *int `json:"scale,omitempty"`

	// Invalid is the sentinel raw value meaning "no valid reading".
	// It is exempt from range clamping.
	Invalid any `json:"invalid,omitempty"`

	// Flags
	Settable  bool `json:"settable"`
	Queryable bool `json:"queryable"`

	// ParentID is set only for Mapped properties.
	ParentID *string `json:"parent_id,omitempty"`

	// Value holds the configuration-resident value of a Variable property.
	Value any `json:"value,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy creates a complete independent copy of the Property.
// Pointer and composite fields are cloned so modifications to the copy
// do not affect the original. This is essential for cache isolation.
func (p *Property) DeepCopy() *Property {
	if p == nil {
		return nil
	}

	cpy := *p // Shallow copy of value fields

	if p.Format != nil {
		cpy.Format = p.Format.DeepCopy()
	}
	if p.Unit != nil {
		u := *p.Unit
		cpy.Unit = &u
	}
	if p.Scale != nil {
		s := *p.Scale
		cpy.Scale = &s
	}
	if p.ParentID != nil {
		id := *p.ParentID
		cpy.ParentID = &id
	}

	// Invalid and Value hold scalars (string, bool, int64, float64) after
	// normalization, which are safe to copy by value.

	return &cpy
}
