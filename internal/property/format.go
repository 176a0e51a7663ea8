package property

import "strings"

// Format declares the allowed values of a property beyond its data type.
//
// Exactly one of three shapes is populated:
//   - Numeric range: Min and/or Max (open ends allowed)
//   - String enumeration: Items
//   - Combined enumeration: Combined, where each item is a tuple of tagged
//     parts and an input matches the item if it equals any part
type Format struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	Items []string `json:"items,omitempty"`

	Combined []CombinedItem `json:"combined,omitempty"`
}

// CombinedItem is one allowed entry of a combined enumeration. The parts are
// alternate spellings of the same logical value: Value is the canonical wire
// form, Read is the device-reported form, Write is the device-accepted form.
type CombinedItem struct {
	Value string `json:"value"`
	Read  string `json:"read,omitempty"`
	Write string `json:"write,omitempty"`
}

// HasRange reports whether the format constrains a numeric range.
func (f *Format) HasRange() bool {
	return f != nil && (f.Min != nil || f.Max != nil)
}

// HasItems reports whether the format is a string enumeration.
func (f *Format) HasItems() bool {
	return f != nil && len(f.Items) > 0
}

// HasCombined reports whether the format is a combined enumeration.
func (f *Format) HasCombined() bool {
	return f != nil && len(f.Combined) > 0
}

// MatchItem returns the enumeration item matching the input
// case-insensitively, or false if no item matches.
func (f *Format) MatchItem(input string) (string, bool) {
	for _, item := range f.Items {
		if strings.EqualFold(item, input) {
			return item, true
		}
	}
	return "", false
}

// MatchCombined returns the combined item whose any part equals the input
// case-insensitively, or false if no item matches.
func (f *Format) MatchCombined(input string) (CombinedItem, bool) {
	for _, item := range f.Combined {
		if strings.EqualFold(item.Value, input) ||
			(item.Read != "" && strings.EqualFold(item.Read, input)) ||
			(item.Write != "" && strings.EqualFold(item.Write, input)) {
			return item, true
		}
	}
	return CombinedItem{}, false
}

// AllowedValues lists the values an enumeration format accepts, for error
// messages. For combined enumerations this is the canonical Value parts.
func (f *Format) AllowedValues() []string {
	if f == nil {
		return nil
	}
	if len(f.Items) > 0 {
		out := make([]string, len(f.Items))
		copy(out, f.Items)
		return out
	}
	if len(f.Combined) > 0 {
		out := make([]string, 0, len(f.Combined))
		for _, item := range f.Combined {
			out = append(out, item.Value)
		}
		return out
	}
	return nil
}

// DeepCopy creates an independent copy of the Format.
func (f *Format) DeepCopy() *Format {
	if f == nil {
		return nil
	}

	cpy := Format{}
	if f.Min != nil {
		v := *f.Min
		cpy.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		cpy.Max = &v
	}
	if f.Items != nil {
		cpy.Items = make([]string, len(f.Items))
		copy(cpy.Items, f.Items)
	}
	if f.Combined != nil {
		cpy.Combined = make([]CombinedItem, len(f.Combined))
		copy(cpy.Combined, f.Combined)
	}
	return &cpy
}
