package property

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Fixed parse layouts for temporal data types. Unparsable input normalizes
// to nil rather than erroring: read paths must never fail on stored garbage.
const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	dateTimeLayout = time.RFC3339
)

// boolTokens are the accepted truthy spellings for bool-typed properties.
// Membership is tested case-insensitively; everything else is false.
var boolTokens = map[string]struct{}{
	"true": {}, "t": {}, "yes": {}, "y": {}, "1": {}, "on": {},
}

// NormalizeValue casts and validates a raw value against a declared data
// type, optional format, and optional sentinel invalid value.
//
// Semantics:
//   - nil input returns nil.
//   - Integer family: the sentinel invalid value passes through unclamped;
//     other values are clamped into the format's numeric range if present.
//   - Float: same rule with floating-point clamping.
//   - String: returned as-is.
//   - Bool: case-insensitive membership test against {true,t,yes,y,1,on}.
//   - Date/Time/DateTime: parsed with a fixed layout per kind; unparsable
//     input returns nil, not an error.
//   - Button/Switch/Cover: validated against the payload enumeration;
//     non-members fail with ErrInvalidValue listing the allowed values.
//   - Enum: matched case-insensitively against the enumeration format;
//     non-members fail with ErrInvalidValue.
//
// Returns:
//   - any: The normalized value (nil is a valid result)
//   - error: ErrInvalidValue-wrapped error for enum/payload/numeric failures
func NormalizeValue(dt DataType, raw any, format *Format, invalid any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch {
	case dt.IsInteger():
		return normalizeInteger(raw, format, invalid)

	case dt == DataTypeFloat:
		return normalizeFloat(raw, format, invalid)

	case dt == DataTypeString:
		return raw, nil

	case dt == DataTypeBool:
		return normalizeBool(raw), nil

	case dt == DataTypeDate:
		return normalizeTemporal(raw, dateLayout), nil

	case dt == DataTypeTime:
		return normalizeTemporal(raw, timeLayout), nil

	case dt == DataTypeDateTime:
		return normalizeTemporal(raw, dateTimeLayout), nil

	case dt == DataTypeButton:
		return normalizeButton(raw)

	case dt == DataTypeSwitch:
		return normalizeSwitch(raw)

	case dt == DataTypeCover:
		return normalizeCover(raw)

	case dt == DataTypeEnum:
		return normalizeEnum(raw, format)

	default:
		// Unknown data type carries no constraints.
		return raw, nil
	}
}

// NormalizeReadValue normalizes a stored raw value for reading and applies
// the property's scale for the numeric family: an integer-encoded float is
// divided by 10^scale. The sentinel invalid value is never scaled.
func NormalizeReadValue(p *Property, raw any) (any, error) {
	value, err := NormalizeValue(p.DataType, raw, p.Format, p.Invalid)
	if err != nil || value == nil {
		return value, err
	}

	if !p.DataType.IsNumeric() || p.Scale == nil || *p.Scale <= 0 {
		return value, nil
	}
	if isSentinel(value, p.Invalid) {
		return value, nil
	}

	factor := math.Pow10(*p.Scale)
	switch v := value.(type) {
	case int64:
		return float64(v) / factor, nil
	case float64:
		return v / factor, nil
	default:
		return value, nil
	}
}

// NormalizeWriteValue normalizes a raw value for writing and applies the
// property's scale for the numeric family: the value is multiplied by
// 10^scale and reduced to an integer before the usual cast/clamp pass, so
// range constraints apply in the stored domain. Inverse of
// NormalizeReadValue modulo floating rounding. The sentinel invalid value
// is never scaled.
func NormalizeWriteValue(p *Property, raw any) (any, error) {
	if raw != nil && p.DataType.IsNumeric() && p.Scale != nil && *p.Scale > 0 {
		if f, ok := toFloat64(raw); ok {
			if sentinel, sok := toFloat64(p.Invalid); !sok || sentinel != f {
				raw = int64(math.Round(f * math.Pow10(*p.Scale)))
			}
		}
	}

	return NormalizeValue(p.DataType, raw, p.Format, p.Invalid)
}

// FlattenValue reduces a normalized value to a storage- and wire-safe
// scalar: bool, int64, float64, string, or nil. Temporal values become
// fixed-format strings; payload values become their underlying string.
func FlattenValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return v.Format(dateTimeLayout)
	case ButtonPayload:
		return string(v)
	case SwitchPayload:
		return string(v)
	case CoverPayload:
		return string(v)
	default:
		return value
	}
}

// normalizeInteger casts to int64, honouring the sentinel and clamping into
// the format range.
func normalizeInteger(raw any, format *Format, invalid any) (any, error) {
	value, ok := toInt64(raw)
	if !ok {
		return nil, fmt.Errorf("%w: cannot cast %v (%T) to integer", ErrInvalidValue, raw, raw)
	}

	// Sentinel passthrough bypasses clamping.
	if invalid != nil {
		if sentinel, sok := toInt64(invalid); sok && sentinel == value {
			return sentinel, nil
		}
	}

	if format.HasRange() {
		if format.Min != nil && value < int64(*format.Min) {
			value = int64(*format.Min)
		}
		if format.Max != nil && value > int64(*format.Max) {
			value = int64(*format.Max)
		}
	}

	return value, nil
}

// normalizeFloat casts to float64, honouring the sentinel and clamping into
// the format range.
func normalizeFloat(raw any, format *Format, invalid any) (any, error) {
	value, ok := toFloat64(raw)
	if !ok {
		return nil, fmt.Errorf("%w: cannot cast %v (%T) to float", ErrInvalidValue, raw, raw)
	}

	if invalid != nil {
		if sentinel, sok := toFloat64(invalid); sok && sentinel == value {
			return sentinel, nil
		}
	}

	if format.HasRange() {
		if format.Min != nil && value < *format.Min {
			value = *format.Min
		}
		if format.Max != nil && value > *format.Max {
			value = *format.Max
		}
	}

	return value, nil
}

// normalizeBool performs a case-insensitive membership test against the
// truthy token set. Bool input passes through.
func normalizeBool(raw any) bool {
	if b, ok := raw.(bool); ok {
		return b
	}
	token := strings.ToLower(strings.TrimSpace(fmt.Sprint(raw)))
	_, ok := boolTokens[token]
	return ok
}

// normalizeTemporal parses string input with the fixed layout for the kind.
// time.Time input passes through; unparsable input returns nil.
func normalizeTemporal(raw any, layout string) any {
	switch v := raw.(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(layout, v)
		if err != nil {
			return nil
		}
		return t
	default:
		return nil
	}
}

func normalizeButton(raw any) (any, error) {
	if p, ok := raw.(ButtonPayload); ok {
		return p, nil
	}
	if p, ok := matchButtonPayload(fmt.Sprint(raw)); ok {
		return p, nil
	}
	return nil, payloadError(raw, buttonPayloadStrings())
}

func normalizeSwitch(raw any) (any, error) {
	if p, ok := raw.(SwitchPayload); ok {
		return p, nil
	}
	if p, ok := matchSwitchPayload(fmt.Sprint(raw)); ok {
		return p, nil
	}
	return nil, payloadError(raw, switchPayloadStrings())
}

func normalizeCover(raw any) (any, error) {
	if p, ok := raw.(CoverPayload); ok {
		return p, nil
	}
	if p, ok := matchCoverPayload(fmt.Sprint(raw)); ok {
		return p, nil
	}
	return nil, payloadError(raw, coverPayloadStrings())
}

// normalizeEnum validates string enumeration and combined enumeration
// formats. A plain enumeration returns the input spelling unchanged; a
// combined enumeration returns the canonical value of the matched item.
// An enum-typed property without an enumeration format is unconstrained.
func normalizeEnum(raw any, format *Format) (any, error) {
	input := strings.TrimSpace(fmt.Sprint(raw))

	switch {
	case format.HasItems():
		if _, ok := format.MatchItem(input); ok {
			return input, nil
		}
		return nil, payloadError(raw, format.AllowedValues())

	case format.HasCombined():
		if item, ok := format.MatchCombined(input); ok {
			return item.Value, nil
		}
		return nil, payloadError(raw, format.AllowedValues())

	default:
		return input, nil
	}
}

// payloadError builds the ErrInvalidValue for enum/payload rejections,
// listing the allowed values.
func payloadError(raw any, allowed []string) error {
	return fmt.Errorf("%w: %v is not a member of [%s]", ErrInvalidValue, raw, strings.Join(allowed, ", "))
}

// isSentinel reports whether a normalized value equals the declared
// sentinel invalid value.
func isSentinel(value any, invalid any) bool {
	if invalid == nil {
		return false
	}
	switch v := value.(type) {
	case int64:
		if s, ok := toInt64(invalid); ok {
			return s == v
		}
	case float64:
		if s, ok := toFloat64(invalid); ok {
			return s == v
		}
	}
	return false
}

// toInt64 casts common scalar representations to int64.
// Floats are truncated; numeric strings are parsed.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// toFloat64 casts common scalar representations to float64.
func toFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func buttonPayloadStrings() []string {
	payloads := AllButtonPayloads()
	out := make([]string, len(payloads))
	for i, p := range payloads {
		out[i] = string(p)
	}
	return out
}

func switchPayloadStrings() []string {
	payloads := AllSwitchPayloads()
	out := make([]string, len(payloads))
	for i, p := range payloads {
		out[i] = string(p)
	}
	return out
}

func coverPayloadStrings() []string {
	payloads := AllCoverPayloads()
	out := make([]string, len(payloads))
	for i, p := range payloads {
		out[i] = string(p)
	}
	return out
}
