package property

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestNormalizeValueNil(t *testing.T) {
	got, err := NormalizeValue(DataTypeInt, nil, nil, nil)
	if err != nil {
		t.Fatalf("NormalizeValue(nil) error: %v", err)
	}
	if got != nil {
		t.Errorf("NormalizeValue(nil) = %v, want nil", got)
	}
}

func TestNormalizeValueIntegerClamping(t *testing.T) {
	format := &Format{Min: floatPtr(0), Max: floatPtr(100)}

	tests := []struct {
		name    string
		dt      DataType
		input   any
		invalid any
		want    int64
	}{
		{"above range clamps to max", DataTypeUInt, 150, 255, 100},
		{"below range clamps to min", DataTypeUInt, -5, 255, 0},
		{"in range passes", DataTypeUInt, 42, 255, 42},
		{"sentinel bypasses clamping", DataTypeUInt, 255, 255, 255},
		{"numeric string cast", DataTypeInt, "37", nil, 37},
		{"float truncates", DataTypeShort, 12.9, nil, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(tt.dt, tt.input, format, tt.invalid)
			if err != nil {
				t.Fatalf("NormalizeValue(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeValueIntegerWithoutRange(t *testing.T) {
	got, err := NormalizeValue(DataTypeInt, 1234, nil, nil)
	if err != nil {
		t.Fatalf("NormalizeValue error: %v", err)
	}
	if got != int64(1234) {
		t.Errorf("NormalizeValue(1234) = %v (%T), want int64 1234", got, got)
	}
}

func TestNormalizeValueIntegerUncastable(t *testing.T) {
	_, err := NormalizeValue(DataTypeInt, "not-a-number", nil, nil)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NormalizeValue(uncastable) error = %v, want ErrInvalidValue", err)
	}
}

func TestNormalizeValueFloat(t *testing.T) {
	format := &Format{Min: floatPtr(-40), Max: floatPtr(85)}

	tests := []struct {
		name    string
		input   any
		invalid any
		want    float64
	}{
		{"in range", 21.5, nil, 21.5},
		{"clamped high", 120.0, nil, 85},
		{"clamped low", -55.0, nil, -40},
		{"sentinel passthrough", -127.0, -127.0, -127},
		{"string cast", "36.6", nil, 36.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(DataTypeFloat, tt.input, format, tt.invalid)
			if err != nil {
				t.Fatalf("NormalizeValue(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeValueString(t *testing.T) {
	got, err := NormalizeValue(DataTypeString, "hello", nil, nil)
	if err != nil {
		t.Fatalf("NormalizeValue error: %v", err)
	}
	if got != "hello" {
		t.Errorf("NormalizeValue(string) = %v, want hello", got)
	}
}

func TestNormalizeValueBool(t *testing.T) {
	tests := []struct {
		input any
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{"t", true},
		{"yes", true},
		{"Y", true},
		{"1", true},
		{"on", true},
		{"ON", true},
		{1, true},
		{"off", false},
		{"no", false},
		{"0", false},
		{0, false},
		{"anything", false},
	}

	for _, tt := range tests {
		got, err := NormalizeValue(DataTypeBool, tt.input, nil, nil)
		if err != nil {
			t.Fatalf("NormalizeValue(%v) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeValue(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeValueTemporal(t *testing.T) {
	t.Run("date parses", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeDate, "2026-03-15", nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		ts, ok := got.(time.Time)
		if !ok {
			t.Fatalf("got %T, want time.Time", got)
		}
		if ts.Year() != 2026 || ts.Month() != time.March || ts.Day() != 15 {
			t.Errorf("parsed date = %v", ts)
		}
	})

	t.Run("time parses", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeTime, "14:30:00", nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if _, ok := got.(time.Time); !ok {
			t.Fatalf("got %T, want time.Time", got)
		}
	})

	t.Run("datetime parses", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeDateTime, "2026-03-15T14:30:00Z", nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if _, ok := got.(time.Time); !ok {
			t.Fatalf("got %T, want time.Time", got)
		}
	})

	t.Run("time.Time passes through", func(t *testing.T) {
		now := time.Now()
		got, err := NormalizeValue(DataTypeDateTime, now, nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if got != now {
			t.Errorf("got %v, want passthrough", got)
		}
	})

	t.Run("unparsable returns nil not error", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeDate, "garbage", nil, nil)
		if err != nil {
			t.Fatalf("unparsable date must not error, got: %v", err)
		}
		if got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

func TestNormalizeValuePayloads(t *testing.T) {
	t.Run("switch accepts member case-insensitively", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeSwitch, "ON", nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if got != SwitchOn {
			t.Errorf("got %v, want SwitchOn", got)
		}
	})

	t.Run("typed payload passes through", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeButton, ButtonClicked, nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if got != ButtonClicked {
			t.Errorf("got %v, want ButtonClicked", got)
		}
	})

	t.Run("non-member fails listing allowed values", func(t *testing.T) {
		_, err := NormalizeValue(DataTypeSwitch, "standby", nil, nil)
		if !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("error = %v, want ErrInvalidValue", err)
		}
		if !strings.Contains(err.Error(), "on") || !strings.Contains(err.Error(), "off") {
			t.Errorf("error message should list allowed values, got: %v", err)
		}
	})

	t.Run("cover accepts member", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeCover, "OPEN", nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if got != CoverOpen {
			t.Errorf("got %v, want CoverOpen", got)
		}
	})
}

func TestNormalizeValueEnum(t *testing.T) {
	format := &Format{Items: []string{"on", "off"}}

	t.Run("member accepted, input spelling kept", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeEnum, "ON", format, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if got != "ON" {
			t.Errorf("got %v, want ON", got)
		}
	})

	t.Run("non-member rejected listing allowed", func(t *testing.T) {
		_, err := NormalizeValue(DataTypeEnum, "standby", format, nil)
		if !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("error = %v, want ErrInvalidValue", err)
		}
		if !strings.Contains(err.Error(), "on, off") {
			t.Errorf("error should list allowed values, got: %v", err)
		}
	})

	t.Run("no format passes string through", func(t *testing.T) {
		got, err := NormalizeValue(DataTypeEnum, "anything", nil, nil)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if got != "anything" {
			t.Errorf("got %v", got)
		}
	})
}

func TestNormalizeValueCombinedEnum(t *testing.T) {
	format := &Format{Combined: []CombinedItem{
		{Value: "heat", Read: "heating", Write: "set_heat"},
		{Value: "cool", Read: "cooling", Write: "set_cool"},
	}}

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"heat", "heat", false},
		{"HEATING", "heat", false}, // matches read part, canonical value returned
		{"set_cool", "cool", false},
		{"COOL", "cool", false},
		{"dry", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeValue(DataTypeEnum, tt.input, format, nil)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("error = %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeValue(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeReadValueScale(t *testing.T) {
	p := &Property{
		DataType: DataTypeUInt,
		Scale:    intPtr(2),
	}

	got, err := NormalizeReadValue(p, 1234)
	if err != nil {
		t.Fatalf("NormalizeReadValue error: %v", err)
	}
	if got != 12.34 {
		t.Errorf("NormalizeReadValue(1234, scale=2) = %v, want 12.34", got)
	}
}

func TestNormalizeReadValueSentinelUnscaled(t *testing.T) {
	p := &Property{
		DataType: DataTypeUInt,
		Scale:    intPtr(2),
		Invalid:  255,
	}

	got, err := NormalizeReadValue(p, 255)
	if err != nil {
		t.Fatalf("NormalizeReadValue error: %v", err)
	}
	if got != int64(255) {
		t.Errorf("NormalizeReadValue(sentinel) = %v, want 255 unscaled", got)
	}
}

func TestNormalizeWriteValueScale(t *testing.T) {
	p := &Property{
		DataType: DataTypeUInt,
		Scale:    intPtr(2),
	}

	got, err := NormalizeWriteValue(p, 12.34)
	if err != nil {
		t.Fatalf("NormalizeWriteValue error: %v", err)
	}
	if got != int64(1234) {
		t.Errorf("NormalizeWriteValue(12.34, scale=2) = %v, want 1234", got)
	}
}

func TestScaleRoundTrip(t *testing.T) {
	// normalizeWriteValue(normalizeReadValue(x, scale), scale) ≈ x
	for _, scale := range []int{0, 1, 2, 3} {
		for _, raw := range []int64{0, 1, 999, 1234, 100000} {
			p := &Property{DataType: DataTypeInt, Scale: intPtr(scale)}

			read, err := NormalizeReadValue(p, raw)
			if err != nil {
				t.Fatalf("read(%d, scale=%d) error: %v", raw, scale, err)
			}
			wrote, err := NormalizeWriteValue(p, read)
			if err != nil {
				t.Fatalf("write(read(%d), scale=%d) error: %v", raw, scale, err)
			}

			got, ok := toInt64(wrote)
			if !ok {
				t.Fatalf("write result %v (%T) is not an integer", wrote, wrote)
			}
			if math.Abs(float64(got-raw)) > 0 {
				t.Errorf("round trip scale=%d: %d -> %v -> %d", scale, raw, read, got)
			}
		}
	}
}

func TestFlattenValue(t *testing.T) {
	ts := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{"nil", nil, nil},
		{"time becomes string", ts, "2026-03-15T14:30:00Z"},
		{"button payload", ButtonPressed, "pressed"},
		{"switch payload", SwitchOn, "on"},
		{"cover payload", CoverClosed, "closed"},
		{"int passthrough", int64(7), int64(7)},
		{"float passthrough", 2.5, 2.5},
		{"bool passthrough", true, true},
		{"string passthrough", "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenValue(tt.input); got != tt.want {
				t.Errorf("FlattenValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
