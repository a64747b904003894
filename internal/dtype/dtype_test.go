package dtype

import (
	"math"
	"reflect"
	"testing"
)

func TestGoType(t *testing.T) {
	tests := []struct {
		name     string
		dt       DataType
		expected reflect.Type
	}{
		{"int8", Int8, reflect.TypeOf(int8(0))},
		{"uint8", UInt8, reflect.TypeOf(uint8(0))},
		{"int16", Int16, reflect.TypeOf(int16(0))},
		{"uint16", UInt16, reflect.TypeOf(uint16(0))},
		{"int32", Int32, reflect.TypeOf(int32(0))},
		{"uint32", UInt32, reflect.TypeOf(uint32(0))},
		{"int64", Int64, reflect.TypeOf(int64(0))},
		{"uint64", UInt64, reflect.TypeOf(uint64(0))},
		{"float", Float, reflect.TypeOf(float32(0))},
		{"double", Double, reflect.TypeOf(float64(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoType(tt.dt)
			if err != nil {
				t.Fatalf("GoType failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if int(got.Size()) != tt.dt.Size() {
				t.Errorf("size: expected %d, got %d", got.Size(), tt.dt.Size())
			}
		})
	}
}

func TestParseRoundtrip(t *testing.T) {
	for dt := Bool; dt <= String; dt++ {
		got, err := Parse(dt.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", dt.String(), err)
		}
		if got != dt {
			t.Errorf("Parse(%q): expected %v, got %v", dt.String(), dt, got)
		}
	}

	if _, err := Parse("complex128"); err == nil {
		t.Error("expected error for unknown type name")
	}
}

func TestOf(t *testing.T) {
	dt, n, err := Of([]int32{1, 2, 3})
	if err != nil {
		t.Fatalf("Of failed: %v", err)
	}
	if dt != Int32 || n != 3 {
		t.Errorf("expected (int32, 3), got (%v, %d)", dt, n)
	}

	if _, _, err := Of([]string{"a"}); err == nil {
		t.Error("expected error for string buffer")
	}
	if _, _, err := Of(42); err == nil {
		t.Error("expected error for non-slice buffer")
	}
}

func TestEncodeDecodeSameType(t *testing.T) {
	src := []float64{1.5, -2.25, math.MaxFloat64, 0}
	raw, err := Encode(Double, src)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(raw) != len(src)*8 {
		t.Fatalf("expected %d bytes, got %d", len(src)*8, len(raw))
	}

	dst := make([]float64, len(src))
	if err := Decode(Double, raw, dst); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("element %d: expected %v, got %v", i, src[i], dst[i])
		}
	}
}

func TestDecodeTruncates(t *testing.T) {
	raw, err := Encode(Double, []float64{1.9, -1.9, 2.5, 100.99})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	dst := make([]int32, 4)
	if err := Decode(Double, raw, dst); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	expected := []int32{1, -1, 2, 100}
	for i := range expected {
		if dst[i] != expected[i] {
			t.Errorf("element %d: expected %d, got %d", i, expected[i], dst[i])
		}
	}
}

func TestEncodeConverts(t *testing.T) {
	// []int has no fixed size, so it always takes the element path
	raw, err := Encode(Int16, []int{1, -2, 300})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	dst := make([]int16, 3)
	if err := Decode(Int16, raw, dst); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if dst[0] != 1 || dst[1] != -2 || dst[2] != 300 {
		t.Errorf("unexpected values: %v", dst)
	}
}

func TestInt64Exact(t *testing.T) {
	big := int64(1<<62 + 1)
	raw, err := Encode(Int64, []int64{big})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	dst := make([]uint64, 1)
	if err := Decode(Int64, raw, dst); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if dst[0] != uint64(big) {
		t.Errorf("expected %d, got %d", big, dst[0])
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	raw := Zero(Int32, 4)
	if err := Decode(Int32, raw, make([]int32, 3)); err == nil {
		t.Error("expected error for short buffer")
	}
	if err := Decode(String, raw, make([]int32, 4)); err == nil {
		t.Error("expected error for non-numeric stored type")
	}
}

func TestFloat64Path(t *testing.T) {
	raw, err := Encode(UInt8, []uint8{0, 7, 255})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	vals, err := ToFloat64s(UInt8, raw)
	if err != nil {
		t.Fatalf("ToFloat64s failed: %v", err)
	}
	for i := range vals {
		vals[i] = vals[i]/2 - 0.25
	}

	dst := make([]int64, 3)
	if err := FromFloat64s(vals, dst); err != nil {
		t.Fatalf("FromFloat64s failed: %v", err)
	}
	expected := []int64{0, 3, 127}
	for i := range expected {
		if dst[i] != expected[i] {
			t.Errorf("element %d: expected %d, got %d", i, expected[i], dst[i])
		}
	}
}
