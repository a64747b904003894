package dtype

import (
	"fmt"
	"reflect"
	"strings"
)

// DataType tags the element type of stored data.
type DataType uint8

// Element types.
const (
	Nothing DataType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float
	Double
	String
)

var typeNames = map[DataType]string{
	Nothing: "nothing",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	UInt8:   "uint8",
	UInt16:  "uint16",
	UInt32:  "uint32",
	UInt64:  "uint64",
	Float:   "float",
	Double:  "double",
	String:  "string",
}

func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", uint8(t))
}

// Parse returns the DataType named by s (as produced by String).
func Parse(s string) (DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return Nothing, fmt.Errorf("unknown data type: %q", s)
}

// Size returns the size of a single element in bytes.
// String and Nothing have no fixed size and return 0.
func (t DataType) Size() int {
	switch t {
	case Bool, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float:
		return 4
	case Int64, UInt64, Double:
		return 8
	default:
		return 0
	}
}

// IsNumeric returns true for integer and floating-point types.
func (t DataType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsInteger returns true for signed and unsigned integer types.
func (t DataType) IsInteger() bool {
	return t.IsSigned() || t.IsUnsigned()
}

// IsSigned returns true for signed integer types.
func (t DataType) IsSigned() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsUnsigned returns true for unsigned integer types.
func (t DataType) IsUnsigned() bool {
	switch t {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsFloat returns true for floating-point types.
func (t DataType) IsFloat() bool {
	return t == Float || t == Double
}

// GoType returns the Go reflect.Type corresponding to the data type.
func GoType(t DataType) (reflect.Type, error) {
	switch t {
	case Bool:
		return reflect.TypeOf(false), nil
	case Int8:
		return reflect.TypeOf(int8(0)), nil
	case Int16:
		return reflect.TypeOf(int16(0)), nil
	case Int32:
		return reflect.TypeOf(int32(0)), nil
	case Int64:
		return reflect.TypeOf(int64(0)), nil
	case UInt8:
		return reflect.TypeOf(uint8(0)), nil
	case UInt16:
		return reflect.TypeOf(uint16(0)), nil
	case UInt32:
		return reflect.TypeOf(uint32(0)), nil
	case UInt64:
		return reflect.TypeOf(uint64(0)), nil
	case Float:
		return reflect.TypeOf(float32(0)), nil
	case Double:
		return reflect.TypeOf(float64(0)), nil
	case String:
		return reflect.TypeOf(""), nil
	default:
		return nil, fmt.Errorf("no Go type for %s", t)
	}
}

// OfKind returns the DataType for a Go kind. int and uint map to their
// 64-bit forms.
func OfKind(k reflect.Kind) (DataType, error) {
	switch k {
	case reflect.Bool:
		return Bool, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Int64, reflect.Int:
		return Int64, nil
	case reflect.Uint8:
		return UInt8, nil
	case reflect.Uint16:
		return UInt16, nil
	case reflect.Uint32:
		return UInt32, nil
	case reflect.Uint64, reflect.Uint:
		return UInt64, nil
	case reflect.Float32:
		return Float, nil
	case reflect.Float64:
		return Double, nil
	case reflect.String:
		return String, nil
	default:
		return Nothing, fmt.Errorf("unsupported Go kind: %s", k)
	}
}

// Of returns the DataType of the elements of buf and its length.
// buf must be a slice (or pointer to a slice) of a numeric kind.
func Of(buf interface{}) (DataType, int, error) {
	v, err := sliceValue(buf)
	if err != nil {
		return Nothing, 0, err
	}
	t, err := OfKind(v.Type().Elem().Kind())
	if err != nil {
		return Nothing, 0, err
	}
	if !t.IsNumeric() {
		return Nothing, 0, fmt.Errorf("buffer element type %s is not numeric", t)
	}
	return t, v.Len(), nil
}

// sliceValue unwraps buf into a reflect.Value of kind Slice.
func sliceValue(buf interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(buf)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return reflect.Value{}, fmt.Errorf("buffer must be a slice, got %T", buf)
	}
	return v, nil
}
