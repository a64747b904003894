package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// numberKind selects which field of number holds the value.
type numberKind uint8

const (
	kindSigned numberKind = iota
	kindUnsigned
	kindFloat
)

// number carries one element between types without forcing it through
// float64.
type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func (n number) int64() int64 {
	switch n.kind {
	case kindSigned:
		return n.i
	case kindUnsigned:
		return int64(n.u)
	default:
		return int64(n.f)
	}
}

func (n number) uint64() uint64 {
	switch n.kind {
	case kindSigned:
		return uint64(n.i)
	case kindUnsigned:
		return n.u
	default:
		if n.f < 0 {
			return uint64(int64(n.f))
		}
		return uint64(n.f)
	}
}

func (n number) float64() float64 {
	switch n.kind {
	case kindSigned:
		return float64(n.i)
	case kindUnsigned:
		return float64(n.u)
	default:
		return n.f
	}
}

// load reads one element of type t from b.
func load(t DataType, b []byte) number {
	le := binary.LittleEndian
	switch t {
	case Int8:
		return number{kind: kindSigned, i: int64(int8(b[0]))}
	case Int16:
		return number{kind: kindSigned, i: int64(int16(le.Uint16(b)))}
	case Int32:
		return number{kind: kindSigned, i: int64(int32(le.Uint32(b)))}
	case Int64:
		return number{kind: kindSigned, i: int64(le.Uint64(b))}
	case UInt8, Bool:
		return number{kind: kindUnsigned, u: uint64(b[0])}
	case UInt16:
		return number{kind: kindUnsigned, u: uint64(le.Uint16(b))}
	case UInt32:
		return number{kind: kindUnsigned, u: uint64(le.Uint32(b))}
	case UInt64:
		return number{kind: kindUnsigned, u: le.Uint64(b)}
	case Float:
		return number{kind: kindFloat, f: float64(math.Float32frombits(le.Uint32(b)))}
	default:
		return number{kind: kindFloat, f: math.Float64frombits(le.Uint64(b))}
	}
}

// put writes n into b as type t.
func put(t DataType, b []byte, n number) {
	le := binary.LittleEndian
	switch t {
	case Int8:
		b[0] = byte(int8(n.int64()))
	case Int16:
		le.PutUint16(b, uint16(int16(n.int64())))
	case Int32:
		le.PutUint32(b, uint32(int32(n.int64())))
	case Int64:
		le.PutUint64(b, uint64(n.int64()))
	case UInt8:
		b[0] = byte(n.uint64())
	case UInt16:
		le.PutUint16(b, uint16(n.uint64()))
	case UInt32:
		le.PutUint32(b, uint32(n.uint64()))
	case UInt64:
		le.PutUint64(b, n.uint64())
	case Float:
		le.PutUint32(b, math.Float32bits(float32(n.float64())))
	case Double:
		le.PutUint64(b, math.Float64bits(n.float64()))
	}
}

// fromValue reads a numeric reflect.Value.
func fromValue(v reflect.Value) (number, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: kindSigned, i: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number{kind: kindUnsigned, u: v.Uint()}, nil
	case reflect.Float32, reflect.Float64:
		return number{kind: kindFloat, f: v.Float()}, nil
	default:
		return number{}, fmt.Errorf("cannot convert %s to a number", v.Kind())
	}
}

// setValue stores n into a numeric reflect.Value using Go conversion rules.
func setValue(v reflect.Value, n number) error {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(n.int64())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(n.uint64())
	case reflect.Float32, reflect.Float64:
		v.SetFloat(n.float64())
	default:
		return fmt.Errorf("cannot store a number into %s", v.Kind())
	}
	return nil
}

func checkStored(t DataType) error {
	if !t.IsNumeric() {
		return fmt.Errorf("data type %s is not numeric", t)
	}
	return nil
}

// Encode converts the numeric slice src into stored bytes of type t.
func Encode(t DataType, src interface{}) ([]byte, error) {
	if err := checkStored(t); err != nil {
		return nil, err
	}
	sv, err := sliceValue(src)
	if err != nil {
		return nil, err
	}

	// Fast path: buffer already has the stored layout
	if goType, _ := GoType(t); sv.Type().Elem() == goType {
		return binary.Append(make([]byte, 0, sv.Len()*t.Size()), binary.LittleEndian, sv.Interface())
	}

	size := t.Size()
	out := make([]byte, sv.Len()*size)
	for i := 0; i < sv.Len(); i++ {
		n, err := fromValue(sv.Index(i))
		if err != nil {
			return nil, err
		}
		put(t, out[i*size:], n)
	}
	return out, nil
}

// Decode converts stored bytes of type t into the numeric slice dst.
// dst must hold at least len(raw)/t.Size() elements; only that many are
// written.
func Decode(t DataType, raw []byte, dst interface{}) error {
	if err := checkStored(t); err != nil {
		return err
	}
	dv, err := sliceValue(dst)
	if err != nil {
		return err
	}
	size := t.Size()
	if len(raw)%size != 0 {
		return fmt.Errorf("raw data length %d is not a multiple of %d", len(raw), size)
	}
	n := len(raw) / size
	if dv.Len() < n {
		return fmt.Errorf("buffer holds %d elements, need %d", dv.Len(), n)
	}

	if goType, _ := GoType(t); dv.Type().Elem() == goType {
		_, err := binary.Decode(raw, binary.LittleEndian, dv.Slice(0, n).Interface())
		return err
	}

	for i := 0; i < n; i++ {
		if err := setValue(dv.Index(i), load(t, raw[i*size:])); err != nil {
			return err
		}
	}
	return nil
}

// ToFloat64s decodes stored bytes of type t into float64 values.
func ToFloat64s(t DataType, raw []byte) ([]float64, error) {
	if err := checkStored(t); err != nil {
		return nil, err
	}
	size := t.Size()
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("raw data length %d is not a multiple of %d", len(raw), size)
	}
	out := make([]float64, len(raw)/size)
	for i := range out {
		out[i] = load(t, raw[i*size:]).float64()
	}
	return out, nil
}

// FromFloat64s stores vals into the numeric slice dst, truncating toward zero
// for integer element types.
func FromFloat64s(vals []float64, dst interface{}) error {
	dv, err := sliceValue(dst)
	if err != nil {
		return err
	}
	if dv.Len() < len(vals) {
		return fmt.Errorf("buffer holds %d elements, need %d", dv.Len(), len(vals))
	}
	for i, f := range vals {
		if err := setValue(dv.Index(i), number{kind: kindFloat, f: f}); err != nil {
			return err
		}
	}
	return nil
}

// Zero returns a zero-filled buffer for n elements of type t.
func Zero(t DataType, n uint64) []byte {
	return make([]byte, n*uint64(t.Size()))
}
