package nix

import (
	"fmt"
	"strconv"

	"github.com/robert-malhotra/go-nix/internal/units"
)

// Property attribute keys.
const (
	attrUnit          = "unit"
	attrValueType     = "value_type"
	attrValues        = "values"
	attrUncertainties = "uncertainties"
)

// Value is one element of a Property value sequence: a bool, int64, uint64,
// float64 or string with an optional uncertainty. The zero Value holds
// nothing.
type Value struct {
	v           any
	Uncertainty float64
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{v: b} }

// IntValue wraps a signed integer.
func IntValue(i int64) Value { return Value{v: i} }

// UintValue wraps an unsigned integer.
func UintValue(u uint64) Value { return Value{v: u} }

// FloatValue wraps a floating point number.
func FloatValue(f float64) Value { return Value{v: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{v: s} }

// WithUncertainty returns a copy of v carrying the given uncertainty.
func (v Value) WithUncertainty(u float64) Value {
	v.Uncertainty = u
	return v
}

// DataType returns the type tag of the held value.
func (v Value) DataType() DataType {
	switch v.v.(type) {
	case bool:
		return Bool
	case int64:
		return Int64
	case uint64:
		return UInt64
	case float64:
		return Double
	case string:
		return String
	default:
		return Nothing
	}
}

// Interface returns the held value, nil for the zero Value.
func (v Value) Interface() any {
	return v.v
}

// AsBool returns the boolean, false for other types.
func (v Value) AsBool() bool {
	b, _ := v.v.(bool)
	return b
}

// AsInt returns the signed integer, 0 for other types.
func (v Value) AsInt() int64 {
	i, _ := v.v.(int64)
	return i
}

// AsUint returns the unsigned integer, 0 for other types.
func (v Value) AsUint() uint64 {
	u, _ := v.v.(uint64)
	return u
}

// AsFloat returns the floating point number, 0 for other types.
func (v Value) AsFloat() float64 {
	f, _ := v.v.(float64)
	return f
}

// AsString returns the string, empty for other types.
func (v Value) AsString() string {
	s, _ := v.v.(string)
	return s
}

// String formats the value with its uncertainty, e.g. "2.5±0.5".
func (v Value) String() string {
	var s string
	switch x := v.v.(type) {
	case nil:
		return "<nothing>"
	case string:
		s = strconv.Quote(x)
	default:
		s = fmt.Sprint(x)
	}
	if v.Uncertainty != 0 {
		s += "±" + strconv.FormatFloat(v.Uncertainty, 'g', -1, 64)
	}
	return s
}

// Property is a named value sequence owned by one Section.
type Property struct {
	entity
}

// Equal reports whether p and o refer to the same backing node. Two null
// Properties are equal.
func (p Property) Equal(o Property) bool {
	return p.same(o.handle)
}

// Swap exchanges the entities referenced by p and o.
func (p *Property) Swap(o *Property) {
	*p, *o = *o, *p
}

// Unit returns the unit and whether it is set.
func (p Property) Unit() (string, bool) {
	return p.optString(attrUnit)
}

// SetUnit sets the unit. It must be an atomic or compound SI unit.
func (p Property) SetUnit(unit string) error {
	if !units.Valid(unit) {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return p.setAttr(attrUnit, unit)
}

// ClearUnit removes the unit.
func (p Property) ClearUnit() error {
	return p.removeAttr(attrUnit)
}

// Mapping returns the mapping and whether it is set.
func (p Property) Mapping() (string, bool) {
	return p.optString(attrMapping)
}

// SetMapping sets the mapping.
func (p Property) SetMapping(mapping string) error {
	return p.setAttr(attrMapping, mapping)
}

// ClearMapping removes the mapping.
func (p Property) ClearMapping() error {
	return p.removeAttr(attrMapping)
}

// DataType returns the type of the stored values, Nothing if none are set.
func (p Property) DataType() DataType {
	t, err := ParseDataType(p.stringAttr(attrValueType))
	if err != nil {
		return Nothing
	}
	return t
}

// ValueCount returns the number of stored values.
func (p Property) ValueCount() int {
	vals, err := p.Values()
	if err != nil {
		return 0
	}
	return len(vals)
}

// SetValues replaces the value sequence. All values must share one type;
// an empty sequence removes the values.
func (p Property) SetValues(vals []Value) error {
	if err := p.check(); err != nil {
		return err
	}
	if len(vals) == 0 {
		return p.DeleteValues()
	}

	dt := vals[0].DataType()
	if dt == Nothing {
		return fmt.Errorf("%w: value 0 holds nothing", ErrInvalidValue)
	}
	uncertainties := make([]float64, len(vals))
	for i, v := range vals {
		if v.DataType() != dt {
			return fmt.Errorf("%w: value %d is %s, want %s", ErrInvalidValue, i, v.DataType(), dt)
		}
		uncertainties[i] = v.Uncertainty
	}

	var stored any
	switch dt {
	case Bool:
		stored = collect(vals, Value.AsBool)
	case Int64:
		stored = collect(vals, Value.AsInt)
	case UInt64:
		stored = collect(vals, Value.AsUint)
	case Double:
		stored = collect(vals, Value.AsFloat)
	case String:
		stored = collect(vals, Value.AsString)
	}

	if err := p.node.SetAttr(attrValueType, dt.String()); err != nil {
		return err
	}
	if err := p.node.SetAttr(attrValues, stored); err != nil {
		return err
	}
	return p.setAttr(attrUncertainties, uncertainties)
}

func collect[T any](vals []Value, get func(Value) T) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = get(v)
	}
	return out
}

// Values returns the stored value sequence, empty if none is set.
func (p Property) Values() ([]Value, error) {
	if p.IsNull() {
		return nil, ErrNullHandle
	}
	raw, ok := p.node.Attr(attrValues)
	if !ok {
		return []Value{}, nil
	}
	var vals []Value
	switch x := raw.(type) {
	case []bool:
		vals = wrapValues(x, BoolValue)
	case []int64:
		vals = wrapValues(x, IntValue)
	case []uint64:
		vals = wrapValues(x, UintValue)
	case []float64:
		vals = wrapValues(x, FloatValue)
	case []string:
		vals = wrapValues(x, StringValue)
	default:
		return nil, fmt.Errorf("%w: stored values of type %T", ErrInvalidValue, raw)
	}
	if u, ok := p.optFloats(attrUncertainties); ok && len(u) == len(vals) {
		for i := range vals {
			vals[i].Uncertainty = u[i]
		}
	}
	return vals, nil
}

func wrapValues[T any](in []T, wrap func(T) Value) []Value {
	out := make([]Value, len(in))
	for i, x := range in {
		out[i] = wrap(x)
	}
	return out
}

// DeleteValues removes all values.
func (p Property) DeleteValues() error {
	if err := p.check(); err != nil {
		return err
	}
	p.node.RemoveAttr(attrValues)
	p.node.RemoveAttr(attrValueType)
	return p.removeAttr(attrUncertainties)
}
