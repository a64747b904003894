package nix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProperty(t *testing.T) Property {
	t.Helper()
	s, err := newTestFile(t).CreateSection("s", "t")
	require.NoError(t, err)
	p, err := s.CreateProperty("p")
	require.NoError(t, err)
	return p
}

func TestPropertyValues(t *testing.T) {
	tests := []struct {
		name string
		vals []Value
		dt   DataType
	}{
		{"bool", []Value{BoolValue(true), BoolValue(false)}, Bool},
		{"int", []Value{IntValue(-3), IntValue(1 << 40)}, Int64},
		{"uint", []Value{UintValue(1<<63 + 5)}, UInt64},
		{"float", []Value{FloatValue(1.5).WithUncertainty(0.1), FloatValue(2)}, Double},
		{"string", []Value{StringValue("a"), StringValue("")}, String},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProperty(t)
			require.NoError(t, p.SetValues(tt.vals))

			assert.Equal(t, tt.dt, p.DataType())
			assert.Equal(t, len(tt.vals), p.ValueCount())
			got, err := p.Values()
			require.NoError(t, err)
			assert.Equal(t, tt.vals, got)
		})
	}
}

func TestPropertyMixedValues(t *testing.T) {
	p := newTestProperty(t)
	require.NoError(t, p.SetValues([]Value{IntValue(1)}))

	err := p.SetValues([]Value{IntValue(1), StringValue("x")})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, p.SetValues([]Value{{}}), ErrInvalidValue)

	got, err := p.Values()
	require.NoError(t, err)
	assert.Equal(t, []Value{IntValue(1)}, got, "failed writes keep the old values")
}

func TestPropertyDeleteValues(t *testing.T) {
	p := newTestProperty(t)
	require.NoError(t, p.SetValues([]Value{FloatValue(1)}))

	require.NoError(t, p.SetValues(nil))
	assert.Equal(t, Nothing, p.DataType())
	assert.Equal(t, 0, p.ValueCount())

	require.NoError(t, p.SetValues([]Value{StringValue("x")}))
	require.NoError(t, p.DeleteValues())
	got, err := p.Values()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPropertyUnit(t *testing.T) {
	p := newTestProperty(t)

	require.NoError(t, p.SetUnit("kg*m/s^2"))
	unit, ok := p.Unit()
	assert.True(t, ok)
	assert.Equal(t, "kg*m/s^2", unit)

	assert.ErrorIs(t, p.SetUnit("stone"), ErrInvalidUnit)
	unit, _ = p.Unit()
	assert.Equal(t, "kg*m/s^2", unit)

	require.NoError(t, p.ClearUnit())
	_, ok = p.Unit()
	assert.False(t, ok)
}

func TestValueAccessors(t *testing.T) {
	v := FloatValue(2.5).WithUncertainty(0.5)
	assert.Equal(t, 2.5, v.AsFloat())
	assert.Zero(t, v.AsInt(), "accessors of another type yield zero")
	assert.Equal(t, "2.5±0.5", v.String())
	assert.Equal(t, `"hi"`, StringValue("hi").String())
	assert.Equal(t, "<nothing>", Value{}.String())
	assert.Nil(t, Value{}.Interface())
	assert.Equal(t, Nothing, Value{}.DataType())
}

func TestNullProperty(t *testing.T) {
	var p Property
	assert.True(t, p.IsNull())
	assert.ErrorIs(t, p.SetValues([]Value{IntValue(1)}), ErrNullHandle)
	_, err := p.Values()
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.ErrorIs(t, p.SetMapping("x"), ErrNullHandle)
	assert.Empty(t, p.Name())
}
