package sqlitestore

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-nix/storage"
)

// attrValue is the persisted form of one attribute. Floats are stored as
// their IEEE 754 bit patterns so NaN and infinities survive JSON.
type attrValue struct {
	Type  string          `json:"t"`
	Value json.RawMessage `json:"v"`
}

func encodeAttr(value any) ([]byte, error) {
	var (
		typ string
		v   any
	)
	switch x := value.(type) {
	case string:
		typ, v = "string", x
	case []string:
		typ, v = "string[]", x
	case int64:
		typ, v = "int64", x
	case []int64:
		typ, v = "int64[]", x
	case uint64:
		typ, v = "uint64", x
	case []uint64:
		typ, v = "uint64[]", x
	case bool:
		typ, v = "bool", x
	case []bool:
		typ, v = "bool[]", x
	case float64:
		typ, v = "float64", math.Float64bits(x)
	case []float64:
		bits := make([]uint64, len(x))
		for i, f := range x {
			bits[i] = math.Float64bits(f)
		}
		typ, v = "float64[]", bits
	default:
		return nil, fmt.Errorf("%w: %T", storage.ErrAttrType, value)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(attrValue{Type: typ, Value: raw})
}

func decodeAttr(data []byte) (any, error) {
	var av attrValue
	if err := json.Unmarshal(data, &av); err != nil {
		return nil, err
	}
	switch av.Type {
	case "string":
		return unmarshalAs[string](av.Value)
	case "string[]":
		return unmarshalSlice[string](av.Value)
	case "int64":
		return unmarshalAs[int64](av.Value)
	case "int64[]":
		return unmarshalSlice[int64](av.Value)
	case "uint64":
		return unmarshalAs[uint64](av.Value)
	case "uint64[]":
		return unmarshalSlice[uint64](av.Value)
	case "bool":
		return unmarshalAs[bool](av.Value)
	case "bool[]":
		return unmarshalSlice[bool](av.Value)
	case "float64":
		bits, err := unmarshalAs[uint64](av.Value)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case "float64[]":
		bits, err := unmarshalSlice[uint64](av.Value)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(bits))
		for i, b := range bits {
			out[i] = math.Float64frombits(b)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: stored type %q", storage.ErrAttrType, av.Type)
	}
}

func unmarshalAs[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

// unmarshalSlice keeps empty slices non-nil; an empty attribute differs from
// an absent one.
func unmarshalSlice[T any](raw json.RawMessage) ([]T, error) {
	v := []T{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}
