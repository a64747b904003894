package storage

import (
	"fmt"
	"slices"
)

// NormalizeAttr validates an attribute value and returns a private copy of
// it. Plain int values are widened to int64 for convenience.
func NormalizeAttr(value any) (any, error) {
	switch v := value.(type) {
	case string, float64, int64, uint64, bool:
		return v, nil
	case int:
		return int64(v), nil
	case []string:
		return slices.Clone(v), nil
	case []float64:
		return slices.Clone(v), nil
	case []int64:
		return slices.Clone(v), nil
	case []uint64:
		return slices.Clone(v), nil
	case []bool:
		return slices.Clone(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrAttrType, value)
	}
}

// CloneAttr returns a copy of a normalized attribute value so callers cannot
// alias stored slices.
func CloneAttr(value any) any {
	v, err := NormalizeAttr(value)
	if err != nil {
		return value
	}
	return v
}
