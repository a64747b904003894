package nix

import (
	"github.com/robert-malhotra/go-nix/internal/dtype"
)

// DataType tags the element type of data and property values.
type DataType = dtype.DataType

// Element types.
const (
	Nothing = dtype.Nothing
	Bool    = dtype.Bool
	Int8    = dtype.Int8
	Int16   = dtype.Int16
	Int32   = dtype.Int32
	Int64   = dtype.Int64
	UInt8   = dtype.UInt8
	UInt16  = dtype.UInt16
	UInt32  = dtype.UInt32
	UInt64  = dtype.UInt64
	Float   = dtype.Float
	Double  = dtype.Double
	String  = dtype.String
)

// ParseDataType returns the DataType named s, e.g. "double".
func ParseDataType(s string) (DataType, error) {
	return dtype.Parse(s)
}

// Numeric is the set of Go element types accepted by the typed data helpers.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}
