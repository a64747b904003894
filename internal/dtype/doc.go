// Package dtype provides element type tags for stored data and the numeric
// conversions between stored bytes and Go slices.
//
// Stored data is always little-endian and densely packed. A [DataType] names
// the element type of a dataset or attribute; Go buffers are plain slices of
// a numeric kind.
//
// # Type Mapping
//
//	DataType | Go Type  | Size
//	---------|----------|-----
//	Bool     | bool     | 1
//	Int8     | int8     | 1
//	Int16    | int16    | 2
//	Int32    | int32    | 4
//	Int64    | int64    | 8
//	UInt8    | uint8    | 1
//	UInt16   | uint16   | 2
//	UInt32   | uint32   | 4
//	UInt64   | uint64   | 8
//	Float    | float32  | 4
//	Double   | float64  | 8
//	String   | string   | variable
//
// # Conversion Rules
//
// When the buffer's element type differs from the stored type, each element
// goes through Go's own conversion rules: float to integer truncates toward
// zero, integer narrowing wraps, integer to float rounds to nearest. Values
// never pass through float64 unless one side is a floating type, so 64-bit
// integers survive an int64 to uint64 or int64 to int64 copy exactly.
//
// # Key Functions
//
//   - [Encode]: Go numeric slice to stored bytes of a DataType
//   - [Decode]: stored bytes to a Go numeric slice
//   - [ToFloat64s] and [FromFloat64s]: the float64 path used by calibration
//   - [Of]: the DataType matching a Go slice's element type
package dtype
