package filter

import (
	"encoding/binary"
	"fmt"
)

// Fletcher32Filter implements the Fletcher-32 checksum filter.
// Encode appends a checksum; Decode verifies and strips it.
type Fletcher32Filter struct{}

// NewFletcher32 creates a new Fletcher-32 filter.
func NewFletcher32(clientData []uint32) *Fletcher32Filter {
	return &Fletcher32Filter{}
}

func (f *Fletcher32Filter) ID() uint16 {
	return IDFletcher32
}

// Encode appends the little-endian checksum of input.
func (f *Fletcher32Filter) Encode(input []byte) ([]byte, error) {
	out := make([]byte, len(input)+4)
	copy(out, input)
	binary.LittleEndian.PutUint32(out[len(input):], Fletcher32(input))
	return out, nil
}

// Decode verifies the Fletcher-32 checksum and returns the data without it.
// The checksum is stored as the last 4 bytes of the input.
func (f *Fletcher32Filter) Decode(input []byte) ([]byte, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("fletcher32: input too short for checksum")
	}

	data := input[:len(input)-4]
	storedChecksum := binary.LittleEndian.Uint32(input[len(input)-4:])
	computedChecksum := Fletcher32(data)

	if storedChecksum != computedChecksum {
		return nil, fmt.Errorf("fletcher32: checksum mismatch (stored=0x%08x, computed=0x%08x)",
			storedChecksum, computedChecksum)
	}

	return data, nil
}

// Fletcher32 computes the Fletcher-32 checksum of data.
//
// The input is treated as a sequence of 16-bit words in little-endian order.
// If the input has an odd number of bytes, it is padded with a zero byte.
func Fletcher32(data []byte) uint32 {
	var sum1, sum2 uint32

	length := len(data)
	i := 0
	for ; i+1 < length; i += 2 {
		word := uint32(data[i]) | uint32(data[i+1])<<8
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	if i < length {
		word := uint32(data[i])
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}

	return (sum2 << 16) | sum1
}
