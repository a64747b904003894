package filter

// Shuffle regroups the bytes of fixed-size elements so that byte j of every
// element is stored contiguously. Numeric data compresses much better that
// way since high-order bytes tend to repeat.
type Shuffle struct {
	elemSize int
}

// NewShuffle creates a shuffle filter. Client data: [0] = element size in
// bytes, 1 if absent.
func NewShuffle(clientData []uint32) *Shuffle {
	elemSize := 1
	if len(clientData) > 0 && clientData[0] > 0 {
		elemSize = int(clientData[0])
	}
	return &Shuffle{elemSize: elemSize}
}

func (f *Shuffle) ID() uint16 {
	return IDShuffle
}

// Encode stores byte j of element i at j*n+i for n whole elements. Trailing
// bytes that do not form a whole element are copied unchanged.
func (f *Shuffle) Encode(input []byte) ([]byte, error) {
	return f.transpose(input, false), nil
}

// Decode reverses Encode.
func (f *Shuffle) Decode(input []byte) ([]byte, error) {
	return f.transpose(input, true), nil
}

// transpose moves bytes from element order to plane order, or back when
// inverse is set.
func (f *Shuffle) transpose(input []byte, inverse bool) []byte {
	size := f.elemSize
	n := len(input) / size
	if size <= 1 || n == 0 {
		return input
	}

	out := make([]byte, len(input))
	body := n * size
	for e := 0; e < n; e++ {
		elem := e * size
		for b := 0; b < size; b++ {
			plane := b*n + e
			if inverse {
				out[elem+b] = input[plane]
			} else {
				out[plane] = input[elem+b]
			}
		}
	}
	copy(out[body:], input[body:])
	return out
}
