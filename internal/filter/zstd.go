package filter

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Decoders are level independent, so one pool serves every Zstd filter.
var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Zstd implements Zstandard compression.
type Zstd struct {
	enc *zstd.Encoder
}

// NewZstd creates a new Zstandard filter.
// Client data: [0] = zstd compression level (1-22, default 3)
func NewZstd(clientData []uint32) (*Zstd, error) {
	level := 3
	if len(clientData) > 0 && clientData[0] > 0 {
		level = int(clientData[0])
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Zstd{enc: enc}, nil
}

func (f *Zstd) ID() uint16 {
	return IDZstd
}

// Encode is safe for concurrent use; EncodeAll does not share state.
func (f *Zstd) Encode(input []byte) ([]byte, error) {
	return f.enc.EncodeAll(input, make([]byte, 0, len(input)/2)), nil
}

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer putZstdDecoder(dec)

	out, err := dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}
