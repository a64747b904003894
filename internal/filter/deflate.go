package filter

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Deflate compresses with zlib framing. Writers are pooled per filter since
// the level is fixed at construction.
type Deflate struct {
	level   int
	writers sync.Pool
}

// NewDeflate creates a deflate filter. Client data: [0] = level 0-9,
// 6 if absent or out of range.
func NewDeflate(clientData []uint32) *Deflate {
	level := 6
	if len(clientData) > 0 && clientData[0] <= 9 {
		level = int(clientData[0])
	}
	return &Deflate{level: level}
}

func (f *Deflate) ID() uint16 {
	return IDDeflate
}

func (f *Deflate) writer(dst io.Writer) (*zlib.Writer, error) {
	if v := f.writers.Get(); v != nil {
		w := v.(*zlib.Writer)
		w.Reset(dst)
		return w, nil
	}
	return zlib.NewWriterLevel(dst, f.level)
}

func (f *Deflate) Encode(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := f.writer(&buf)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	defer f.writers.Put(w)

	if _, err := w.Write(input); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Deflate) Decode(input []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return out, nil
}
