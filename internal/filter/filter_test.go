package filter

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestShuffle(t *testing.T) {
	tests := []struct {
		name     string
		elemSize int
		input    []byte
		shuffled []byte
	}{
		{
			name:     "2-byte elements",
			elemSize: 2,
			input:    []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
			shuffled: []byte{0x01, 0x03, 0x05, 0x02, 0x04, 0x06},
		},
		{
			name:     "4-byte elements",
			elemSize: 4,
			input:    []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
			shuffled: []byte{0x01, 0x05, 0x02, 0x06, 0x03, 0x07, 0x04, 0x08},
		},
		{
			name:     "single byte elements (no-op)",
			elemSize: 1,
			input:    []byte{0x01, 0x02, 0x03},
			shuffled: []byte{0x01, 0x02, 0x03},
		},
		{
			name:     "trailing bytes kept",
			elemSize: 2,
			input:    []byte{0x01, 0x02, 0x03, 0x04, 0x09},
			shuffled: []byte{0x01, 0x03, 0x02, 0x04, 0x09},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewShuffle([]uint32{uint32(tt.elemSize)})

			got, err := f.Encode(tt.input)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tt.shuffled) {
				t.Errorf("Encode = %v, want %v", got, tt.shuffled)
			}

			back, err := f.Decode(got)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(back, tt.input) {
				t.Errorf("Decode = %v, want %v", back, tt.input)
			}
		})
	}
}

func TestDeflateRoundtrip(t *testing.T) {
	original := bytes.Repeat([]byte("Hello, World! "), 100)

	f := NewDeflate([]uint32{9})
	compressed, err := f.Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("compressed size %d not smaller than input %d", len(compressed), len(original))
	}

	got, err := f.Decode(compressed)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Error("Deflate roundtrip mismatch")
	}

	// A pooled writer must not carry state into the next stream.
	again, err := f.Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(again, compressed) {
		t.Error("second Encode differs from the first")
	}
}

func TestDeflateInvalidInput(t *testing.T) {
	f := NewDeflate(nil)
	if _, err := f.Decode([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("expected error for invalid zlib data")
	}
}

func TestZstdRoundtrip(t *testing.T) {
	original := bytes.Repeat([]byte{1, 2, 3, 4, 0, 0, 0, 0}, 512)

	f, err := NewZstd([]uint32{3})
	if err != nil {
		t.Fatalf("NewZstd: %v", err)
	}
	compressed, err := f.Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("compressed size %d not smaller than input %d", len(compressed), len(original))
	}

	got, err := f.Decode(compressed)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Error("Zstd roundtrip mismatch")
	}

	if _, err := f.Decode([]byte("not zstd")); err == nil {
		t.Error("expected error for invalid zstd data")
	}
}

func TestFletcher32(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0},
		{"single word", []byte{0x01, 0x00}, 0x00010001},
		{"two words", []byte{0x01, 0x00, 0x02, 0x00}, 0x00040003},
		{"odd length", []byte{0x01, 0x00, 0x02}, 0x00040003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fletcher32(tt.data); got != tt.want {
				t.Errorf("Fletcher32 = 0x%08x, want 0x%08x", got, tt.want)
			}
		})
	}
}

func TestFletcher32Filter(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	f := NewFletcher32(nil)

	stored, err := f.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(stored) != len(data)+4 {
		t.Fatalf("encoded length = %d, want %d", len(stored), len(data)+4)
	}
	if got := binary.LittleEndian.Uint32(stored[len(data):]); got != Fletcher32(data) {
		t.Errorf("stored checksum = 0x%08x, want 0x%08x", got, Fletcher32(data))
	}

	got, err := f.Decode(stored)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Decode = %v, want %v", got, data)
	}

	stored[0] ^= 0xFF
	if _, err := f.Decode(stored); err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("expected checksum mismatch, got %v", err)
	}

	if _, err := f.Decode([]byte{0x01}); err == nil {
		t.Error("expected error for short input")
	}
}

func TestPipeline(t *testing.T) {
	values := make([]byte, 0, 8*256)
	for i := 0; i < 256; i++ {
		values = binary.LittleEndian.AppendUint64(values, uint64(i))
	}

	p, err := NewPipeline([]Info{
		{ID: IDShuffle, ClientData: []uint32{8}},
		{ID: IDZstd, ClientData: []uint32{3}},
		{ID: IDFletcher32},
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if p.Len() != 3 || p.Empty() {
		t.Fatalf("Len = %d, Empty = %v", p.Len(), p.Empty())
	}

	stored, err := p.Encode(values)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := p.Decode(stored)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, values) {
		t.Error("pipeline roundtrip mismatch")
	}

	infos := p.Infos()
	if len(infos) != 3 || infos[1].ID != IDZstd {
		t.Errorf("Infos = %+v", infos)
	}
}

func TestEmptyPipeline(t *testing.T) {
	p, err := NewPipeline(nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if !p.Empty() {
		t.Error("expected empty pipeline")
	}
	data := []byte{1, 2, 3}
	got, err := p.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("empty pipeline should pass data through")
	}
}

func TestUnsupportedFilter(t *testing.T) {
	if _, err := NewPipeline([]Info{{ID: 999}}); err == nil {
		t.Error("expected error for unsupported filter")
	}
}
