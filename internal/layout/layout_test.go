package layout

import (
	"bytes"
	"errors"
	"testing"
)

// seq returns n one-byte elements 0..n-1.
func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestExtractHyperslab2D(t *testing.T) {
	// 4x5 dataset:
	//  0  1  2  3  4
	//  5  6  7  8  9
	// 10 11 12 13 14
	// 15 16 17 18 19
	data := seq(20)
	got, err := ExtractHyperslab(data, []uint64{4, 5}, []uint64{1, 2}, []uint64{2, 3}, 1)
	if err != nil {
		t.Fatalf("ExtractHyperslab failed: %v", err)
	}
	expected := []byte{7, 8, 9, 12, 13, 14}
	if !bytes.Equal(got, expected) {
		t.Errorf("got %v, want %v", got, expected)
	}
}

func TestExtractHyperslabMultiByte(t *testing.T) {
	// 3 elements of 2 bytes each
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	got, err := ExtractHyperslab(data, []uint64{3}, []uint64{1}, []uint64{2}, 2)
	if err != nil {
		t.Fatalf("ExtractHyperslab failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x03, 0x04, 0x05, 0x06}) {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestInsertHyperslab3D(t *testing.T) {
	dims := []uint64{2, 3, 4}
	data := make([]byte, NumElements(dims))
	block := []byte{1, 2, 3, 4}
	if err := InsertHyperslab(data, dims, block, []uint64{1, 1, 1}, []uint64{1, 2, 2}, 1); err != nil {
		t.Fatalf("InsertHyperslab failed: %v", err)
	}

	// Element (i,j,k) lives at i*12 + j*4 + k
	want := map[int]byte{12 + 4 + 1: 1, 12 + 4 + 2: 2, 12 + 8 + 1: 3, 12 + 8 + 2: 4}
	for i, v := range data {
		if want[i] != v {
			t.Errorf("data[%d]: got %d, want %d", i, v, want[i])
		}
	}

	back, err := ExtractHyperslab(data, dims, []uint64{1, 1, 1}, []uint64{1, 2, 2}, 1)
	if err != nil {
		t.Fatalf("ExtractHyperslab failed: %v", err)
	}
	if !bytes.Equal(back, block) {
		t.Errorf("roundtrip: got %v, want %v", back, block)
	}
}

func TestSelectionOutOfBounds(t *testing.T) {
	tests := []struct {
		name  string
		start []uint64
		count []uint64
	}{
		{"past end", []uint64{3, 0}, []uint64{2, 1}},
		{"rank mismatch", []uint64{0}, []uint64{1}},
		{"count too large", []uint64{0, 0}, []uint64{1, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractHyperslab(seq(20), []uint64{4, 5}, tt.start, tt.count, 1)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("expected ErrOutOfBounds, got %v", err)
			}
		})
	}
}

func TestReshapeKeepsOverlap(t *testing.T) {
	data := seq(6) // 2x3
	grown, err := Reshape(data, []uint64{2, 3}, []uint64{3, 4}, 1)
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	expected := []byte{
		0, 1, 2, 0,
		3, 4, 5, 0,
		0, 0, 0, 0,
	}
	if !bytes.Equal(grown, expected) {
		t.Errorf("grow: got %v, want %v", grown, expected)
	}

	shrunk, err := Reshape(grown, []uint64{3, 4}, []uint64{1, 2}, 1)
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	if !bytes.Equal(shrunk, []byte{0, 1}) {
		t.Errorf("shrink: got %v", shrunk)
	}

	if _, err := Reshape(data, []uint64{2, 3}, []uint64{6}, 1); err == nil {
		t.Error("expected error for rank change")
	}
}

func TestZeroCountSelection(t *testing.T) {
	got, err := ExtractHyperslab(seq(6), []uint64{2, 3}, []uint64{2, 0}, []uint64{0, 3}, 1)
	if err != nil {
		t.Fatalf("ExtractHyperslab failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
