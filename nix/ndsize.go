package nix

import (
	"strconv"
	"strings"
)

// NDSize is an n-dimensional extent or offset, one entry per axis.
type NDSize []uint64

// Rank returns the number of axes.
func (s NDSize) Rank() int {
	return len(s)
}

// Elements returns the number of cells an extent covers. A rank-0 extent
// covers one cell.
func (s NDSize) Elements() uint64 {
	n := uint64(1)
	for _, d := range s {
		n *= d
	}
	return n
}

// Zeros returns an all-zero NDSize of the given rank.
func Zeros(rank int) NDSize {
	return make(NDSize, rank)
}

// Equal reports whether s and o have the same rank and entries.
func (s NDSize) Equal(o NDSize) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Add returns s+o per axis. Both must have the same rank.
func (s NDSize) Add(o NDSize) NDSize {
	out := make(NDSize, len(s))
	for i := range s {
		out[i] = s[i] + o[i]
	}
	return out
}

// Fits reports whether a block of extent s placed at offset lies within
// bounds on every axis.
func (s NDSize) Fits(offset, bounds NDSize) bool {
	if len(s) != len(offset) || len(s) != len(bounds) {
		return false
	}
	for i := range s {
		end := s[i] + offset[i]
		if end < s[i] || end > bounds[i] {
			return false
		}
	}
	return true
}

// String formats the extent as "[2, 3]".
func (s NDSize) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.FormatUint(d, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
