// Package layout copies rectangular blocks in and out of densely packed,
// row-major element buffers.
//
// A dataset of extent dims with elements of elementSize bytes is stored as a
// single byte slice, last axis fastest. A hyperslab is described by start
// (offset) and count (extent) per axis.
package layout

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a selection does not fit the dataset.
var ErrOutOfBounds = errors.New("selection exceeds dataset extent")

// NumElements returns the product of dims. A rank-0 extent has one element.
func NumElements(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}

// CheckSelection validates that start+count fits within dims on every axis.
func CheckSelection(dims, start, count []uint64) error {
	if len(start) != len(dims) || len(count) != len(dims) {
		return fmt.Errorf("%w: rank %d selection on rank %d dataset",
			ErrOutOfBounds, max(len(start), len(count)), len(dims))
	}
	for d := range dims {
		if start[d]+count[d] > dims[d] || start[d]+count[d] < start[d] {
			return fmt.Errorf("%w: axis %d: offset %d + count %d > %d",
				ErrOutOfBounds, d, start[d], count[d], dims[d])
		}
	}
	return nil
}

// strides returns row-major byte strides for dims.
func strides(dims []uint64, elementSize uint64) []uint64 {
	s := make([]uint64, len(dims))
	if len(dims) == 0 {
		return s
	}
	s[len(dims)-1] = elementSize
	for d := len(dims) - 2; d >= 0; d-- {
		s[d] = s[d+1] * dims[d+1]
	}
	return s
}

// ExtractHyperslab copies the selection (start, count) out of data, which has
// extent dims, into a new buffer of extent count.
func ExtractHyperslab(data []byte, dims, start, count []uint64, elementSize uint64) ([]byte, error) {
	if err := CheckSelection(dims, start, count); err != nil {
		return nil, err
	}
	if uint64(len(data)) < NumElements(dims)*elementSize {
		return nil, fmt.Errorf("data holds %d bytes, extent needs %d", len(data), NumElements(dims)*elementSize)
	}

	result := make([]byte, NumElements(count)*elementSize)
	if len(dims) == 0 {
		copy(result, data)
		return result, nil
	}
	if len(result) == 0 {
		return result, nil
	}

	copyBlock(data, result, start, count,
		strides(dims, elementSize), strides(count, elementSize), elementSize, true)
	return result, nil
}

// InsertHyperslab copies block, which has extent count, into data (extent
// dims) at start.
func InsertHyperslab(data []byte, dims []uint64, block []byte, start, count []uint64, elementSize uint64) error {
	if err := CheckSelection(dims, start, count); err != nil {
		return err
	}
	if uint64(len(block)) < NumElements(count)*elementSize {
		return fmt.Errorf("block holds %d bytes, selection needs %d", len(block), NumElements(count)*elementSize)
	}
	if uint64(len(data)) < NumElements(dims)*elementSize {
		return fmt.Errorf("data holds %d bytes, extent needs %d", len(data), NumElements(dims)*elementSize)
	}
	if len(dims) == 0 {
		copy(data, block[:elementSize])
		return nil
	}
	if NumElements(count) == 0 {
		return nil
	}

	copyBlock(data, block, start, count,
		strides(dims, elementSize), strides(count, elementSize), elementSize, false)
	return nil
}

// Reshape returns data (extent oldDims) laid out for newDims. The region both
// extents share keeps its values; new cells are zero.
func Reshape(data []byte, oldDims, newDims []uint64, elementSize uint64) ([]byte, error) {
	if len(oldDims) != len(newDims) {
		return nil, fmt.Errorf("cannot reshape rank %d to rank %d", len(oldDims), len(newDims))
	}
	out := make([]byte, NumElements(newDims)*elementSize)

	common := make([]uint64, len(oldDims))
	for d := range oldDims {
		common[d] = min(oldDims[d], newDims[d])
	}
	if NumElements(common) == 0 {
		return out, nil
	}

	origin := make([]uint64, len(oldDims))
	shared, err := ExtractHyperslab(data, oldDims, origin, common, elementSize)
	if err != nil {
		return nil, err
	}
	if err := InsertHyperslab(out, newDims, shared, origin, common, elementSize); err != nil {
		return nil, err
	}
	return out, nil
}

// copyBlock walks the selection one row at a time. When extract is true
// bytes flow from the dataset into the block, otherwise the reverse.
func copyBlock(dataset, block []byte, start, count, dataStrides, blockStrides []uint64, elementSize uint64, extract bool) {
	copyBlockRecursive(dataset, block, start, count, dataStrides, blockStrides,
		0, 0, 0, len(count), elementSize, extract)
}

func copyBlockRecursive(
	dataset, block []byte,
	start, count []uint64,
	dataStrides, blockStrides []uint64,
	dataOffset, blockOffset uint64,
	dim, ndims int,
	elementSize uint64,
	extract bool,
) {
	if dim == ndims-1 {
		rowBytes := count[dim] * elementSize
		from := dataOffset + start[dim]*dataStrides[dim]
		if extract {
			copy(block[blockOffset:blockOffset+rowBytes], dataset[from:from+rowBytes])
		} else {
			copy(dataset[from:from+rowBytes], block[blockOffset:blockOffset+rowBytes])
		}
		return
	}

	for i := uint64(0); i < count[dim]; i++ {
		copyBlockRecursive(
			dataset, block, start, count,
			dataStrides, blockStrides,
			dataOffset+(start[dim]+i)*dataStrides[dim],
			blockOffset+i*blockStrides[dim],
			dim+1, ndims, elementSize, extract,
		)
	}
}
