package filter

import (
	"fmt"
)

// Filter identifiers. The first three match the HDF5 registry; Zstd uses the
// id registered for the HDF5 zstd plugin.
const (
	IDDeflate    uint16 = 1
	IDShuffle    uint16 = 2
	IDFletcher32 uint16 = 3
	IDZstd       uint16 = 32015
)

// Filter is the interface implemented by all filters.
type Filter interface {
	// ID returns the filter identifier.
	ID() uint16

	// Encode transforms data into its stored form.
	Encode(input []byte) ([]byte, error)

	// Decode transforms stored data back to its original form.
	Decode(input []byte) ([]byte, error)
}

// Info describes one filter of a pipeline.
type Info struct {
	ID         uint16   `json:"id"`
	ClientData []uint32 `json:"client_data,omitempty"`
}

// Registry maps filter IDs to filter constructors.
var Registry = map[uint16]func([]uint32) (Filter, error){
	IDDeflate:    func(cd []uint32) (Filter, error) { return NewDeflate(cd), nil },
	IDShuffle:    func(cd []uint32) (Filter, error) { return NewShuffle(cd), nil },
	IDFletcher32: func(cd []uint32) (Filter, error) { return NewFletcher32(cd), nil },
	IDZstd:       func(cd []uint32) (Filter, error) { return NewZstd(cd) },
}

// New creates a filter from an Info.
func New(info Info) (Filter, error) {
	constructor, ok := Registry[info.ID]
	if !ok {
		return nil, fmt.Errorf("unsupported filter ID: %d", info.ID)
	}
	return constructor(info.ClientData)
}
