// Package storage defines the hierarchical container that NIX entities are
// persisted in.
//
// A container is a tree of named nodes. Every node carries typed attributes,
// named child nodes and named n-dimensional datasets. Children and datasets
// keep insertion order, which is the order ChildNameAt enumerates.
//
// Two implementations live in subpackages: memstore keeps the tree in memory,
// sqlitestore snapshots a memstore tree into a SQLite database.
package storage

import (
	"github.com/robert-malhotra/go-nix/internal/dtype"
)

// DataType tags the element type of a dataset.
type DataType = dtype.DataType

// Node is one group of the container.
//
// Node values must be comparable: two Node values compare equal with == iff
// they refer to the same backing node.
type Node interface {
	// HasChild reports whether a child node called name exists.
	HasChild(name string) bool

	// OpenChild returns the child node called name. When create is true a
	// missing child is created, otherwise ErrNotFound is returned.
	OpenChild(name string, create bool) (Node, error)

	// RemoveChild deletes the child and its whole subtree. It reports
	// whether a child was removed.
	RemoveChild(name string) (bool, error)

	// ChildCount returns the number of child nodes.
	ChildCount() int

	// ChildNameAt returns the name of the i-th child in enumeration order.
	ChildNameAt(i int) (string, error)

	// MoveChild renames a child. It fails with ErrNotFound if oldName does
	// not exist and ErrExists if newName does.
	MoveChild(oldName, newName string) error

	HasAttr(key string) bool

	// Attr returns the attribute value and whether it is present. Values
	// have one of the types listed for SetAttr.
	Attr(key string) (any, bool)

	// SetAttr stores an attribute. value must be a string, float64, int64,
	// uint64, bool or a slice of one of those; other types fail with
	// ErrAttrType. Slices are copied.
	SetAttr(key string, value any) error

	// RemoveAttr deletes the attribute and reports whether it existed.
	RemoveAttr(key string) bool

	// AttrKeys returns the attribute keys in sorted order.
	AttrKeys() []string

	// CreateDataset creates a dataset of element type dt with the given
	// extent. All cells start zeroed.
	CreateDataset(name string, dt DataType, extent []uint64, opts ...DatasetOption) (Dataset, error)

	// OpenDataset returns an existing dataset or ErrNotFound.
	OpenDataset(name string) (Dataset, error)

	HasDataset(name string) bool

	// RemoveDataset deletes the dataset and reports whether it existed.
	RemoveDataset(name string) (bool, error)

	// DatasetNames returns dataset names in creation order.
	DatasetNames() []string
}

// Dataset is a dense n-dimensional array of fixed element type.
//
// Raw data exchanged with ReadBlock and WriteBlock is the little-endian
// encoding of the element type, row-major (last axis fastest).
type Dataset interface {
	DataType() DataType

	// Extent returns the current size per axis.
	Extent() []uint64

	// MaxExtent returns the size limit per axis; Unlimited means none.
	MaxExtent() []uint64

	// SetExtent resizes the dataset, keeping the overlapping region. The
	// rank cannot change and no axis may exceed MaxExtent.
	SetExtent(extent []uint64) error

	// ReadBlock returns the block of the given extent starting at offset.
	ReadBlock(extent, offset []uint64) ([]byte, error)

	// WriteBlock overwrites the block of the given extent starting at
	// offset with raw.
	WriteBlock(raw []byte, extent, offset []uint64) error
}
