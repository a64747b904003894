package nix

import "fmt"

// Block groups the sources and data arrays of one recording.
type Block struct {
	metadataEntity
}

// Equal reports whether b and o refer to the same backing node. Two null
// Blocks are equal.
func (b Block) Equal(o Block) bool {
	return b.same(o.handle)
}

// Swap exchanges the entities referenced by b and o.
func (b *Block) Swap(o *Block) {
	*b, *o = *o, *b
}

func (b Block) sources() children[Source] {
	return sourceChildren(b.handle)
}

func (b Block) dataArrays() children[DataArray] {
	return children[DataArray]{
		owner: b.handle, group: groupDataArrays, kind: "data array",
		wrap: func(h handle) DataArray { return DataArray{metadataEntity: metadataEntity{entity{h}}, block: b} },
	}
}

// CreateSource creates a top-level Source in the Block.
func (b Block) CreateSource(name, typ string) (Source, error) {
	return b.sources().create(name, typ, nil)
}

// HasSource reports whether a child Source with the given id exists.
func (b Block) HasSource(id string) bool {
	return b.sources().has(id)
}

// GetSource returns the top-level Source with the given id or ErrNotFound.
func (b Block) GetSource(id string) (Source, error) {
	return b.sources().get(id)
}

// GetSourceAt returns the i-th top-level Source or ErrIndexOutOfRange.
func (b Block) GetSourceAt(i int) (Source, error) {
	return b.sources().at(i)
}

// SourceCount returns the number of child Sources.
func (b Block) SourceCount() int {
	return b.sources().count()
}

// DeleteSource removes a top-level Source with all its descendants.
func (b Block) DeleteSource(id string) (bool, error) {
	return b.sources().remove(id)
}

// Sources returns the top-level Sources passing filter.
func (b Block) Sources(filter Filter[Source]) ([]Source, error) {
	return b.sources().list(filter)
}

// FindSources searches all source trees of the Block breadth-first. The
// top-level Sources are at depth 0.
func (b Block) FindSources(filter Filter[Source], maxDepth int) ([]Source, error) {
	roots, err := b.Sources(nil)
	if err != nil {
		return nil, err
	}
	return findFrom(roots, filter, maxDepth)
}

// findSource resolves a Source id anywhere in the Block.
func (b Block) findSource(id string) (Source, error) {
	found, err := b.FindSources(func(s Source) bool { return s.ID() == id }, Unbounded)
	if err != nil {
		return Source{}, err
	}
	if len(found) == 0 {
		return Source{}, notFound("source", id)
	}
	return found[0], nil
}

// CreateDataArray creates a DataArray whose data has element type dt and
// the given initial extent. Only numeric element types are supported.
func (b Block) CreateDataArray(name, typ string, dt DataType, extent NDSize, opts ...DataArrayOption) (DataArray, error) {
	if !dt.IsNumeric() {
		return DataArray{}, fmt.Errorf("%w: data type %s", ErrUnsupported, dt)
	}
	o := &dataArrayOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return b.dataArrays().create(name, typ, func(h handle) error {
		if _, err := h.node.CreateDataset(datasetData, dt, extent, o.dataset...); err != nil {
			return translateError(err)
		}
		_, err := h.node.OpenChild(groupDimensions, true)
		return translateError(err)
	})
}

// HasDataArray reports whether a child DataArray with the given id exists.
func (b Block) HasDataArray(id string) bool {
	return b.dataArrays().has(id)
}

// GetDataArray returns the DataArray with the given id or ErrNotFound.
func (b Block) GetDataArray(id string) (DataArray, error) {
	return b.dataArrays().get(id)
}

// GetDataArrayAt returns the i-th DataArray or ErrIndexOutOfRange.
func (b Block) GetDataArrayAt(i int) (DataArray, error) {
	return b.dataArrays().at(i)
}

// DataArrayCount returns the number of child DataArrays.
func (b Block) DataArrayCount() int {
	return b.dataArrays().count()
}

// DeleteDataArray removes a DataArray with its data and dimensions.
func (b Block) DeleteDataArray(id string) (bool, error) {
	return b.dataArrays().remove(id)
}

// DataArrays returns the DataArrays passing filter.
func (b Block) DataArrays(filter Filter[DataArray]) ([]DataArray, error) {
	return b.dataArrays().list(filter)
}
