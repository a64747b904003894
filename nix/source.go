package nix

// Source describes where recorded data came from. Sources nest: every Source
// owns child Sources under its "sources" group.
type Source struct {
	metadataEntity
}

// Equal reports whether s and o refer to the same backing node. Two null
// Sources are equal.
func (s Source) Equal(o Source) bool {
	return s.same(o.handle)
}

// Swap exchanges the entities referenced by s and o.
func (s *Source) Swap(o *Source) {
	*s, *o = *o, *s
}

func sourceChildren(owner handle) children[Source] {
	return children[Source]{
		owner: owner, group: groupSources, kind: "source",
		wrap: func(h handle) Source { return Source{metadataEntity{entity{h}}} },
	}
}

func (s Source) sources() children[Source] {
	return sourceChildren(s.handle)
}

// CreateSource creates a child Source.
func (s Source) CreateSource(name, typ string) (Source, error) {
	return s.sources().create(name, typ, nil)
}

// HasSource reports whether a child Source with the given id exists.
func (s Source) HasSource(id string) bool {
	return s.sources().has(id)
}

// GetSource returns the child Source with the given id or ErrNotFound.
func (s Source) GetSource(id string) (Source, error) {
	return s.sources().get(id)
}

// GetSourceAt returns the i-th child Source or ErrIndexOutOfRange.
func (s Source) GetSourceAt(i int) (Source, error) {
	return s.sources().at(i)
}

// SourceCount returns the number of child Sources.
func (s Source) SourceCount() int {
	return s.sources().count()
}

// DeleteSource removes a child Source with all its descendants.
func (s Source) DeleteSource(id string) (bool, error) {
	return s.sources().remove(id)
}

// Children returns the child Sources passing filter.
func (s Source) Children(filter Filter[Source]) ([]Source, error) {
	return s.sources().list(filter)
}

// Sources is an alias of Children.
func (s Source) Sources(filter Filter[Source]) ([]Source, error) {
	return s.Children(filter)
}

// FindSources searches the subtree rooted at s breadth-first; s itself is
// at depth 0.
func (s Source) FindSources(filter Filter[Source], maxDepth int) ([]Source, error) {
	return FindEntities(s, filter, maxDepth)
}
