package nix

import (
	"errors"
	"fmt"
)

// Section attribute keys.
const (
	attrRepository = "repository"
	attrMapping    = "mapping"
	attrParent     = "parent"
	attrLink       = "link"
)

// Section is a node of the metadata tree. It owns child Sections and
// Properties and may link to another Section of the same type to inherit its
// Properties. Like other hierarchical entities it may reference another
// Section as its metadata.
type Section struct {
	metadataEntity
}

// Equal reports whether s and o refer to the same backing node. Two null
// Sections are equal.
func (s Section) Equal(o Section) bool {
	return s.same(o.handle)
}

// Swap exchanges the entities referenced by s and o.
func (s *Section) Swap(o *Section) {
	*s, *o = *o, *s
}

// Repository returns the repository and whether it is set.
func (s Section) Repository() (string, bool) {
	return s.optString(attrRepository)
}

// SetRepository sets the repository.
func (s Section) SetRepository(repo string) error {
	return s.setAttr(attrRepository, repo)
}

// ClearRepository removes the repository.
func (s Section) ClearRepository() error {
	return s.removeAttr(attrRepository)
}

// Mapping returns the mapping and whether it is set.
func (s Section) Mapping() (string, bool) {
	return s.optString(attrMapping)
}

// SetMapping sets the mapping.
func (s Section) SetMapping(mapping string) error {
	return s.setAttr(attrMapping, mapping)
}

// ClearMapping removes the mapping.
func (s Section) ClearMapping() error {
	return s.removeAttr(attrMapping)
}

// ParentID returns the id of the parent Section, empty for top-level
// Sections.
func (s Section) ParentID() string {
	return s.stringAttr(attrParent)
}

// Parent resolves the parent Section. Top-level Sections return a null
// Section.
func (s Section) Parent() (Section, error) {
	id := s.ParentID()
	if id == "" || s.IsNull() {
		return Section{}, nil
	}
	return s.file.findSection(id)
}

func (s Section) sections() children[Section] {
	return children[Section]{
		owner: s.handle, group: groupSections, kind: "section",
		wrap: func(h handle) Section { return Section{metadataEntity{entity{h}}} },
	}
}

func (s Section) properties() children[Property] {
	return children[Property]{
		owner: s.handle, group: groupProperties, kind: "property",
		wrap: func(h handle) Property { return Property{entity{h}} },
	}
}

// CreateSection creates a child Section.
func (s Section) CreateSection(name, typ string) (Section, error) {
	parent := s.ID()
	return s.sections().create(name, typ, func(h handle) error {
		return h.node.SetAttr(attrParent, parent)
	})
}

// HasSection reports whether a child Section with the given id exists.
func (s Section) HasSection(id string) bool {
	return s.sections().has(id)
}

// GetSection returns the child Section with the given id or ErrNotFound.
func (s Section) GetSection(id string) (Section, error) {
	return s.sections().get(id)
}

// GetSectionAt returns the i-th child Section or ErrIndexOutOfRange.
func (s Section) GetSectionAt(i int) (Section, error) {
	return s.sections().at(i)
}

// SectionCount returns the number of child Sections.
func (s Section) SectionCount() int {
	return s.sections().count()
}

// DeleteSection removes a child Section with its whole subtree.
func (s Section) DeleteSection(id string) (bool, error) {
	return s.sections().remove(id)
}

// Children returns the child Sections passing filter.
func (s Section) Children(filter Filter[Section]) ([]Section, error) {
	return s.sections().list(filter)
}

// Sections is an alias of Children.
func (s Section) Sections(filter Filter[Section]) ([]Section, error) {
	return s.Children(filter)
}

// FindSections searches the subtree rooted at s breadth-first; s itself is
// at depth 0.
func (s Section) FindSections(filter Filter[Section], maxDepth int) ([]Section, error) {
	return FindEntities(s, filter, maxDepth)
}

// LinkID returns the id of the linked Section, empty if none is set.
func (s Section) LinkID() string {
	return s.stringAttr(attrLink)
}

// Link sets the link to the Section with the given id. The target must
// exist in the file and have the same type as s; otherwise ErrNotFound or
// ErrTypeMismatch is returned and the previous link is kept.
func (s Section) Link(targetID string) error {
	if err := s.check(); err != nil {
		return err
	}
	target, err := s.file.findSection(targetID)
	if err != nil {
		return err
	}
	if target.Type() != s.Type() {
		return fmt.Errorf("%w: cannot link section of type %q to %q",
			ErrTypeMismatch, s.Type(), target.Type())
	}
	return s.setAttr(attrLink, targetID)
}

// Unlink removes the link.
func (s Section) Unlink() error {
	return s.removeAttr(attrLink)
}

// LinkedSection resolves the link. It returns ErrNoLink if no link is set
// and ErrNotFound if the target no longer exists.
func (s Section) LinkedSection() (Section, error) {
	id := s.LinkID()
	if id == "" {
		return Section{}, ErrNoLink
	}
	return s.file.findSection(id)
}

// CreateProperty adds a Property. Names are unique within a Section
// (case-sensitive); a duplicate fails with ErrDuplicateName.
func (s Section) CreateProperty(name string) (Property, error) {
	if err := s.check(); err != nil {
		return Property{}, err
	}
	_, exists, err := s.ownPropertyByName(name)
	if err != nil {
		return Property{}, err
	}
	if exists {
		return Property{}, fmt.Errorf("%w: property %q", ErrDuplicateName, name)
	}
	return s.properties().create(name, "", nil)
}

// AddProperty is an alias of CreateProperty.
func (s Section) AddProperty(name string) (Property, error) {
	return s.CreateProperty(name)
}

// HasProperty reports whether a child Property with the given id exists.
func (s Section) HasProperty(id string) bool {
	return s.properties().has(id)
}

// GetProperty returns the Property with the given id or ErrNotFound.
func (s Section) GetProperty(id string) (Property, error) {
	return s.properties().get(id)
}

// GetPropertyAt returns the i-th Property or ErrIndexOutOfRange.
func (s Section) GetPropertyAt(i int) (Property, error) {
	return s.properties().at(i)
}

// PropertyCount returns the number of child Properties.
func (s Section) PropertyCount() int {
	return s.properties().count()
}

// DeleteProperty removes a Property.
func (s Section) DeleteProperty(id string) (bool, error) {
	return s.properties().remove(id)
}

// Properties returns the Properties passing filter.
func (s Section) Properties(filter Filter[Property]) ([]Property, error) {
	return s.properties().list(filter)
}

func (s Section) ownPropertyByName(name string) (Property, bool, error) {
	props, err := s.Properties(func(p Property) bool { return p.Name() == name })
	if err != nil {
		return Property{}, false, err
	}
	if len(props) == 0 {
		return Property{}, false, nil
	}
	return props[0], true, nil
}

// HasPropertyByName reports whether GetPropertyByName would succeed.
func (s Section) HasPropertyByName(name string) bool {
	_, err := s.GetPropertyByName(name)
	return err == nil
}

// GetPropertyByName searches the own Properties first and then those of
// the linked Section, provided it exists and still has the same type.
func (s Section) GetPropertyByName(name string) (Property, error) {
	p, ok, err := s.ownPropertyByName(name)
	if err != nil {
		return Property{}, err
	}
	if ok {
		return p, nil
	}

	linked, err := s.LinkedSection()
	switch {
	case errors.Is(err, ErrNoLink), errors.Is(err, ErrNotFound):
	case err != nil:
		return Property{}, err
	case linked.Type() == s.Type():
		p, ok, err := linked.ownPropertyByName(name)
		if err != nil {
			return Property{}, err
		}
		if ok {
			return p, nil
		}
	}
	return Property{}, fmt.Errorf("%w: property %q", ErrNotFound, name)
}

// InheritedProperties returns the Properties of the linked Section passing
// filter. Links are followed one level only.
func (s Section) InheritedProperties(filter Filter[Property]) ([]Property, error) {
	linked, err := s.LinkedSection()
	if err != nil {
		return nil, err
	}
	return linked.Properties(filter)
}
