package nix

import (
	"time"
)

// entity holds the attributes shared by all named entities.
type entity struct {
	handle
}

// ID returns the immutable entity id.
func (e entity) ID() string {
	return e.stringAttr(attrID)
}

// Name returns the entity name.
func (e entity) Name() string {
	return e.stringAttr(attrName)
}

// Type returns the entity type.
func (e entity) Type() string {
	return e.stringAttr(attrType)
}

// SetType changes the entity type.
func (e entity) SetType(typ string) error {
	return e.setAttr(attrType, typ)
}

// Definition returns the optional definition text.
func (e entity) Definition() (string, bool) {
	return e.optString(attrDefinition)
}

// SetDefinition sets the free-text definition.
func (e entity) SetDefinition(def string) error {
	return e.setAttr(attrDefinition, def)
}

// ClearDefinition removes the definition.
func (e entity) ClearDefinition() error {
	return e.removeAttr(attrDefinition)
}

// CreatedAt returns the creation time.
func (e entity) CreatedAt() time.Time {
	return e.timeAttr(attrCreatedAt)
}

// UpdatedAt returns the time of the last attribute change.
func (e entity) UpdatedAt() time.Time {
	return e.timeAttr(attrUpdatedAt)
}

// metadataEntity is an entity that may reference a Section as its metadata.
// The reference is a stored id resolved on every access.
type metadataEntity struct {
	entity
}

// SetMetadata points the metadata reference at the Section with the given
// id. The Section must exist somewhere in the file.
func (e metadataEntity) SetMetadata(sectionID string) error {
	if err := e.check(); err != nil {
		return err
	}
	if _, err := e.file.findSection(sectionID); err != nil {
		return err
	}
	return e.setAttr(attrMetadata, sectionID)
}

// Metadata returns the referenced Section. It returns a null Section if no
// reference is set and ErrNotFound if the Section was deleted.
func (e metadataEntity) Metadata() (Section, error) {
	id, ok := e.optString(attrMetadata)
	if !ok {
		return Section{}, nil
	}
	return e.file.findSection(id)
}

// ClearMetadata removes the metadata reference.
func (e metadataEntity) ClearMetadata() error {
	return e.removeAttr(attrMetadata)
}
