package nix

import (
	"fmt"
	"time"

	"github.com/robert-malhotra/go-nix/storage"
)

// Attribute keys shared by all entities.
const (
	attrID         = "entity_id"
	attrName       = "name"
	attrType       = "type"
	attrDefinition = "definition"
	attrCreatedAt  = "created_at"
	attrUpdatedAt  = "updated_at"
	attrMetadata   = "metadata"
)

// handle binds an entity value to its backing node. The zero handle is the
// null entity. Handles are plain values: copying one shares the node.
type handle struct {
	node storage.Node
	file *File
}

// IsNull reports whether the entity has no backing node.
func (h handle) IsNull() bool {
	return h.node == nil
}

func (h handle) same(o handle) bool {
	return h.node == o.node
}

func (h handle) check() error {
	if h.node == nil {
		return ErrNullHandle
	}
	return nil
}

func (h handle) stringAttr(key string) string {
	s, _ := h.optString(key)
	return s
}

func (h handle) optString(key string) (string, bool) {
	if h.node == nil {
		return "", false
	}
	v, ok := h.node.Attr(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (h handle) optFloat(key string) (float64, bool) {
	if h.node == nil {
		return 0, false
	}
	v, ok := h.node.Attr(key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (h handle) optFloats(key string) ([]float64, bool) {
	if h.node == nil {
		return nil, false
	}
	v, ok := h.node.Attr(key)
	if !ok {
		return nil, false
	}
	f, ok := v.([]float64)
	return f, ok
}

func (h handle) stringsAttr(key string) []string {
	if h.node == nil {
		return nil
	}
	v, ok := h.node.Attr(key)
	if !ok {
		return nil
	}
	s, _ := v.([]string)
	return s
}

func (h handle) timeAttr(key string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, h.stringAttr(key))
	if err != nil {
		return time.Time{}
	}
	return t
}

// setAttr stores an attribute and bumps updated_at.
func (h handle) setAttr(key string, value any) error {
	if err := h.check(); err != nil {
		return err
	}
	if err := h.node.SetAttr(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return h.touch()
}

// removeAttr deletes an attribute and bumps updated_at.
func (h handle) removeAttr(key string) error {
	if err := h.check(); err != nil {
		return err
	}
	h.node.RemoveAttr(key)
	return h.touch()
}

func (h handle) touch() error {
	return h.node.SetAttr(attrUpdatedAt, now())
}

// stamp writes the attributes every new entity carries.
func (h handle) stamp(id, name, typ string) error {
	ts := now()
	attrs := []struct {
		key   string
		value string
	}{
		{attrID, id},
		{attrName, name},
		{attrType, typ},
		{attrCreatedAt, ts},
		{attrUpdatedAt, ts},
	}
	for _, a := range attrs {
		if err := h.node.SetAttr(a.key, a.value); err != nil {
			return fmt.Errorf("set %s: %w", a.key, err)
		}
	}
	return nil
}

func (h handle) logger() *Logger {
	if h.file == nil {
		return NoopLogger()
	}
	return h.file.logger
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
