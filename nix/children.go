package nix

import (
	"fmt"

	"github.com/robert-malhotra/go-nix/storage"
)

// Reserved child group names.
const (
	groupSources    = "sources"
	groupSections   = "sections"
	groupProperties = "properties"
	groupDataArrays = "data_arrays"
	groupDimensions = "dimensions"
)

// children manages the entities stored below one reserved child group of
// owner. The group node is created on the first insertion.
type children[T any] struct {
	owner handle
	group string
	kind  string
	wrap  func(handle) T
}

func (c children[T]) node(create bool) (storage.Node, error) {
	if c.owner.node == nil {
		return nil, ErrNullHandle
	}
	if !create && !c.owner.node.HasChild(c.group) {
		return nil, nil
	}
	n, err := c.owner.node.OpenChild(c.group, create)
	if err != nil {
		return nil, translateError(err)
	}
	return n, nil
}

func (c children[T]) has(id string) bool {
	n, err := c.node(false)
	if err != nil || n == nil {
		return false
	}
	return n.HasChild(id)
}

func (c children[T]) get(id string) (T, error) {
	var zero T
	n, err := c.node(false)
	if err != nil {
		return zero, err
	}
	if n == nil || !n.HasChild(id) {
		return zero, notFound(c.kind, id)
	}
	child, err := n.OpenChild(id, false)
	if err != nil {
		return zero, translateError(err)
	}
	return c.wrap(handle{node: child, file: c.owner.file}), nil
}

func (c children[T]) at(i int) (T, error) {
	var zero T
	n, err := c.node(false)
	if err != nil {
		return zero, err
	}
	count := 0
	if n != nil {
		count = n.ChildCount()
	}
	if i < 0 || i >= count {
		return zero, indexError(c.kind, i, count)
	}
	name, err := n.ChildNameAt(i)
	if err != nil {
		return zero, translateError(err)
	}
	child, err := n.OpenChild(name, false)
	if err != nil {
		return zero, translateError(err)
	}
	return c.wrap(handle{node: child, file: c.owner.file}), nil
}

func (c children[T]) count() int {
	n, err := c.node(false)
	if err != nil || n == nil {
		return 0
	}
	return n.ChildCount()
}

// list materializes the children in enumeration order and keeps those
// passing filter.
func (c children[T]) list(filter Filter[T]) ([]T, error) {
	n, err := c.node(false)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if n == nil {
		return out, nil
	}
	for i := 0; i < n.ChildCount(); i++ {
		name, err := n.ChildNameAt(i)
		if err != nil {
			return nil, translateError(err)
		}
		child, err := n.OpenChild(name, false)
		if err != nil {
			return nil, translateError(err)
		}
		e := c.wrap(handle{node: child, file: c.owner.file})
		if filter.accept(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c children[T]) remove(id string) (bool, error) {
	n, err := c.node(false)
	if err != nil {
		return false, err
	}
	if n == nil || !n.HasChild(id) {
		return false, nil
	}
	removed, err := n.RemoveChild(id)
	if err != nil {
		return false, translateError(err)
	}
	c.owner.logger().LogDelete(c.kind, id, removed)
	return removed, nil
}

// create allocates a fresh id, regenerating it until no sibling uses it,
// and stamps the new node before handing it to init.
func (c children[T]) create(name, typ string, init func(h handle) error) (T, error) {
	var zero T
	n, err := c.node(true)
	if err != nil {
		return zero, err
	}

	id := c.owner.file.newID()
	for n.HasChild(id) {
		id = c.owner.file.newID()
	}

	child, err := n.OpenChild(id, true)
	if err != nil {
		return zero, translateError(err)
	}
	h := handle{node: child, file: c.owner.file}
	if err := h.stamp(id, name, typ); err != nil {
		_, _ = n.RemoveChild(id)
		return zero, fmt.Errorf("create %s: %w", c.kind, err)
	}
	if init != nil {
		if err := init(h); err != nil {
			_, _ = n.RemoveChild(id)
			return zero, fmt.Errorf("create %s: %w", c.kind, err)
		}
	}
	c.owner.logger().LogCreate(c.kind, id, name)
	return c.wrap(h), nil
}
