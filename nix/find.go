package nix

import (
	"math"
)

// Unbounded as maxDepth makes FindEntities walk the whole subtree.
const Unbounded = math.MaxInt

// Filter selects entities. A nil Filter accepts every entity.
type Filter[T any] func(T) bool

// AcceptAll returns a filter that accepts every entity.
func AcceptAll[T any]() Filter[T] {
	return func(T) bool { return true }
}

func (f Filter[T]) accept(v T) bool {
	return f == nil || f(v)
}

// Tree is implemented by entities that own children of their own kind.
type Tree[T any] interface {
	// Children returns the direct children passing filter, in storage
	// enumeration order.
	Children(filter Filter[T]) ([]T, error)
}

type queued[T any] struct {
	entity T
	depth  int
}

// FindEntities walks the tree below self breadth-first and returns every
// entity that passes filter, in level order. self is depth 0 and is tested
// like any other entity. An entity is expanded only while its depth is below
// maxDepth, so maxDepth 0 yields at most self; a negative maxDepth behaves
// as 0.
//
// The filter is applied before an entity is expanded, so rejected entities
// still have their children visited.
//
// If enumerating children fails, FindEntities returns the error and no
// results. A panicking filter propagates out of FindEntities and the results
// gathered so far are discarded.
func FindEntities[T Tree[T]](self T, filter Filter[T], maxDepth int) ([]T, error) {
	return findFrom([]T{self}, filter, maxDepth)
}

// findFrom runs the traversal with every root at depth 0.
func findFrom[T Tree[T]](roots []T, filter Filter[T], maxDepth int) ([]T, error) {
	queue := make([]queued[T], 0, len(roots))
	for _, r := range roots {
		queue = append(queue, queued[T]{entity: r})
	}

	var result []T
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if filter.accept(cur.entity) {
			result = append(result, cur.entity)
		}
		if cur.depth >= maxDepth {
			continue
		}

		children, err := cur.entity.Children(nil)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			queue = append(queue, queued[T]{entity: c, depth: cur.depth + 1})
		}
	}

	if result == nil {
		result = []T{}
	}
	return result, nil
}
