package nix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nix/storage"
	"github.com/robert-malhotra/go-nix/storage/memstore"
)

func newTestFile(t *testing.T, opts ...Option) *File {
	t.Helper()
	f, err := Open(memstore.New().Root(), opts...)
	require.NoError(t, err)
	return f
}

func newTestBlock(t *testing.T) Block {
	t.Helper()
	b, err := newTestFile(t).CreateBlock("block", "recording")
	require.NoError(t, err)
	return b
}

func names[T interface{ Name() string }](entities []T) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name()
	}
	return out
}

var errBoom = errors.New("boom")

// failingNode wraps a storage node so that child enumeration can be made to
// fail on demand anywhere in the tree.
type failingNode struct {
	storage.Node
	fail *bool
}

func (n failingNode) OpenChild(name string, create bool) (storage.Node, error) {
	c, err := n.Node.OpenChild(name, create)
	if err != nil {
		return nil, err
	}
	return failingNode{Node: c, fail: n.fail}, nil
}

func (n failingNode) ChildNameAt(i int) (string, error) {
	if *n.fail {
		return "", errBoom
	}
	return n.Node.ChildNameAt(i)
}

// attrFailingNode fails SetAttr for one attribute key on demand.
type attrFailingNode struct {
	storage.Node
	key  string
	fail *bool
}

func (n attrFailingNode) OpenChild(name string, create bool) (storage.Node, error) {
	c, err := n.Node.OpenChild(name, create)
	if err != nil {
		return nil, err
	}
	return attrFailingNode{Node: c, key: n.key, fail: n.fail}, nil
}

func (n attrFailingNode) SetAttr(key string, value any) error {
	if *n.fail && key == n.key {
		return errBoom
	}
	return n.Node.SetAttr(key, value)
}
