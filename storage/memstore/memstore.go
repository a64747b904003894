// Package memstore is an in-memory storage.Node tree.
//
// All nodes of a Store share one read-write mutex, so a tree may be read from
// several goroutines while no writer is active.
package memstore

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/robert-malhotra/go-nix/internal/dtype"
	"github.com/robert-malhotra/go-nix/internal/layout"
	"github.com/robert-malhotra/go-nix/storage"
)

// Store owns a node tree.
type Store struct {
	mu   sync.RWMutex
	root *Group
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.root = newGroup(s, "")
	return s
}

// Root returns the root node.
func (s *Store) Root() storage.Node {
	return s.root
}

// RootGroup returns the root node with its concrete type.
func (s *Store) RootGroup() *Group {
	return s.root
}

// Group is a node of a Store. *Group implements storage.Node.
type Group struct {
	store    *Store
	name     string
	children []*Group
	byName   map[string]*Group
	attrs    map[string]any
	datasets []*Dataset
}

var _ storage.Node = (*Group)(nil)

func newGroup(s *Store, name string) *Group {
	return &Group{
		store:  s,
		name:   name,
		byName: make(map[string]*Group),
		attrs:  make(map[string]any),
	}
}

// Name returns the name of the group within its parent.
func (g *Group) Name() string {
	return g.name
}

func (g *Group) HasChild(name string) bool {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	_, ok := g.byName[name]
	return ok
}

func (g *Group) OpenChild(name string, create bool) (storage.Node, error) {
	if name == "" {
		return nil, fmt.Errorf("empty child name")
	}
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	if c, ok := g.byName[name]; ok {
		return c, nil
	}
	if !create {
		return nil, fmt.Errorf("%w: child %q", storage.ErrNotFound, name)
	}
	c := newGroup(g.store, name)
	g.children = append(g.children, c)
	g.byName[name] = c
	return c, nil
}

func (g *Group) RemoveChild(name string) (bool, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	if _, ok := g.byName[name]; !ok {
		return false, nil
	}
	delete(g.byName, name)
	g.children = slices.DeleteFunc(g.children, func(c *Group) bool { return c.name == name })
	return true, nil
}

func (g *Group) ChildCount() int {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return len(g.children)
}

func (g *Group) ChildNameAt(i int) (string, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	if i < 0 || i >= len(g.children) {
		return "", fmt.Errorf("%w: child index %d of %d", storage.ErrNotFound, i, len(g.children))
	}
	return g.children[i].name, nil
}

func (g *Group) MoveChild(oldName, newName string) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	c, ok := g.byName[oldName]
	if !ok {
		return fmt.Errorf("%w: child %q", storage.ErrNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := g.byName[newName]; exists {
		return fmt.Errorf("%w: child %q", storage.ErrExists, newName)
	}
	delete(g.byName, oldName)
	c.name = newName
	g.byName[newName] = c
	return nil
}

func (g *Group) HasAttr(key string) bool {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	_, ok := g.attrs[key]
	return ok
}

func (g *Group) Attr(key string) (any, bool) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	v, ok := g.attrs[key]
	if !ok {
		return nil, false
	}
	return storage.CloneAttr(v), true
}

func (g *Group) SetAttr(key string, value any) error {
	v, err := storage.NormalizeAttr(value)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", key, err)
	}
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.attrs[key] = v
	return nil
}

func (g *Group) RemoveAttr(key string) bool {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	_, ok := g.attrs[key]
	delete(g.attrs, key)
	return ok
}

func (g *Group) AttrKeys() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	keys := make([]string, 0, len(g.attrs))
	for k := range g.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (g *Group) CreateDataset(name string, dt storage.DataType, extent []uint64, opts ...storage.DatasetOption) (storage.Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("empty dataset name")
	}
	if dt.Size() == 0 {
		return nil, fmt.Errorf("%w: dataset element type %s", storage.ErrUnsupported, dt)
	}
	cfg, err := storage.ApplyDatasetOptions(extent, opts...)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", name, err)
	}

	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	if g.findDataset(name) != nil {
		return nil, fmt.Errorf("%w: dataset %q", storage.ErrExists, name)
	}
	ds := &Dataset{
		store:  g.store,
		name:   name,
		dt:     dt,
		extent: slices.Clone(extent),
		config: cfg,
		data:   dtype.Zero(dt, layout.NumElements(extent)),
	}
	g.datasets = append(g.datasets, ds)
	return ds, nil
}

func (g *Group) OpenDataset(name string) (storage.Dataset, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	if ds := g.findDataset(name); ds != nil {
		return ds, nil
	}
	return nil, fmt.Errorf("%w: dataset %q", storage.ErrNotFound, name)
}

func (g *Group) HasDataset(name string) bool {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.findDataset(name) != nil
}

func (g *Group) RemoveDataset(name string) (bool, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	n := len(g.datasets)
	g.datasets = slices.DeleteFunc(g.datasets, func(ds *Dataset) bool { return ds.name == name })
	return len(g.datasets) != n, nil
}

func (g *Group) DatasetNames() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	names := make([]string, len(g.datasets))
	for i, ds := range g.datasets {
		names[i] = ds.name
	}
	return names
}

// findDataset must be called with the store lock held.
func (g *Group) findDataset(name string) *Dataset {
	for _, ds := range g.datasets {
		if ds.name == name {
			return ds
		}
	}
	return nil
}

// Dataset is a dataset of a Store. *Dataset implements storage.Dataset.
type Dataset struct {
	store  *Store
	name   string
	dt     storage.DataType
	extent []uint64
	config storage.DatasetConfig
	data   []byte
}

var _ storage.Dataset = (*Dataset)(nil)

// Name returns the dataset name within its group.
func (d *Dataset) Name() string {
	return d.name
}

// Config returns the creation options the dataset was created with.
func (d *Dataset) Config() storage.DatasetConfig {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	cfg := d.config
	cfg.MaxExtent = slices.Clone(cfg.MaxExtent)
	cfg.Chunks = slices.Clone(cfg.Chunks)
	return cfg
}

func (d *Dataset) DataType() storage.DataType {
	return d.dt
}

func (d *Dataset) Extent() []uint64 {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return slices.Clone(d.extent)
}

func (d *Dataset) MaxExtent() []uint64 {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return slices.Clone(d.config.MaxExtent)
}

func (d *Dataset) SetExtent(extent []uint64) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	if err := storage.CheckExtent(extent, d.config.MaxExtent); err != nil {
		return fmt.Errorf("dataset %q: %w", d.name, err)
	}
	data, err := layout.Reshape(d.data, d.extent, extent, uint64(d.dt.Size()))
	if err != nil {
		return fmt.Errorf("dataset %q: %w", d.name, err)
	}
	d.data = data
	d.extent = slices.Clone(extent)
	return nil
}

func (d *Dataset) ReadBlock(extent, offset []uint64) ([]byte, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	block, err := layout.ExtractHyperslab(d.data, d.extent, offset, extent, uint64(d.dt.Size()))
	if err != nil {
		return nil, d.translateError(err)
	}
	return block, nil
}

func (d *Dataset) WriteBlock(raw []byte, extent, offset []uint64) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	if err := layout.InsertHyperslab(d.data, d.extent, raw, offset, extent, uint64(d.dt.Size())); err != nil {
		return d.translateError(err)
	}
	return nil
}

// Payload returns a copy of the whole dataset contents.
func (d *Dataset) Payload() []byte {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	return slices.Clone(d.data)
}

// Load replaces the dataset contents. raw must match the current extent.
func (d *Dataset) Load(raw []byte) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	if want := layout.NumElements(d.extent) * uint64(d.dt.Size()); uint64(len(raw)) != want {
		return fmt.Errorf("dataset %q: payload is %d bytes, want %d", d.name, len(raw), want)
	}
	d.data = slices.Clone(raw)
	return nil
}

func (d *Dataset) translateError(err error) error {
	if errors.Is(err, layout.ErrOutOfBounds) {
		return fmt.Errorf("dataset %q: %w: %w", d.name, storage.ErrOutOfBounds, err)
	}
	return fmt.Errorf("dataset %q: %w", d.name, err)
}
