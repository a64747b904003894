// Package sqlitestore persists a node tree in a SQLite database.
//
// The tree lives in memory (see memstore) while the store is open. Open loads
// the last snapshot, Flush replaces the snapshot in one transaction and Close
// flushes before closing the database unless the store is read-only. Dataset payloads are stored through a
// filter pipeline: byte shuffle and zstd (or deflate, see WithCodec) when
// compression is enabled, and a Fletcher-32 checksum always.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/robert-malhotra/go-nix/internal/dtype"
	"github.com/robert-malhotra/go-nix/internal/filter"
	"github.com/robert-malhotra/go-nix/storage"
	"github.com/robert-malhotra/go-nix/storage/memstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id       INTEGER PRIMARY KEY,
	parent   INTEGER NOT NULL,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS attrs (
	node     INTEGER NOT NULL,
	key      TEXT NOT NULL,
	value    BLOB NOT NULL,
	PRIMARY KEY (node, key)
);
CREATE TABLE IF NOT EXISTS datasets (
	node       INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	dtype      TEXT NOT NULL,
	extent     TEXT NOT NULL,
	max_extent TEXT NOT NULL,
	chunks     TEXT NOT NULL,
	filters    TEXT NOT NULL,
	payload    BLOB NOT NULL,
	PRIMARY KEY (node, position)
);`

// ErrNotSnapshot is returned by a read-only Open of a database that holds no
// snapshot tables.
var ErrNotSnapshot = errors.New("database holds no snapshot")

// Store is a memstore tree backed by a SQLite snapshot.
type Store struct {
	*memstore.Store
	db     *sql.DB
	path   string
	opts   *options
	mu     sync.Mutex
	closed bool
}

// Open opens or creates the database at path and loads its tree. With
// WithReadOnly the database must exist and already hold a snapshot.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if path == "" {
		return nil, errors.New("empty database path")
	}
	if o.readOnly {
		return openReadOnly(ctx, path, o)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return newStore(ctx, db, path, o)
}

func openReadOnly(ctx context.Context, path string, o *options) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	dsn := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	db, err := sql.Open("sqlite", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	var tables int
	err = db.QueryRowContext(ctx, `SELECT count(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('nodes', 'attrs', 'datasets')`).Scan(&tables)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	if tables != 3 {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotSnapshot, path)
	}
	return newStore(ctx, db, path, o)
}

func newStore(ctx context.Context, db *sql.DB, path string, o *options) (*Store, error) {
	s := &Store{Store: memstore.New(), db: db, path: path, opts: o}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// nodeRow and datasetRow mirror the tables.
type nodeRow struct {
	id     int64
	parent int64
	name   string
}

type datasetRow struct {
	node      int64
	position  int
	name      string
	dtype     string
	extent    []uint64
	maxExtent []uint64
	chunks    []uint64
	filters   []filter.Info
	payload   []byte

	ds *memstore.Dataset
}

func (s *Store) load(ctx context.Context) error {
	groups := map[int64]*memstore.Group{}

	rows, err := s.db.QueryContext(ctx, `SELECT id, parent, name FROM nodes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("select nodes: %w", err)
	}
	var nodes []nodeRow
	for rows.Next() {
		var r nodeRow
		if err := rows.Scan(&r.id, &r.parent, &r.name); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, r)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("select nodes: %w", err)
	}
	if len(nodes) == 0 {
		s.opts.logger.Debug("empty database", "path", s.path)
		return nil
	}

	for _, r := range nodes {
		if r.parent == 0 {
			groups[r.id] = s.RootGroup()
			continue
		}
		parent, ok := groups[r.parent]
		if !ok {
			return fmt.Errorf("node %d: missing parent %d", r.id, r.parent)
		}
		child, err := parent.OpenChild(r.name, true)
		if err != nil {
			return fmt.Errorf("node %d: %w", r.id, err)
		}
		groups[r.id] = child.(*memstore.Group)
	}

	if err := s.loadAttrs(ctx, groups); err != nil {
		return err
	}
	n, err := s.loadDatasets(ctx, groups)
	if err != nil {
		return err
	}

	s.opts.logger.Info("loaded snapshot", "path", s.path, "nodes", len(nodes), "datasets", n)
	return nil
}

func (s *Store) loadAttrs(ctx context.Context, groups map[int64]*memstore.Group) error {
	rows, err := s.db.QueryContext(ctx, `SELECT node, key, value FROM attrs`)
	if err != nil {
		return fmt.Errorf("select attrs: %w", err)
	}
	for rows.Next() {
		var (
			node  int64
			key   string
			value []byte
		)
		if err := rows.Scan(&node, &key, &value); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan attr: %w", err)
		}
		g, ok := groups[node]
		if !ok {
			_ = rows.Close()
			return fmt.Errorf("attr %q: unknown node %d", key, node)
		}
		v, err := decodeAttr(value)
		if err != nil {
			_ = rows.Close()
			return fmt.Errorf("attr %q of node %d: %w", key, node, err)
		}
		if err := g.SetAttr(key, v); err != nil {
			_ = rows.Close()
			return err
		}
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("select attrs: %w", err)
	}
	return nil
}

func (s *Store) loadDatasets(ctx context.Context, groups map[int64]*memstore.Group) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT node, position, name, dtype, extent, max_extent, chunks, filters, payload
		FROM datasets ORDER BY node, position`)
	if err != nil {
		return 0, fmt.Errorf("select datasets: %w", err)
	}
	var dsRows []*datasetRow
	for rows.Next() {
		var (
			r                                  datasetRow
			extent, maxExtent, chunks, filters []byte
		)
		if err := rows.Scan(&r.node, &r.position, &r.name, &r.dtype, &extent, &maxExtent, &chunks, &filters, &r.payload); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("scan dataset: %w", err)
		}
		for _, f := range []struct {
			raw []byte
			dst any
		}{{extent, &r.extent}, {maxExtent, &r.maxExtent}, {chunks, &r.chunks}, {filters, &r.filters}} {
			if err := json.Unmarshal(f.raw, f.dst); err != nil {
				_ = rows.Close()
				return 0, fmt.Errorf("dataset %q: %w", r.name, err)
			}
		}
		dsRows = append(dsRows, &r)
	}
	if err := closeRows(rows); err != nil {
		return 0, fmt.Errorf("select datasets: %w", err)
	}

	for _, r := range dsRows {
		g, ok := groups[r.node]
		if !ok {
			return 0, fmt.Errorf("dataset %q: unknown node %d", r.name, r.node)
		}
		dt, err := dtype.Parse(r.dtype)
		if err != nil {
			return 0, fmt.Errorf("dataset %q: %w", r.name, err)
		}
		opts := []storage.DatasetOption{storage.WithMaxExtent(r.maxExtent...)}
		if r.chunks != nil {
			opts = append(opts, storage.WithChunks(r.chunks...))
		}
		if level := compressionLevel(r.filters); level > 0 {
			opts = append(opts, storage.WithCompression(level))
		}
		ds, err := g.CreateDataset(r.name, dt, r.extent, opts...)
		if err != nil {
			return 0, err
		}
		r.ds = ds.(*memstore.Dataset)
	}

	// Decoding is independent per dataset.
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, r := range dsRows {
		eg.Go(func() error {
			p, err := filter.NewPipeline(r.filters)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", r.name, err)
			}
			raw, err := p.Decode(r.payload)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", r.name, err)
			}
			return r.ds.Load(raw)
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return len(dsRows), nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

// snapshot is the flattened tree as written by Flush.
type snapshot struct {
	nodes    []nodeRow
	attrs    []attrRow
	datasets []*datasetRow
}

type attrRow struct {
	node  int64
	key   string
	value []byte
}

func (s *Store) collect(g *memstore.Group, parent int64, snap *snapshot) error {
	id := int64(len(snap.nodes) + 1)
	snap.nodes = append(snap.nodes, nodeRow{id: id, parent: parent, name: g.Name()})

	for _, key := range g.AttrKeys() {
		v, _ := g.Attr(key)
		raw, err := encodeAttr(v)
		if err != nil {
			return fmt.Errorf("attr %q: %w", key, err)
		}
		snap.attrs = append(snap.attrs, attrRow{node: id, key: key, value: raw})
	}

	for i, name := range g.DatasetNames() {
		ds, err := g.OpenDataset(name)
		if err != nil {
			return err
		}
		mds := ds.(*memstore.Dataset)
		cfg := mds.Config()
		snap.datasets = append(snap.datasets, &datasetRow{
			node:      id,
			position:  i,
			name:      name,
			dtype:     ds.DataType().String(),
			extent:    ds.Extent(),
			maxExtent: cfg.MaxExtent,
			chunks:    cfg.Chunks,
			filters:   s.filtersFor(ds.DataType(), cfg),
			ds:        mds,
		})
	}

	for i := 0; i < g.ChildCount(); i++ {
		name, err := g.ChildNameAt(i)
		if err != nil {
			return err
		}
		child, err := g.OpenChild(name, false)
		if err != nil {
			return err
		}
		if err := s.collect(child.(*memstore.Group), id, snap); err != nil {
			return err
		}
	}
	return nil
}

// compressionLevel returns the level recorded by the codec filter of a
// stored pipeline, 0 if the payload is uncompressed.
func compressionLevel(infos []filter.Info) int {
	for _, info := range infos {
		switch info.ID {
		case filter.IDZstd, filter.IDDeflate:
			if len(info.ClientData) > 0 {
				return int(info.ClientData[0])
			}
		}
	}
	return 0
}

func (s *Store) filtersFor(dt storage.DataType, cfg storage.DatasetConfig) []filter.Info {
	level := cfg.Compression
	if level == 0 {
		level = s.opts.compressionLevel
	}
	var infos []filter.Info
	if level > 0 {
		infos = append(infos, filter.Info{ID: filter.IDShuffle, ClientData: []uint32{uint32(dt.Size())}})
		switch s.opts.codec {
		case CodecDeflate:
			infos = append(infos, filter.Info{ID: filter.IDDeflate, ClientData: []uint32{uint32(min(level, 9))}})
		default:
			infos = append(infos, filter.Info{ID: filter.IDZstd, ClientData: []uint32{uint32(level)}})
		}
	}
	return append(infos, filter.Info{ID: filter.IDFletcher32})
}

// Flush replaces the stored snapshot with the current tree.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	if s.opts.readOnly {
		return storage.ErrReadOnly
	}
	return s.flush(ctx)
}

func (s *Store) flush(ctx context.Context) (retErr error) {
	var snap snapshot
	if err := s.collect(s.RootGroup(), 0, &snap); err != nil {
		return fmt.Errorf("collect tree: %w", err)
	}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, r := range snap.datasets {
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			p, err := filter.NewPipeline(r.filters)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", r.name, err)
			}
			r.payload, err = p.Encode(r.ds.Payload())
			if err != nil {
				return fmt.Errorf("dataset %q: %w", r.name, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"nodes", "attrs", "datasets"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, n := range snap.nodes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(id, parent, name) VALUES(?,?,?)`, n.id, n.parent, n.name); err != nil {
			return fmt.Errorf("insert node %q: %w", n.name, err)
		}
	}
	for _, a := range snap.attrs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO attrs(node, key, value) VALUES(?,?,?)`, a.node, a.key, a.value); err != nil {
			return fmt.Errorf("insert attr %q: %w", a.key, err)
		}
	}
	for _, d := range snap.datasets {
		extent, _ := json.Marshal(d.extent)
		maxExtent, _ := json.Marshal(d.maxExtent)
		chunks, _ := json.Marshal(d.chunks)
		filters, err := json.Marshal(d.filters)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO datasets(node, position, name, dtype, extent, max_extent, chunks, filters, payload)
			VALUES(?,?,?,?,?,?,?,?,?)`,
			d.node, d.position, d.name, d.dtype, extent, maxExtent, chunks, filters, d.payload); err != nil {
			return fmt.Errorf("insert dataset %q: %w", d.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.opts.logger.Debug("flushed snapshot", "path", s.path,
		"nodes", len(snap.nodes), "attrs", len(snap.attrs), "datasets", len(snap.datasets))
	return nil
}

// Close flushes the tree and closes the database. Both failures are
// reported.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var result *multierror.Error
	if !s.opts.readOnly {
		if err := s.flush(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("flush: %w", err))
		}
	}
	if err := s.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close sqlite: %w", err))
	}
	return result.ErrorOrNil()
}
