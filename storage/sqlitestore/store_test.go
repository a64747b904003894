package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nix/internal/dtype"
	"github.com/robert-malhotra/go-nix/internal/filter"
	"github.com/robert-malhotra/go-nix/storage"
	"github.com/robert-malhotra/go-nix/storage/memstore"
)

func float64s(vals ...float64) []byte {
	out := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
	}
	return out
}

func TestRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "test.nix.db")

	s, err := Open(ctx, path, WithCompressionLevel(3))
	require.NoError(t, err)

	root := s.Root()
	require.NoError(t, root.SetAttr("format", "nix"))
	block, err := root.OpenChild("b1", true)
	require.NoError(t, err)
	require.NoError(t, block.SetAttr("coeffs", []float64{3, 2, math.NaN()}))
	require.NoError(t, block.SetAttr("empty", []string{}))
	require.NoError(t, block.SetAttr("n", uint64(7)))
	_, err = block.OpenChild("z", true)
	require.NoError(t, err)
	_, err = block.OpenChild("a", true)
	require.NoError(t, err)

	ds, err := block.CreateDataset("data", dtype.Double, []uint64{2, 3}, storage.WithMaxExtent(storage.Unlimited, 3))
	require.NoError(t, err)
	require.NoError(t, ds.WriteBlock(float64s(1, 2, 3, 4, 5, 6), []uint64{2, 3}, []uint64{0, 0}))
	_, err = block.CreateDataset("scalar", dtype.Int8, []uint64{})
	require.NoError(t, err)

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	assert.ErrorIs(t, s.Flush(ctx), storage.ErrClosed)

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s2.Close(ctx)) }()

	root = s2.Root()
	v, ok := root.Attr("format")
	require.True(t, ok)
	assert.Equal(t, "nix", v)

	block, err = root.OpenChild("b1", false)
	require.NoError(t, err)

	v, ok = block.Attr("coeffs")
	require.True(t, ok)
	coeffs := v.([]float64)
	require.Len(t, coeffs, 3)
	assert.Equal(t, 3.0, coeffs[0])
	assert.True(t, math.IsNaN(coeffs[2]))

	v, ok = block.Attr("empty")
	require.True(t, ok)
	assert.Equal(t, []string{}, v)

	v, ok = block.Attr("n")
	require.True(t, ok)
	assert.Equal(t, uint64(7), v)

	require.Equal(t, 2, block.ChildCount())
	first, err := block.ChildNameAt(0)
	require.NoError(t, err)
	assert.Equal(t, "z", first, "child order must survive a reload")

	ds, err = block.OpenDataset("data")
	require.NoError(t, err)
	assert.Equal(t, dtype.Double, ds.DataType())
	assert.Equal(t, []uint64{2, 3}, ds.Extent())
	assert.Equal(t, []uint64{storage.Unlimited, 3}, ds.MaxExtent())
	got, err := ds.ReadBlock([]uint64{2, 3}, []uint64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, float64s(1, 2, 3, 4, 5, 6), got)

	assert.Equal(t, []string{"data", "scalar"}, block.DatasetNames())
}

func TestFlushReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Root().OpenChild("gone", true)
	require.NoError(t, err)
	require.NoError(t, s.Flush(ctx))

	_, err = s.Root().RemoveChild("gone")
	require.NoError(t, err)
	_, err = s.Root().OpenChild("kept", true)
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s2.Close(ctx)) }()
	assert.False(t, s2.Root().HasChild("gone"))
	assert.True(t, s2.Root().HasChild("kept"))
}

func TestCorruptPayload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	ds, err := s.Root().CreateDataset("d", dtype.Int32, []uint64{4})
	require.NoError(t, err)
	require.NoError(t, ds.WriteBlock(make([]byte, 16), []uint64{4}, []uint64{0}))
	require.NoError(t, s.Close(ctx))

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s2.db.ExecContext(ctx, `UPDATE datasets SET payload = ?`, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	require.NoError(t, s2.db.Close())

	_, err = Open(ctx, path)
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestAttrCodec(t *testing.T) {
	values := []any{
		"x", []string{"a", "b"},
		int64(-3), []int64{1, -1},
		uint64(9), []uint64{},
		true, []bool{true, false},
		math.Inf(1), []float64{0.5},
	}
	for _, v := range values {
		raw, err := encodeAttr(v)
		require.NoError(t, err)
		got, err := decodeAttr(raw)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	_, err := encodeAttr(3.5i)
	assert.ErrorIs(t, err, storage.ErrAttrType)
}

func TestFiltersFor(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		cfg  storage.DatasetConfig
		want []filter.Info
	}{
		{
			name: "uncompressed",
			want: []filter.Info{{ID: filter.IDFletcher32}},
		},
		{
			name: "store level",
			opts: []Option{WithCompressionLevel(5)},
			want: []filter.Info{
				{ID: filter.IDShuffle, ClientData: []uint32{4}},
				{ID: filter.IDZstd, ClientData: []uint32{5}},
				{ID: filter.IDFletcher32},
			},
		},
		{
			name: "dataset level wins",
			opts: []Option{WithCompressionLevel(5)},
			cfg:  storage.DatasetConfig{Compression: 12},
			want: []filter.Info{
				{ID: filter.IDShuffle, ClientData: []uint32{4}},
				{ID: filter.IDZstd, ClientData: []uint32{12}},
				{ID: filter.IDFletcher32},
			},
		},
		{
			name: "deflate caps level",
			opts: []Option{WithCodec(CodecDeflate)},
			cfg:  storage.DatasetConfig{Compression: 12},
			want: []filter.Info{
				{ID: filter.IDShuffle, ClientData: []uint32{4}},
				{ID: filter.IDDeflate, ClientData: []uint32{9}},
				{ID: filter.IDFletcher32},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			for _, opt := range tt.opts {
				opt(o)
			}
			s := &Store{opts: o}
			assert.Equal(t, tt.want, s.filtersFor(dtype.Int32, tt.cfg))
		})
	}
}

func TestDeflateCodecRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "deflate.nix.db")

	s, err := Open(ctx, path, WithCodec(CodecDeflate), WithCompressionLevel(6))
	require.NoError(t, err)
	ds, err := s.Root().CreateDataset("data", dtype.Double, []uint64{4})
	require.NoError(t, err)
	require.NoError(t, ds.WriteBlock(float64s(0.5, 0.5, 0.5, -1), []uint64{4}, []uint64{0}))
	require.NoError(t, s.Close(ctx))

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s2.Close(ctx)) }()

	ds, err = s2.Root().OpenDataset("data")
	require.NoError(t, err)
	raw, err := ds.ReadBlock([]uint64{4}, []uint64{0})
	require.NoError(t, err)
	assert.Equal(t, float64s(0.5, 0.5, 0.5, -1), raw)
}

func TestCompressionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "level.nix.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Root().CreateDataset("data", dtype.Int32, []uint64{4}, storage.WithCompression(5))
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	// The second session flushes again without touching the dataset.
	s2, err := Open(ctx, path)
	require.NoError(t, err)
	ds, err := s2.Root().OpenDataset("data")
	require.NoError(t, err)
	assert.Equal(t, 5, ds.(*memstore.Dataset).Config().Compression)
	require.NoError(t, s2.Close(ctx))

	s3, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s3.Close(ctx)) }()

	var raw string
	require.NoError(t, s3.db.QueryRowContext(ctx, `SELECT filters FROM datasets WHERE name = ?`, "data").Scan(&raw))
	var infos []filter.Info
	require.NoError(t, json.Unmarshal([]byte(raw), &infos))
	assert.Equal(t, []filter.Info{
		{ID: filter.IDShuffle, ClientData: []uint32{4}},
		{ID: filter.IDZstd, ClientData: []uint32{5}},
		{ID: filter.IDFletcher32},
	}, infos)
	assert.Equal(t, 5, compressionLevel(infos))
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ro.nix.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Root().SetAttr("format", "nix"))
	require.NoError(t, s.Close(ctx))

	ro, err := Open(ctx, path, WithReadOnly())
	require.NoError(t, err)
	v, ok := ro.Root().Attr("format")
	require.True(t, ok)
	assert.Equal(t, "nix", v)

	_, err = ro.Root().OpenChild("scratch", true)
	require.NoError(t, err)
	assert.ErrorIs(t, ro.Flush(ctx), storage.ErrReadOnly)
	require.NoError(t, ro.Close(ctx))

	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s2.Close(ctx)) }()
	assert.False(t, s2.Root().HasChild("scratch"), "read-only changes must not reach the database")
}

func TestReadOnlyForeignDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE notes (body TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(ctx, path, WithReadOnly())
	assert.ErrorIs(t, err, ErrNotSnapshot)

	db, err = sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var tables int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM sqlite_master WHERE type = 'table'`).Scan(&tables))
	assert.Equal(t, 1, tables)

	_, err = Open(ctx, filepath.Join(t.TempDir(), "missing.db"), WithReadOnly())
	assert.Error(t, err)
}
