package nix

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-nix/internal/ident"
	"github.com/robert-malhotra/go-nix/storage/memstore"
	"github.com/robert-malhotra/go-nix/storage/sqlitestore"
)

func TestOpenInitializesContainer(t *testing.T) {
	store := memstore.New()
	f, err := Open(store.Root())
	require.NoError(t, err)

	assert.Equal(t, FormatName, f.Format())
	assert.Equal(t, []int64{1, 0, 0}, f.Version())
	assert.False(t, f.CreatedAt().IsZero())
	assert.True(t, store.Root().HasChild("data"))
	assert.True(t, store.Root().HasChild("metadata"))
	assert.Equal(t, 0, f.BlockCount())
	assert.Equal(t, 0, f.SectionCount())

	b, err := f.CreateBlock("b", "t")
	require.NoError(t, err)

	// Reopening keeps the content and the creation time.
	again, err := Open(store.Root())
	require.NoError(t, err)
	assert.Equal(t, f.CreatedAt(), again.CreatedAt())
	assert.True(t, again.HasBlock(b.ID()))
}

func TestOpenRejectsForeignFormat(t *testing.T) {
	root := memstore.New().Root()
	require.NoError(t, root.SetAttr("format", "hdf5"))

	_, err := Open(root)
	assert.ErrorIs(t, err, ErrNotNIX)

	_, err = Open(nil)
	assert.ErrorIs(t, err, ErrNullHandle)
}

func TestOpenWithoutInit(t *testing.T) {
	root := memstore.New().Root()

	_, err := Open(root, WithoutInit())
	assert.ErrorIs(t, err, ErrNotNIX)
	assert.Empty(t, root.AttrKeys())
	assert.Equal(t, 0, root.ChildCount())

	_, err = Open(root)
	require.NoError(t, err)
	f, err := Open(root, WithoutInit())
	require.NoError(t, err)
	assert.Equal(t, FormatName, f.Format())

	_, err = root.RemoveChild("metadata")
	require.NoError(t, err)
	_, err = Open(root, WithoutInit())
	assert.ErrorIs(t, err, ErrNotNIX)
	assert.False(t, root.HasChild("metadata"))
}

func TestFileBlocks(t *testing.T) {
	f := newTestFile(t)
	b1, err := f.CreateBlock("one", "session")
	require.NoError(t, err)
	b2, err := f.CreateBlock("two", "session")
	require.NoError(t, err)

	assert.True(t, ident.Valid(b1.ID()))
	assert.NotEqual(t, b1.ID(), b2.ID())
	assert.Equal(t, 2, f.BlockCount())

	got, err := f.GetBlock(b2.ID())
	require.NoError(t, err)
	assert.True(t, got.Equal(b2))
	assert.False(t, got.Equal(b1))

	got, err = f.GetBlockAt(0)
	require.NoError(t, err)
	assert.True(t, got.Equal(b1))

	_, err = f.GetBlockAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = f.GetBlock("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	blocks, err := f.Blocks(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, names(blocks))

	removed, err := f.DeleteBlock(b1.ID())
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = f.DeleteBlock(b1.ID())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.False(t, f.HasBlock(b1.ID()))
}

func TestEntityAttributes(t *testing.T) {
	f := newTestFile(t)
	b, err := f.CreateBlock("b", "session")
	require.NoError(t, err)

	assert.Equal(t, "b", b.Name())
	assert.Equal(t, "session", b.Type())
	assert.False(t, b.CreatedAt().IsZero())
	assert.False(t, b.UpdatedAt().Before(b.CreatedAt()))

	created := b.UpdatedAt()
	require.NoError(t, b.SetType("trial"))
	assert.Equal(t, "trial", b.Type())
	assert.False(t, b.UpdatedAt().Before(created))

	_, ok := b.Definition()
	assert.False(t, ok)
	require.NoError(t, b.SetDefinition("first trial"))
	def, ok := b.Definition()
	assert.True(t, ok)
	assert.Equal(t, "first trial", def)
	require.NoError(t, b.ClearDefinition())
	_, ok = b.Definition()
	assert.False(t, ok)
}

func TestNullEntities(t *testing.T) {
	var b Block
	assert.True(t, b.IsNull())
	assert.True(t, b.Equal(Block{}))
	assert.Empty(t, b.ID())
	assert.Equal(t, 0, b.SourceCount())
	assert.False(t, b.HasDataArray("x"))

	_, err := b.CreateSource("s", "t")
	assert.ErrorIs(t, err, ErrNullHandle)
	_, err = b.Sources(nil)
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.ErrorIs(t, b.SetType("t"), ErrNullHandle)
	assert.ErrorIs(t, b.SetMetadata("x"), ErrNullHandle)

	var da DataArray
	_, err = da.DataExtent()
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.Equal(t, Nothing, da.DataType())
	assert.Equal(t, 0, da.DimensionCount())

	var s Section
	_, err = s.LinkedSection()
	assert.ErrorIs(t, err, ErrNoLink)
	assert.ErrorIs(t, s.Link("x"), ErrNullHandle)
}

func TestEntitySwap(t *testing.T) {
	f := newTestFile(t)
	a, err := f.CreateBlock("a", "t")
	require.NoError(t, err)
	b, err := f.CreateBlock("b", "t")
	require.NoError(t, err)

	a.Swap(&b)
	assert.Equal(t, "b", a.Name())
	assert.Equal(t, "a", b.Name())

	var null Block
	a.Swap(&null)
	assert.True(t, a.IsNull())
	assert.Equal(t, "b", null.Name())
}

func TestMetadataReference(t *testing.T) {
	f := newTestFile(t)
	b, err := f.CreateBlock("b", "t")
	require.NoError(t, err)
	top, err := f.CreateSection("top", "t")
	require.NoError(t, err)
	nested, err := top.CreateSection("nested", "t")
	require.NoError(t, err)

	md, err := b.Metadata()
	require.NoError(t, err)
	assert.True(t, md.IsNull())

	assert.ErrorIs(t, b.SetMetadata("missing"), ErrNotFound)
	require.NoError(t, b.SetMetadata(nested.ID()))
	md, err = b.Metadata()
	require.NoError(t, err)
	assert.True(t, md.Equal(nested))

	src, err := b.CreateSource("s", "t")
	require.NoError(t, err)
	require.NoError(t, src.SetMetadata(top.ID()))

	_, err = f.DeleteSection(top.ID())
	require.NoError(t, err)
	_, err = b.Metadata()
	assert.ErrorIs(t, err, ErrNotFound, "dangling references resolve to not found")

	require.NoError(t, b.ClearMetadata())
	md, err = b.Metadata()
	require.NoError(t, err)
	assert.True(t, md.IsNull())
}

func TestLoggerRecordsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := newTestFile(t, WithLogger(logger))

	b, err := f.CreateBlock("b", "t")
	require.NoError(t, err)
	da, err := b.CreateDataArray("d", "t", Double, NDSize{2})
	require.NoError(t, err)
	require.NoError(t, da.SetDataExtent(NDSize{4}))
	_, err = f.DeleteBlock(b.ID())
	require.NoError(t, err)

	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Equal(t, []string{
		"initialized container",
		"entity created",
		"entity created",
		"resize completed",
		"entity deleted",
	}, msgs)
}

func TestSQLiteRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.nix")

	store, err := sqlitestore.Open(ctx, path, sqlitestore.WithCompressionLevel(3))
	require.NoError(t, err)
	f, err := Open(store.Root())
	require.NoError(t, err)

	b, err := f.CreateBlock("session", "recording")
	require.NoError(t, err)
	s, err := f.CreateSection("subject", "subject")
	require.NoError(t, err)
	p, err := s.CreateProperty("weight")
	require.NoError(t, err)
	require.NoError(t, p.SetValues([]Value{FloatValue(21.5).WithUncertainty(0.5)}))
	require.NoError(t, p.SetUnit("g"))
	require.NoError(t, b.SetMetadata(s.ID()))

	da, err := b.CreateDataArray("trace", "voltage", Int16, NDSize{2, 3}, WithCompression(3))
	require.NoError(t, err)
	require.NoError(t, da.SetData([]int16{1, 2, 3, 4, 5, 6}, NDSize{2, 3}, NDSize{0, 0}))
	require.NoError(t, da.SetPolynomCoefficients([]float64{0.5, 0}))
	_, err = da.AppendSampledDimension(0.001)
	require.NoError(t, err)
	_, err = da.AppendSetDimension()
	require.NoError(t, err)

	require.NoError(t, store.Close(ctx))

	store, err = sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })
	f, err = Open(store.Root())
	require.NoError(t, err)

	b, err = f.GetBlockAt(0)
	require.NoError(t, err)
	assert.Equal(t, "session", b.Name())

	md, err := b.Metadata()
	require.NoError(t, err)
	weight, err := md.GetPropertyByName("weight")
	require.NoError(t, err)
	vals, err := weight.Values()
	require.NoError(t, err)
	assert.Equal(t, []Value{FloatValue(21.5).WithUncertainty(0.5)}, vals)

	da, err = b.GetDataArrayAt(0)
	require.NoError(t, err)
	assert.Equal(t, Int16, da.DataType())
	got, err := ReadAll[float64](da)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2, 2.5, 3}, got)
	assert.Equal(t, []DimensionType{DimensionSample, DimensionSet}, dimensionTypes(t, da))
}
