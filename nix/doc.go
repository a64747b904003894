// Package nix stores scientific recordings as a typed entity graph on top of
// a hierarchical container.
//
// A [File] is bound to the root node of a [storage.Node] tree. It owns
// Blocks, each grouping Sources and DataArrays, and a metadata tree of
// Sections carrying Properties.
//
//	store := memstore.New()
//	f, err := nix.Open(store.Root())
//	b, err := f.CreateBlock("session 1", "recording")
//	da, err := b.CreateDataArray("voltage", "trace", nix.Double, nix.NDSize{2, 3})
//	err = da.SetData([]float64{1, 2, 3, 4, 5, 6}, nix.NDSize{2, 3}, nix.NDSize{0, 0})
//
// # Entities
//
// Entity values (Block, Source, Section, Property, DataArray) are handles:
// copying one shares the backing node and Equal compares node identity. The
// zero value is the null entity; mutating it fails with [ErrNullHandle].
// Children are looked up by id (Get*, failing with [ErrNotFound]) or by
// position (Get*At, failing with [ErrIndexOutOfRange]). Deleting an entity
// removes its whole subtree.
//
// References between entities (Section links, metadata, DataArray sources)
// are stored ids resolved on access, so deleting the target never corrupts
// the referrer.
//
// # Traversal
//
// Sources and Sections form trees. [FindEntities] walks any [Tree]
// breadth-first with a [Filter] and a depth bound.
//
// # Data
//
// A DataArray holds a numeric dataset. [DataArray.GetData] applies the
// optional polynomial calibration (coefficients, expansion origin) while
// reading; [DataArray.SetData] always writes raw values.
//
// # Concurrency
//
// A File performs no locking. Callers must ensure that a container has at
// most one writer at a time; entity values may be shared between goroutines
// while nobody writes.
package nix
