package nix

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robert-malhotra/go-nix/internal/ident"
	"github.com/robert-malhotra/go-nix/storage"
)

// Format identification written to the container root.
const (
	FormatName  = "nix"
	attrFormat  = "format"
	attrVersion = "version"
)

// Version is the layout version written to new containers.
var Version = []int64{1, 0, 0}

const (
	groupData     = "data"
	groupMetadata = "metadata"
)

// File is the entry point to the entity graph stored below one container
// root. Blocks live under "data", top-level Sections under "metadata".
//
// A File performs no locking. Concurrent readers are fine while no
// goroutine mutates the same container.
type File struct {
	root   storage.Node
	logger *Logger
	newID  ident.Generator
}

// Open binds a File to root. An empty root is initialized as a NIX
// container unless WithoutInit is given; a root carrying a different format
// attribute is rejected with ErrNotNIX.
func Open(root storage.Node, opts ...Option) (*File, error) {
	if root == nil {
		return nil, ErrNullHandle
	}
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(o)
	}
	f := &File{root: root, logger: o.logger, newID: o.newID}

	if v, ok := root.Attr(attrFormat); ok {
		if s, _ := v.(string); s != FormatName {
			return nil, fmt.Errorf("%w: format %v", ErrNotNIX, v)
		}
	} else if o.noInit {
		return nil, fmt.Errorf("%w: no format attribute", ErrNotNIX)
	} else {
		ts := now()
		for key, value := range map[string]any{
			attrFormat:    FormatName,
			attrVersion:   Version,
			attrCreatedAt: ts,
			attrUpdatedAt: ts,
		} {
			if err := root.SetAttr(key, value); err != nil {
				return nil, fmt.Errorf("initialize container: %w", err)
			}
		}
		f.logger.Info("initialized container", "version", versionString(Version))
	}

	for _, g := range []string{groupData, groupMetadata} {
		if o.noInit && !root.HasChild(g) {
			return nil, fmt.Errorf("%w: missing %q group", ErrNotNIX, g)
		}
		if _, err := root.OpenChild(g, !o.noInit); err != nil {
			return nil, fmt.Errorf("initialize container: %w", translateError(err))
		}
	}
	return f, nil
}

func versionString(v []int64) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, ".")
}

// Format returns the format attribute of the container.
func (f *File) Format() string {
	return f.handle().stringAttr(attrFormat)
}

// Version returns the layout version the container was created with.
func (f *File) Version() []int64 {
	v, _ := f.root.Attr(attrVersion)
	ver, _ := v.([]int64)
	return ver
}

// CreatedAt returns the container creation time.
func (f *File) CreatedAt() time.Time {
	return f.handle().timeAttr(attrCreatedAt)
}

func (f *File) handle() handle {
	return handle{node: f.root, file: f}
}

func (f *File) blocks() children[Block] {
	return children[Block]{
		owner: f.handle(), group: groupData, kind: "block",
		wrap: func(h handle) Block { return Block{metadataEntity{entity{h}}} },
	}
}

func (f *File) sections() children[Section] {
	return children[Section]{
		owner: f.handle(), group: groupMetadata, kind: "section",
		wrap: func(h handle) Section { return Section{metadataEntity{entity{h}}} },
	}
}

// CreateBlock creates a new Block.
func (f *File) CreateBlock(name, typ string) (Block, error) {
	return f.blocks().create(name, typ, nil)
}

// HasBlock reports whether a Block with the given id exists.
func (f *File) HasBlock(id string) bool {
	return f.blocks().has(id)
}

// GetBlock returns the Block with the given id or ErrNotFound.
func (f *File) GetBlock(id string) (Block, error) {
	return f.blocks().get(id)
}

// GetBlockAt returns the i-th Block or ErrIndexOutOfRange.
func (f *File) GetBlockAt(i int) (Block, error) {
	return f.blocks().at(i)
}

// BlockCount returns the number of Blocks.
func (f *File) BlockCount() int {
	return f.blocks().count()
}

// DeleteBlock removes a Block with all its sources and data arrays. It
// returns false if no such Block exists.
func (f *File) DeleteBlock(id string) (bool, error) {
	return f.blocks().remove(id)
}

// Blocks returns the Blocks passing filter.
func (f *File) Blocks(filter Filter[Block]) ([]Block, error) {
	return f.blocks().list(filter)
}

// CreateSection creates a new top-level Section.
func (f *File) CreateSection(name, typ string) (Section, error) {
	return f.sections().create(name, typ, nil)
}

// HasSection reports whether a top-level Section with the given id exists.
func (f *File) HasSection(id string) bool {
	return f.sections().has(id)
}

// GetSection returns the top-level Section with the given id or ErrNotFound.
func (f *File) GetSection(id string) (Section, error) {
	return f.sections().get(id)
}

// GetSectionAt returns the i-th top-level Section or ErrIndexOutOfRange.
func (f *File) GetSectionAt(i int) (Section, error) {
	return f.sections().at(i)
}

// SectionCount returns the number of top-level Sections.
func (f *File) SectionCount() int {
	return f.sections().count()
}

// DeleteSection removes a top-level Section with its whole subtree.
func (f *File) DeleteSection(id string) (bool, error) {
	return f.sections().remove(id)
}

// Sections returns the top-level Sections passing filter.
func (f *File) Sections(filter Filter[Section]) ([]Section, error) {
	return f.sections().list(filter)
}

// FindSections searches all section trees breadth-first. The top-level
// Sections are at depth 0.
func (f *File) FindSections(filter Filter[Section], maxDepth int) ([]Section, error) {
	roots, err := f.Sections(nil)
	if err != nil {
		return nil, err
	}
	return findFrom(roots, filter, maxDepth)
}

// findSection resolves a Section id anywhere in the file.
func (f *File) findSection(id string) (Section, error) {
	found, err := f.FindSections(func(s Section) bool { return s.ID() == id }, Unbounded)
	if err != nil {
		return Section{}, err
	}
	if len(found) == 0 {
		return Section{}, notFound("section", id)
	}
	return found[0], nil
}
