package cmd

import (
	"strconv"
	"strings"
	"time"

	"github.com/robert-malhotra/go-nix/nix"
)

// The document types mirror the entity graph for tree printing and dumps.

type entityDoc struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

type fileDoc struct {
	Format    string       `json:"format" yaml:"format"`
	Version   string       `json:"version" yaml:"version"`
	CreatedAt string       `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Blocks    []blockDoc   `json:"blocks" yaml:"blocks"`
	Sections  []sectionDoc `json:"sections" yaml:"sections"`
}

type blockDoc struct {
	entityDoc  `json:",inline" yaml:",inline"`
	Metadata   string         `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Sources    []sourceDoc    `json:"sources,omitempty" yaml:"sources,omitempty"`
	DataArrays []dataArrayDoc `json:"data_arrays,omitempty" yaml:"data_arrays,omitempty"`
}

type sourceDoc struct {
	entityDoc `json:",inline" yaml:",inline"`
	Metadata  string      `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Sources   []sourceDoc `json:"sources,omitempty" yaml:"sources,omitempty"`
}

type dataArrayDoc struct {
	entityDoc           `json:",inline" yaml:",inline"`
	DataType            string         `json:"data_type" yaml:"data_type"`
	Extent              []uint64       `json:"extent" yaml:"extent,flow"`
	Label               string         `json:"label,omitempty" yaml:"label,omitempty"`
	Unit                string         `json:"unit,omitempty" yaml:"unit,omitempty"`
	ExpansionOrigin     *float64       `json:"expansion_origin,omitempty" yaml:"expansion_origin,omitempty"`
	PolynomCoefficients []float64      `json:"polynom_coefficients,omitempty" yaml:"polynom_coefficients,omitempty,flow"`
	Sources             []string       `json:"sources,omitempty" yaml:"sources,omitempty"`
	Metadata            string         `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Dimensions          []dimensionDoc `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Data                []float64      `json:"data,omitempty" yaml:"data,omitempty,flow"`
}

type dimensionDoc struct {
	Index            int       `json:"index" yaml:"index"`
	Type             string    `json:"type" yaml:"type"`
	SamplingInterval float64   `json:"sampling_interval,omitempty" yaml:"sampling_interval,omitempty"`
	Offset           *float64  `json:"offset,omitempty" yaml:"offset,omitempty"`
	Unit             string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Label            string    `json:"label,omitempty" yaml:"label,omitempty"`
	Labels           []string  `json:"labels,omitempty" yaml:"labels,omitempty,flow"`
	Ticks            []float64 `json:"ticks,omitempty" yaml:"ticks,omitempty,flow"`
}

type sectionDoc struct {
	entityDoc  `json:",inline" yaml:",inline"`
	Repository string        `json:"repository,omitempty" yaml:"repository,omitempty"`
	Link       string        `json:"link,omitempty" yaml:"link,omitempty"`
	Metadata   string        `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Properties []propertyDoc `json:"properties,omitempty" yaml:"properties,omitempty"`
	Sections   []sectionDoc  `json:"sections,omitempty" yaml:"sections,omitempty"`
}

type propertyDoc struct {
	entityDoc     `json:",inline" yaml:",inline"`
	Unit          string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	DataType      string    `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Values        []any     `json:"values,omitempty" yaml:"values,omitempty,flow"`
	Uncertainties []float64 `json:"uncertainties,omitempty" yaml:"uncertainties,omitempty,flow"`
}

// namedEntity is the attribute surface shared by all entity kinds.
type namedEntity interface {
	ID() string
	Name() string
	Type() string
	Definition() (string, bool)
}

type metadataRef interface {
	Metadata() (nix.Section, error)
}

func entityOf(e namedEntity) entityDoc {
	def, _ := e.Definition()
	return entityDoc{ID: e.ID(), Name: e.Name(), Type: e.Type(), Definition: def}
}

// metadataID resolves a metadata reference. Dangling references are shown
// with a marker instead of failing the whole dump.
func metadataID(e metadataRef) string {
	md, err := e.Metadata()
	if err != nil {
		return "<dangling>"
	}
	if md.IsNull() {
		return ""
	}
	return md.ID()
}

// buildOptions controls how much of the graph is materialized.
type buildOptions struct {
	withData bool
}

func buildFile(f *nix.File, o buildOptions) (fileDoc, error) {
	doc := fileDoc{
		Format:   f.Format(),
		Version:  versionString(f.Version()),
		Blocks:   []blockDoc{},
		Sections: []sectionDoc{},
	}
	if t := f.CreatedAt(); !t.IsZero() {
		doc.CreatedAt = t.Format(time.RFC3339)
	}

	blocks, err := f.Blocks(nil)
	if err != nil {
		return doc, err
	}
	for _, b := range blocks {
		bd, err := buildBlock(b, o)
		if err != nil {
			return doc, err
		}
		doc.Blocks = append(doc.Blocks, bd)
	}

	sections, err := f.Sections(nil)
	if err != nil {
		return doc, err
	}
	for _, s := range sections {
		sd, err := buildSection(s)
		if err != nil {
			return doc, err
		}
		doc.Sections = append(doc.Sections, sd)
	}
	return doc, nil
}

func versionString(v []int64) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, ".")
}

func buildBlock(b nix.Block, o buildOptions) (blockDoc, error) {
	doc := blockDoc{entityDoc: entityOf(b), Metadata: metadataID(b)}

	sources, err := b.Sources(nil)
	if err != nil {
		return doc, err
	}
	for _, s := range sources {
		sd, err := buildSource(s)
		if err != nil {
			return doc, err
		}
		doc.Sources = append(doc.Sources, sd)
	}

	arrays, err := b.DataArrays(nil)
	if err != nil {
		return doc, err
	}
	for _, da := range arrays {
		dd, err := buildDataArray(da, o)
		if err != nil {
			return doc, err
		}
		doc.DataArrays = append(doc.DataArrays, dd)
	}
	return doc, nil
}

func buildSource(s nix.Source) (sourceDoc, error) {
	doc := sourceDoc{entityDoc: entityOf(s), Metadata: metadataID(s)}
	children, err := s.Children(nil)
	if err != nil {
		return doc, err
	}
	for _, c := range children {
		cd, err := buildSource(c)
		if err != nil {
			return doc, err
		}
		doc.Sources = append(doc.Sources, cd)
	}
	return doc, nil
}

func buildDataArray(da nix.DataArray, o buildOptions) (dataArrayDoc, error) {
	doc := dataArrayDoc{
		entityDoc: entityOf(da),
		DataType:  da.DataType().String(),
		Sources:   da.SourceIDs(),
		Metadata:  metadataID(da),
	}
	extent, err := da.DataExtent()
	if err != nil {
		return doc, err
	}
	doc.Extent = extent
	doc.Label, _ = da.Label()
	doc.Unit, _ = da.Unit()
	if origin, ok := da.ExpansionOrigin(); ok {
		doc.ExpansionOrigin = &origin
	}
	doc.PolynomCoefficients, _ = da.PolynomCoefficients()

	dims, err := da.Dimensions(nil)
	if err != nil {
		return doc, err
	}
	for _, d := range dims {
		doc.Dimensions = append(doc.Dimensions, buildDimension(d))
	}

	if o.withData {
		doc.Data, err = nix.ReadAll[float64](da)
		if err != nil {
			return doc, err
		}
	}
	return doc, nil
}

func buildDimension(d nix.Dimension) dimensionDoc {
	doc := dimensionDoc{Index: d.Index(), Type: string(d.DimensionType())}
	switch dim := d.(type) {
	case nix.SampledDimension:
		doc.SamplingInterval = dim.SamplingInterval()
		if off, ok := dim.Offset(); ok {
			doc.Offset = &off
		}
		doc.Unit, _ = dim.Unit()
		doc.Label, _ = dim.Label()
	case nix.SetDimension:
		doc.Labels = dim.Labels()
	case nix.RangeDimension:
		doc.Ticks = dim.Ticks()
		doc.Unit, _ = dim.Unit()
		doc.Label, _ = dim.Label()
	}
	return doc
}

func buildSection(s nix.Section) (sectionDoc, error) {
	doc := sectionDoc{entityDoc: entityOf(s), Link: s.LinkID(), Metadata: metadataID(s)}
	doc.Repository, _ = s.Repository()

	props, err := s.Properties(nil)
	if err != nil {
		return doc, err
	}
	for _, p := range props {
		pd, err := buildProperty(p)
		if err != nil {
			return doc, err
		}
		doc.Properties = append(doc.Properties, pd)
	}

	children, err := s.Children(nil)
	if err != nil {
		return doc, err
	}
	for _, c := range children {
		cd, err := buildSection(c)
		if err != nil {
			return doc, err
		}
		doc.Sections = append(doc.Sections, cd)
	}
	return doc, nil
}

func buildProperty(p nix.Property) (propertyDoc, error) {
	doc := propertyDoc{entityDoc: entityOf(p)}
	doc.Unit, _ = p.Unit()
	vals, err := p.Values()
	if err != nil {
		return doc, err
	}
	if len(vals) == 0 {
		return doc, nil
	}
	doc.DataType = p.DataType().String()
	hasUncertainty := false
	for _, v := range vals {
		doc.Values = append(doc.Values, v.Interface())
		doc.Uncertainties = append(doc.Uncertainties, v.Uncertainty)
		hasUncertainty = hasUncertainty || v.Uncertainty != 0
	}
	if !hasUncertainty {
		doc.Uncertainties = nil
	}
	return doc, nil
}
