package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-nix/nix"
)

var exampleForTreeCmd = `  nixinfo tree session.nix
`

// NewTreeCmd prints the entity graph as an indented tree.
func NewTreeCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "tree FILE",
		Short:   "print the entity tree of a container",
		Example: exampleForTreeCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), args[0], opts, func(f *nix.File) error {
				doc, err := buildFile(f, buildOptions{})
				if err != nil {
					return err
				}
				printTree(cmd.OutOrStdout(), args[0], doc)
				return nil
			})
		},
	}
}

func printTree(w io.Writer, path string, doc fileDoc) {
	fmt.Fprintf(w, "File %q: format %s, version %s\n", path, doc.Format, doc.Version)
	if doc.CreatedAt != "" {
		fmt.Fprintf(w, "  Created: %s\n", doc.CreatedAt)
	}
	fmt.Fprintf(w, "  Blocks: %d\n", len(doc.Blocks))
	for _, b := range doc.Blocks {
		printBlock(w, "  ", b)
	}
	fmt.Fprintf(w, "  Sections: %d\n", len(doc.Sections))
	for _, s := range doc.Sections {
		printSection(w, "  ", s)
	}
}

func header(kind string, e entityDoc) string {
	s := fmt.Sprintf("%s %q (%s) [%s]", kind, e.Name, e.Type, e.ID)
	if e.Definition != "" {
		s += ": " + e.Definition
	}
	return s
}

func printBlock(w io.Writer, indent string, b blockDoc) {
	fmt.Fprintf(w, "%s%s\n", indent, header("Block", b.entityDoc))
	if b.Metadata != "" {
		fmt.Fprintf(w, "%s  Metadata: %s\n", indent, b.Metadata)
	}
	for _, s := range b.Sources {
		printSource(w, indent+"  ", s)
	}
	for _, da := range b.DataArrays {
		printDataArray(w, indent+"  ", da)
	}
	if len(b.Sources) == 0 && len(b.DataArrays) == 0 {
		fmt.Fprintf(w, "%s  [EMPTY]\n", indent)
	}
}

func printSource(w io.Writer, indent string, s sourceDoc) {
	fmt.Fprintf(w, "%s%s\n", indent, header("Source", s.entityDoc))
	for _, c := range s.Sources {
		printSource(w, indent+"  ", c)
	}
}

func printDataArray(w io.Writer, indent string, da dataArrayDoc) {
	fmt.Fprintf(w, "%s%s\n", indent, header("DataArray", da.entityDoc))
	fmt.Fprintf(w, "%s  Data: %s %s\n", indent, da.DataType, nix.NDSize(da.Extent))
	if da.Unit != "" || da.Label != "" {
		fmt.Fprintf(w, "%s  Label: %s, Unit: %s\n", indent, da.Label, da.Unit)
	}
	if da.PolynomCoefficients != nil || da.ExpansionOrigin != nil {
		origin := 0.0
		if da.ExpansionOrigin != nil {
			origin = *da.ExpansionOrigin
		}
		fmt.Fprintf(w, "%s  Calibration: coefficients %v, origin %g\n", indent, da.PolynomCoefficients, origin)
	}
	if len(da.Sources) > 0 {
		fmt.Fprintf(w, "%s  Sources: %s\n", indent, strings.Join(da.Sources, ", "))
	}
	for _, d := range da.Dimensions {
		fmt.Fprintf(w, "%s  Dimension %d: %s\n", indent, d.Index, describeDimension(d))
	}
}

func describeDimension(d dimensionDoc) string {
	var parts []string
	switch nix.DimensionType(d.Type) {
	case nix.DimensionSample:
		parts = append(parts, fmt.Sprintf("interval %g", d.SamplingInterval))
		if d.Offset != nil {
			parts = append(parts, fmt.Sprintf("offset %g", *d.Offset))
		}
	case nix.DimensionSet:
		if len(d.Labels) > 0 {
			parts = append(parts, "labels "+strings.Join(d.Labels, ", "))
		}
	case nix.DimensionRange:
		parts = append(parts, fmt.Sprintf("%d ticks", len(d.Ticks)))
	}
	if d.Unit != "" {
		parts = append(parts, "unit "+d.Unit)
	}
	if len(parts) == 0 {
		return d.Type
	}
	return d.Type + " (" + strings.Join(parts, ", ") + ")"
}

func printSection(w io.Writer, indent string, s sectionDoc) {
	fmt.Fprintf(w, "%s%s\n", indent, header("Section", s.entityDoc))
	if s.Link != "" {
		fmt.Fprintf(w, "%s  Link: %s\n", indent, s.Link)
	}
	for _, p := range s.Properties {
		fmt.Fprintf(w, "%s  Property %q = %s\n", indent, p.Name, formatValues(p))
	}
	for _, c := range s.Sections {
		printSection(w, indent+"  ", c)
	}
}

func formatValues(p propertyDoc) string {
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = fmt.Sprint(v)
		if i < len(p.Uncertainties) && p.Uncertainties[i] != 0 {
			parts[i] += fmt.Sprintf("±%g", p.Uncertainties[i])
		}
	}
	s := "[" + strings.Join(parts, ", ") + "]"
	if p.Unit != "" {
		s += " " + p.Unit
	}
	return s
}
