package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-nix/nix"
)

const (
	kindSource  = "source"
	kindSection = "section"
	kindBlock   = "block"
)

type findOpts struct {
	kind   string
	filter string
	depth  int
}

var exampleForFindCmd = `  nixinfo find session.nix --kind source --filter 'Type == "electrode"'
  nixinfo find session.nix --kind section --depth 1
`

// NewFindCmd searches sources, sections or blocks breadth-first.
func NewFindCmd(opts *rootOpts) *cobra.Command {
	fo := &findOpts{}
	findCmd := &cobra.Command{
		Use:     "find FILE",
		Short:   "search entities with a filter expression",
		Example: exampleForFindCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMatcher(fo.filter)
			if err != nil {
				return err
			}
			depth := fo.depth
			if depth < 0 {
				depth = nix.Unbounded
			}
			return withSession(cmd.Context(), args[0], opts, func(f *nix.File) error {
				rows, err := findRows(f, fo.kind, m, depth)
				if err != nil {
					return err
				}
				logrus.Debugf("find %s: %d matches", fo.kind, len(rows))
				renderRows(cmd.OutOrStdout(), rows)
				return nil
			})
		},
	}
	findCmd.Flags().StringVar(&fo.kind, "kind", kindSource, fmt.Sprintf("entity kind, one of %v", []string{kindSource, kindSection, kindBlock}))
	findCmd.Flags().StringVar(&fo.filter, "filter", "", "boolean expression over ID, Name, Type and Definition")
	findCmd.Flags().IntVar(&fo.depth, "depth", -1, "maximum search depth, negative for unbounded")
	return findCmd
}

// findRows runs the search and returns one table row per match.
func findRows(f *nix.File, kind string, m *matcher, depth int) ([][]string, error) {
	var rows [][]string
	switch kind {
	case kindSource:
		blocks, err := f.Blocks(nil)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			found, err := b.FindSources(func(s nix.Source) bool { return m.match(s) }, depth)
			if err != nil {
				return nil, err
			}
			for _, s := range found {
				rows = append(rows, row(s, b.Name()))
			}
		}
	case kindSection:
		found, err := f.FindSections(func(s nix.Section) bool { return m.match(s) }, depth)
		if err != nil {
			return nil, err
		}
		for _, s := range found {
			rows = append(rows, row(s, ""))
		}
	case kindBlock:
		found, err := f.Blocks(func(b nix.Block) bool { return m.match(b) })
		if err != nil {
			return nil, err
		}
		for _, b := range found {
			rows = append(rows, row(b, ""))
		}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if err := m.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func row(e namedEntity, block string) []string {
	def, _ := e.Definition()
	return []string{e.ID(), e.Name(), e.Type(), block, def}
}

func renderRows(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"id", "name", "type", "block", "definition"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}
