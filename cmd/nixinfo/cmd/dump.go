package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-nix/nix"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

type dumpOpts struct {
	output   string
	withData bool
}

var exampleForDumpCmd = `  nixinfo dump session.nix
  nixinfo dump session.nix --output json --data
`

// NewDumpCmd writes the whole entity graph as YAML or JSON.
func NewDumpCmd(opts *rootOpts) *cobra.Command {
	do := &dumpOpts{}
	dumpCmd := &cobra.Command{
		Use:     "dump FILE",
		Short:   "dump the entity graph as yaml or json",
		Example: exampleForDumpCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if do.output != outputYAML && do.output != outputJSON {
				return fmt.Errorf("unknown output format %q", do.output)
			}
			return withSession(cmd.Context(), args[0], opts, func(f *nix.File) error {
				doc, err := buildFile(f, buildOptions{withData: do.withData})
				if err != nil {
					return err
				}
				return writeDoc(cmd.OutOrStdout(), doc, do.output)
			})
		},
	}
	dumpCmd.Flags().StringVarP(&do.output, "output", "o", outputYAML, "output format, yaml or json")
	dumpCmd.Flags().BoolVar(&do.withData, "data", false, "include calibrated data values")
	return dumpCmd
}

func writeDoc(w io.Writer, doc fileDoc, format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case outputJSON:
		out, err = json.MarshalIndent(doc, "", "  ")
		out = append(out, '\n')
	default:
		out, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}
