package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoprint/pkg/dag"
	"github.com/matzehuels/cargoprint/pkg/errors"
	pkgio "github.com/matzehuels/cargoprint/pkg/io"
	"github.com/matzehuels/cargoprint/pkg/metadata"
	"github.com/matzehuels/cargoprint/pkg/publish"
	"github.com/matzehuels/cargoprint/pkg/render/dot"
)

// Graph output formats.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

var graphFormats = []string{formatDOT, formatSVG, formatJSON}

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format   string
	detailed bool // include metadata and edge counts in DOT labels
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the workspace dependency graph as DOT, SVG or JSON",
		Long: `Print the dependencies between workspace members. Edges point from a
package to the package it depends on; in DOT and SVG output dev and build
dependencies are drawn dashed.

Examples:
  cargo print graph | dot -Tpng > workspace.png
  cargo print graph --format svg > workspace.svg
  cargo print graph --format json | jq '.edges[]'`,
		Args: noArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatDOT, formatSVG, formatJSON:
				return nil
			}
			return usageError(cmd, fmt.Sprintf("unknown format %q", opts.format))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg or json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include package metadata in node labels")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(graphFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	snap, _, err := c.loadSnapshot(ctx, metadata.FeatureSelection{})
	if err != nil {
		return err
	}
	g, err := publish.Graph(snap)
	if err != nil {
		return err
	}
	logger.Debug("Built workspace graph", "members", g.NodeCount(), "edges", g.EdgeCount(),
		"roots", dag.NodeIDs(g.Sources()), "format", opts.format)

	if opts.format == formatJSON {
		return pkgio.WriteJSON(g, c.Stdout)
	}

	text := dot.ToDOT(g, dot.Options{Detailed: opts.detailed})
	if opts.format == formatDOT {
		_, err := c.Stdout.Write([]byte(text))
		return err
	}

	prog := newProgress(logger)
	svg, err := dot.RenderSVG(ctx, text)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render workspace graph")
	}
	prog.done("Rendered SVG")
	_, err = c.Stdout.Write(svg)
	return err
}
