package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoprint/pkg/metadata"
	"github.com/matzehuels/cargoprint/pkg/publish"
)

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Print workspace members in an order they can be published",
		Long: `Print every workspace member so that each one appears after all the
workspace members it depends on. Ties are broken by name.

Members are printed as soon as they are known; if the workspace contains a
dependency cycle the command fails after the members printed so far.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPublish(cmd.Context())
		},
	}
}

func (c *CLI) runPublish(ctx context.Context) error {
	logger := loggerFromContext(ctx)

	snap, _, err := c.loadSnapshot(ctx, metadata.FeatureSelection{})
	if err != nil {
		return err
	}
	g, err := publish.Graph(snap)
	if err != nil {
		return err
	}
	logger.Debug("Built workspace graph", "members", g.NodeCount(), "edges", g.EdgeCount())

	step := 0
	return publish.Plan(g, func(name string) error {
		step++
		logger.Debug("Ready to publish", "step", step, "package", name)
		_, err := fmt.Fprintln(c.Stdout, name)
		return err
	})
}
