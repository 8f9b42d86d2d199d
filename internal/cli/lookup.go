package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoprint/pkg/lookup"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// packageCommand creates the package command.
func (c *CLI) packageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "package",
		Short: "Print the name of the package in the current directory",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPackage(cmd.Context())
		},
	}
}

// directoryCommand creates the directory command.
func (c *CLI) directoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "directory <package>",
		Short:             "Print the directory of a workspace package",
		Args:              exactArgs(1),
		ValidArgsFunction: c.completeMembers,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDirectory(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runPackage(ctx context.Context) error {
	snap, dir, err := c.loadSnapshot(ctx, metadata.FeatureSelection{})
	if err != nil {
		return err
	}
	pkg, err := lookup.ByManifest(snap, dir)
	if err != nil {
		return err
	}
	return c.printLines([]string{pkg.Name})
}

func (c *CLI) runDirectory(ctx context.Context, name string) error {
	snap, _, err := c.loadSnapshot(ctx, metadata.FeatureSelection{})
	if err != nil {
		return err
	}
	dir, err := lookup.Directory(snap, name)
	if err != nil {
		return err
	}
	return c.printLines([]string{dir})
}
