package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoprint/pkg/examples"
	"github.com/matzehuels/cargoprint/pkg/features"
	"github.com/matzehuels/cargoprint/pkg/lookup"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// examplesOpts holds the feature selection flags of the examples command.
type examplesOpts struct {
	noDefaultFeatures bool
	features          []string // raw --features values, split later
	allFeatures       bool
}

// request converts the flags into a feature resolution request.
func (o *examplesOpts) request() features.Request {
	return features.Request{
		Features:          features.SplitList(o.features),
		NoDefaultFeatures: o.noDefaultFeatures,
		AllFeatures:       o.allFeatures,
	}
}

// selection converts the flags into the hint passed to the provider.
func (o *examplesOpts) selection() metadata.FeatureSelection {
	return metadata.FeatureSelection{
		NoDefaultFeatures: o.noDefaultFeatures,
		Features:          features.SplitList(o.features),
		AllFeatures:       o.allFeatures,
	}
}

// examplesCommand creates the examples command.
func (c *CLI) examplesCommand() *cobra.Command {
	var opts examplesOpts

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Print the examples buildable with the selected features",
		Long: `Print the example targets of the package in the current directory whose
required features are all enabled by the given feature selection.

--features takes a space-separated list and may be repeated.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExamples(cmd.Context(), &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noDefaultFeatures, "no-default-features", false, "do not enable the default feature")
	cmd.Flags().StringArrayVar(&opts.features, "features", nil, "space-separated list of features to enable")
	cmd.Flags().BoolVar(&opts.allFeatures, "all-features", false, "enable every feature of the package")

	return cmd
}

func (c *CLI) runExamples(ctx context.Context, opts *examplesOpts) error {
	logger := loggerFromContext(ctx)

	snap, dir, err := c.loadSnapshot(ctx, opts.selection())
	if err != nil {
		return err
	}
	pkg, err := lookup.ByManifest(snap, dir)
	if err != nil {
		return err
	}

	enabled, err := features.Resolve(pkg, opts.request())
	if err != nil {
		return err
	}
	logger.Debug("Resolved features", "package", pkg.Name, "enabled", len(enabled))

	names := examples.Select(pkg, enabled)
	logger.Debug("Selected examples", "count", len(names))
	return c.printLines(names)
}
