// Package cli implements the cargo-print command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoprint/pkg/errors"
	"github.com/matzehuels/cargoprint/pkg/metadata"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the binary name; Cargo finds it as the "print" subcommand.
	appName = "cargo-print"

	// invocationToken is the argument Cargo inserts when running
	// `cargo print ...` as `cargo-print print ...`.
	invocationToken = "print"

	providerCargo    = "cargo"
	providerManifest = "manifest"

	defaultProvider = providerCargo
)

// providers lists the accepted --provider values.
var providers = []string{providerCargo, providerManifest}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer

	// Provider, when set, replaces the provider chosen with --provider.
	Provider metadata.Provider

	// WorkDir is the directory commands run against. Empty means the
	// process working directory.
	WorkDir string

	providerName string
	verbose      bool

	// helpFor records the command whose help was requested during Execute.
	helpFor *cobra.Command
}

// New creates a new CLI instance writing results to stdout and logs and
// errors to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:       newLogger(stderr, level),
		Stdout:       stdout,
		Stderr:       stderr,
		providerName: defaultProvider,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Snapshot Acquisition
// =============================================================================

// provider returns the metadata provider for this invocation.
func (c *CLI) provider() (metadata.Provider, error) {
	if c.Provider != nil {
		return c.Provider, nil
	}
	switch c.providerName {
	case providerCargo:
		return metadata.NewCargo(), nil
	case providerManifest:
		return metadata.NewManifest(), nil
	}
	return nil, errors.Usage(rootUsage, fmt.Sprintf("unknown provider %q", c.providerName))
}

func (c *CLI) workDir() (string, error) {
	if c.WorkDir != "" {
		return c.WorkDir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "determine working directory")
	}
	return dir, nil
}

// loadSnapshot asks the provider to describe the working directory. It
// returns the snapshot together with the directory it describes.
func (c *CLI) loadSnapshot(ctx context.Context, sel metadata.FeatureSelection) (*metadata.Snapshot, string, error) {
	logger := loggerFromContext(ctx)

	dir, err := c.workDir()
	if err != nil {
		return nil, "", err
	}
	p, err := c.provider()
	if err != nil {
		return nil, "", err
	}

	logger.Debug("Loading metadata", "provider", p.Name(), "dir", dir)
	prog := newProgress(logger)
	snap, err := p.Load(ctx, dir, sel)
	if err != nil {
		return nil, "", err
	}
	prog.done(fmt.Sprintf("Loaded %d packages (%d workspace members)", len(snap.Packages), len(snap.WorkspaceMembers)))
	return snap, dir, nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// printLines writes each item on its own LF-terminated line.
func (c *CLI) printLines(items []string) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(c.Stdout, item); err != nil {
			return err
		}
	}
	return nil
}

// memberNames lists workspace member names for shell completion.
func (c *CLI) memberNames(ctx context.Context) []string {
	snap, _, err := c.loadSnapshot(ctx, metadata.FeatureSelection{})
	if err != nil {
		loggerFromContext(ctx).Debug("Completion unavailable", "err", err)
		return nil
	}
	var names []string
	for _, p := range snap.Members() {
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return names
}

// completeMembers is a cobra.CompletionFunc offering workspace member names.
func (c *CLI) completeMembers(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.memberNames(cmd.Context()), cobra.ShellCompDirectiveNoFileComp
}
