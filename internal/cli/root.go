package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoprint/pkg/buildinfo"
	"github.com/matzehuels/cargoprint/pkg/errors"
)

// One-line usage strings, printed on any malformed command line.
const (
	rootUsage       = "cargo print <examples|publish|package|directory|graph> [ARGS]..."
	examplesUsage   = "cargo print examples [--no-default-features] [--features <FEATURES>]... [--all-features]"
	publishUsage    = "cargo print publish"
	packageUsage    = "cargo print package"
	directoryUsage  = "cargo print directory <PACKAGE>"
	graphUsage      = "cargo print graph [--format dot|svg|json] [--detailed]"
	completionUsage = "cargo-print completion <bash|zsh|fish|powershell>"
)

// usageLines maps a subcommand name to its usage string.
var usageLines = map[string]string{
	"examples":   examplesUsage,
	"publish":    publishUsage,
	"package":    packageUsage,
	"directory":  directoryUsage,
	"graph":      graphUsage,
	"completion": completionUsage,
}

// usageLine returns the usage string for cmd, falling back to the root
// usage for commands without one of their own.
func usageLine(cmd *cobra.Command) string {
	if line, ok := usageLines[cmd.Name()]; ok {
		return line
	}
	return rootUsage
}

// usageError builds a usage error for cmd.
func usageError(cmd *cobra.Command, reason string) error {
	return errors.Usage(usageLine(cmd), reason)
}

// noArgs rejects positional arguments with a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(cmd, fmt.Sprintf("unexpected argument %q", args[0]))
	}
	return nil
}

// exactArgs requires n positional arguments, reporting a usage error otherwise.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(cmd, fmt.Sprintf("expected %d argument(s), got %d", n, len(args)))
		}
		return nil
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Print information about a Cargo package in a shell-friendly format",
		Long: `cargo-print answers questions about the Cargo package or workspace in the
current directory, one item per line, for use in shell scripts.

Examples:
  cargo print examples --features "std serde"   # examples buildable with these features
  cargo print publish                           # workspace members in publish order
  cargo print package                           # name of the package in this directory
  cargo print directory my-crate                # directory of a workspace member`,
		Version:       buildinfo.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if c.Provider == nil && !slices.Contains(providers, c.providerName) {
				return usageError(cmd, fmt.Sprintf("unknown provider %q (want %s)", c.providerName, strings.Join(providers, " or ")))
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.Usage(rootUsage, "missing subcommand")
			}
			return errors.Usage(rootUsage, fmt.Sprintf("unknown subcommand %q", args[0]))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, err.Error())
	})
	root.CompletionOptions.DisableDefaultCmd = true

	// Help output would mix prose into stdout; both the help command and the
	// -h/--help flags are reported as usage errors instead.
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) { c.helpFor = cmd })
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageError(cmd, "help is not available")
		},
	})

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.providerName, "provider", defaultProvider, "metadata source: cargo or manifest")
	_ = root.RegisterFlagCompletionFunc("provider", cobra.FixedCompletions(providers, cobra.ShellCompDirectiveNoFileComp))

	// Register all subcommands
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.packageCommand())
	root.AddCommand(c.directoryCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command line args (without the program name). A leading
// "print" token, as inserted by Cargo, is dropped first.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	args = trimInvocation(args)
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	root.SetArgs(args)

	c.helpFor = nil
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.helpFor != nil {
		return usageError(c.helpFor, "help is not available")
	}
	return nil
}

// trimInvocation drops the routing token Cargo passes to external subcommands.
func trimInvocation(args []string) []string {
	if len(args) > 0 && args[0] == invocationToken {
		return args[1:]
	}
	return args
}
