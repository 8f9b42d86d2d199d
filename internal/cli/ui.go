package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cargoprint/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorRed  = lipgloss.Color("167") // Soft red - errors
	colorBlue = lipgloss.Color("75")  // Light blue - commands
	colorDim  = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconError = "✗"
)

// =============================================================================
// Error Output
// =============================================================================

// errorPrinter writes styled diagnostics to stderr. Styles are bound to a
// renderer for the destination so colors are dropped when it is not a
// terminal.
type errorPrinter struct {
	w       io.Writer
	icon    lipgloss.Style
	dim     lipgloss.Style
	command lipgloss.Style
}

func newErrorPrinter(w io.Writer) *errorPrinter {
	r := lipgloss.NewRenderer(w)
	return &errorPrinter{
		w:       w,
		icon:    r.NewStyle().Foreground(colorRed),
		dim:     r.NewStyle().Foreground(colorDim),
		command: r.NewStyle().Foreground(colorBlue),
	}
}

// printUsage prints the one-line usage string.
func (p *errorPrinter) printUsage(line string) {
	fmt.Fprintln(p.w, p.dim.Render("usage:")+" "+p.command.Render(line))
}

// printError prints an error message.
func (p *errorPrinter) printError(msg string) {
	fmt.Fprintln(p.w, p.icon.Render(iconError)+" "+msg)
}

// ReportError prints err to the CLI's stderr the way users should see it:
// usage errors as the usage line of the intended command, everything else
// as its message. The usage reason is only logged at debug level.
func (c *CLI) ReportError(err error) {
	p := newErrorPrinter(c.Stderr)
	c.Logger.Debug("Command failed", "code", errors.GetCode(err))

	if ue, ok := errors.AsUsage(err); ok {
		if ue.Reason != "" {
			c.Logger.Debug("Invalid command line", "reason", ue.Reason)
		}
		p.printUsage(ue.Line)
		return
	}
	p.printError(errors.UserMessage(err))
}
