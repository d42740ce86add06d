// Package ui prints status messages, change summaries and diffs for the
// console. Color is used only when the destination is a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Printer writes colored console output to one destination.
type Printer struct {
	out io.Writer

	red    *color.Color
	green  *color.Color
	yellow *color.Color
	blue   *color.Color
	cyan   *color.Color
	bold   *color.Color
}

// New returns a Printer for out. Color is enabled when out is a terminal
// and NO_COLOR is not set.
func New(out io.Writer) *Printer {
	return NewWithColor(out, isTerminal(out) && !color.NoColor)
}

// NewWithColor returns a Printer with color forced on or off.
func NewWithColor(out io.Writer, enabled bool) *Printer {
	p := &Printer{
		out:    out,
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		blue:   color.New(color.FgBlue),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.red, p.green, p.yellow, p.blue, p.cyan, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Success prints a green message with a checkmark.
func (p *Printer) Success(format string, args ...any) {
	p.green.Fprintf(p.out, "✓ "+format+"\n", args...)
}

// Error prints a red message with an X.
func (p *Printer) Error(format string, args ...any) {
	p.red.Fprintf(p.out, "✗ "+format+"\n", args...)
}

// Warning prints a yellow message.
func (p *Printer) Warning(format string, args ...any) {
	p.yellow.Fprintf(p.out, "⚠ "+format+"\n", args...)
}

// Info prints a blue message.
func (p *Printer) Info(format string, args ...any) {
	p.blue.Fprintf(p.out, format+"\n", args...)
}

// Header prints a bold line.
func (p *Printer) Header(format string, args ...any) {
	p.bold.Fprintf(p.out, format+"\n", args...)
}

// Document prints the separator shown before a rendered document.
func (p *Printer) Document(path string) {
	p.cyan.Fprintf(p.out, "--- %s ---\n", path)
}

// Change prints one line of a write summary.
func (p *Printer) Change(status, path string) {
	c := p.blue
	switch status {
	case "created":
		c = p.green
	case "updated":
		c = p.yellow
	case "removed":
		c = p.red
	}
	c.Fprintf(p.out, "  %-9s", status)
	fmt.Fprintf(p.out, " %s\n", path)
}

// Diff prints a unified diff with added and removed lines colored.
func (p *Printer) Diff(diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			p.bold.Fprint(p.out, line)
		case strings.HasPrefix(line, "@@"):
			p.cyan.Fprint(p.out, line)
		case strings.HasPrefix(line, "+"):
			p.green.Fprint(p.out, line)
		case strings.HasPrefix(line, "-"):
			p.red.Fprint(p.out, line)
		default:
			fmt.Fprint(p.out, line)
		}
	}
}
