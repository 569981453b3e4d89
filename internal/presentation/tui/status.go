// Package tui prints human facing output for the citrine command.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Printer writes colored status lines. Colors degrade to plain text when the
// profile is termenv.Ascii.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
}

// NewPrinter creates a printer for w using the color profile of the terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithProfile(w, termenv.ColorProfile())
}

func NewPrinterWithProfile(w io.Writer, p termenv.Profile) *Printer {
	return &Printer{w: w, profile: p}
}

func (p *Printer) Profile() termenv.Profile { return p.profile }

// Success prints a green check line.
func (p *Printer) Success(format string, args ...any) {
	p.line("✔", "#22c55e", format, args...)
}

// Failure prints a red cross line.
func (p *Printer) Failure(format string, args ...any) {
	p.line("✘", "#ef4444", format, args...)
}

func (p *Printer) line(mark, color, format string, args ...any) {
	s := termenv.String(mark + " " + fmt.Sprintf(format, args...)).Foreground(p.profile.Color(color))
	fmt.Fprintln(p.w, s)
}
