// Package style decorates status lines with lipgloss when the output is a
// terminal. Report tables are never passed through here.
package style

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Colour modes accepted by New.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

var (
	colorAccent = lipgloss.Color("#59c2ff")
	colorFail   = lipgloss.Color("#f07178")
)

// Styler renders headings and errors for a single writer.
type Styler struct {
	heading lipgloss.Style
	fail    lipgloss.Style
}

// New returns a Styler for w. In auto mode colour is used only when w is a
// terminal and NO_COLOR is unset. An unknown mode behaves like auto.
func New(w io.Writer, mode string) *Styler {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ModeNever:
		r.SetColorProfile(termenv.Ascii)
	case ModeAlways:
		r.SetColorProfile(termenv.ANSI256)
	default:
		if !IsTerminal(w) || os.Getenv("NO_COLOR") != "" {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return &Styler{
		heading: r.NewStyle().Foreground(colorAccent).Bold(true),
		fail:    r.NewStyle().Foreground(colorFail).Bold(true),
	}
}

// Heading styles a single-line status message.
func (s *Styler) Heading(msg string) string {
	return s.heading.Render(msg)
}

// Fail styles an error line.
func (s *Styler) Fail(msg string) string {
	return s.fail.Render(msg)
}

// Failf formats and styles an error line.
func (s *Styler) Failf(format string, args ...any) string {
	return s.Fail(fmt.Sprintf(format, args...))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
