// Package ui renders CLI output for searchkit commands: styled when
// writing to a terminal, plain when piped or when NO_COLOR is set.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette, 256-color codes.
const (
	colorAccent = "39"  // blue accent for headers
	colorGreen  = "42"  // success
	colorYellow = "220" // warnings
	colorRed    = "196" // errors
	colorGray   = "245" // secondary text
)

// Styles holds the text styles used by command output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns the colored style set.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}

// NoColorStyles returns the unstyled set for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// Output writes styled command output.
type Output struct {
	w      io.Writer
	styles Styles
}

// New creates an Output for w, choosing styles from terminal detection and
// the NO_COLOR convention.
func New(w io.Writer) *Output {
	styles := NoColorStyles()
	if isTerminal(w) && !noColor() {
		styles = DefaultStyles()
	}
	return &Output{w: w, styles: styles}
}

// Printf writes formatted plain text.
func (o *Output) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// Header writes a bold section header line.
func (o *Output) Header(text string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Header.Render(text))
}

// Successf writes a success line.
func (o *Output) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warnf writes a warning line.
func (o *Output) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Errorf writes an error line.
func (o *Output) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Dimf writes secondary text.
func (o *Output) Dimf(format string, args ...any) {
	_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render(fmt.Sprintf(format, args...)))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func noColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
