package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Warning: lipgloss.Color("#ffb86c"),
	Error:   lipgloss.Color("#ff5555"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Success: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Dim:     lipgloss.NewStyle().Foreground(t.Dim),
	}
}

var styles = NewStyles(DefaultTheme)

// Field is one labeled line of a summary block.
type Field struct {
	Label string
	Value string
}

// RenderFields renders fields as aligned "label  value" lines.
func RenderFields(s Styles, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		pad := strings.Repeat(" ", width-lipgloss.Width(f.Label))
		lines = append(lines, "  "+s.Label.Render(f.Label)+pad+"  "+f.Value)
	}
	return strings.Join(lines, "\n")
}

// PrintFields writes fields to stderr.
func PrintFields(fields ...Field) {
	fmt.Fprintln(os.Stderr, RenderFields(styles, fields))
}

// Print helpers for terminal output. Status lines go to stderr so that
// stdout stays clean for structured output.

// PrintSuccess prints a success message with checkmark
func PrintSuccess(format string, args ...any) {
	printStyled(os.Stderr, styles.Success, "✓ ", format, args...)
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...any) {
	printStyled(os.Stderr, styles.Error, "Error: ", format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	printStyled(os.Stderr, styles.Dim, "ℹ ", format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	printStyled(os.Stderr, styles.Warning, "⚠ ", format, args...)
}

func printStyled(w io.Writer, s lipgloss.Style, prefix, format string, args ...any) {
	fmt.Fprintln(w, s.Render(prefix)+fmt.Sprintf(format, args...))
}
