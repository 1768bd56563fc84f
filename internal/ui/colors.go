package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme names the colors the TUI draws with.
type Theme struct {
	Accent  lipgloss.Color // headings
	Success lipgloss.Color
	Failure lipgloss.Color
	Notice  lipgloss.Color // status lines and per-song seed failures
	Muted   lipgloss.Color // key help
}

// DefaultTheme uses YouTube red for headings.
var DefaultTheme = Theme{
	Accent:  "#FF0033",
	Success: "#04B575",
	Failure: "#FF0000",
	Notice:  "#FFA500",
	Muted:   "#626262",
}

var styles = NewPalette(DefaultTheme)

// Palette holds the rendered styles derived from a [Theme].
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t Theme) *Palette {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return &Palette{
		title: fg(t.Accent).Bold(true).MarginBottom(1),
		ok:    fg(t.Success).Bold(true),
		err:   fg(t.Failure).Bold(true),
		warn:  fg(t.Notice),
		help:  fg(t.Muted).Italic(true),
	}
}
