package ui

import "github.com/charmbracelet/lipgloss"

// Palette groups the [lipgloss.Style] values shared by the TUI views.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// styles is the package stylesheet. Success renders in Spotify's brand green.
var styles = Palette{
	title: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).MarginBottom(1),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954")).Bold(true),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
}
