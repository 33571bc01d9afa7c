package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	keywordStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"})
	paragraphStyle = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2)
)

// keyword renders a highlighted word for help copy.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph formats help copy, wrapped to the terminal when it is narrower
// than the default width.
func paragraph(s string) string {
	style := paragraphStyle
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < 80 {
		style = style.Width(w - 2)
	}
	return style.Render(s)
}
