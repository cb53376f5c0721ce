// Package render formats assistant output for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// Prompt styles the REPL input prompt.
func Prompt(user string) string {
	return promptStyle.Render(user+" >") + " "
}

// Error styles an error line.
func Error(text string) string {
	return errorStyle.Render(text)
}

// Notice styles a low-emphasis status line.
func Notice(text string) string {
	return noticeStyle.Render(text)
}

// Markdown renders assistant markdown for the terminal. On any renderer
// failure the raw text is returned unchanged.
func Markdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
