package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word-wrap width for terminal rendering.
const DefaultWidth = 100

// Render converts Markdown to styled terminal output. style is one of
// auto, dark, light or notty.
func Render(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	styleOpt := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
