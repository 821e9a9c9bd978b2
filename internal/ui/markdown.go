package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown prints md to stdout, styled for the terminal when possible.
func RenderMarkdown(md string) {
	fmt.Fprint(os.Stdout, Markdown(md))
}

// Markdown returns md rendered for the terminal, or md unchanged if
// rendering fails.
func Markdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md + "\n"
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}
