// Package markdown renders markdown listings for the terminal.
package markdown

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Style names accepted by New besides the glamour standard styles.
const (
	StyleAuto  = "auto"
	StyleNoTTY = styles.NoTTYStyle
)

// Renderer wraps glamour with the margins and word wrap of hilite listings.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer wrapping at width. style is "auto" to follow the
// terminal background, or a glamour standard style such as "dark" or
// "notty".
func New(width int, style string) (*Renderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != StyleAuto {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
