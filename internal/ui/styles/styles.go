// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/token"
)

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Semantic color names - Border
	BorderFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Semantic color names - Status
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Inline error text
	ErrorTextStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Key hints
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(TextSecondaryColor).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)

// Chrome holds the colors of the pager frame, taken from a syntax theme so
// the frame matches the highlighted text.
type Chrome struct {
	Text   lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Accent lipgloss.TerminalColor
	Base   lipgloss.TerminalColor
}

// ChromeFor derives frame colors from t, keeping the adaptive defaults for
// any role the theme leaves unstyled.
func ChromeFor(t *theme.Theme) Chrome {
	c := Chrome{
		Text:   TextPrimaryColor,
		Muted:  TextMutedColor,
		Accent: BorderFocusColor,
		Base:   lipgloss.NoColor{},
	}
	if t == nil {
		return c
	}
	text := t.Style(token.Text)
	if text.FGSet {
		c.Text = lipgloss.Color(text.FG.Hex())
	}
	if text.BGSet {
		c.Base = lipgloss.Color(text.BG.Hex())
	}
	if s := t.Style(token.Comment); s.FGSet {
		c.Muted = lipgloss.Color(s.FG.Hex())
	}
	if s := t.Style(token.Keyword); s.FGSet {
		c.Accent = lipgloss.Color(s.FG.Hex())
	}
	return c
}

// LevelColor returns the color of a log entry tagged with level.
func LevelColor(level string) lipgloss.TerminalColor {
	switch level {
	case "ERROR":
		return StatusErrorColor
	case "WARN":
		return StatusWarningColor
	case "INFO":
		return StatusInfoColor
	default:
		return TextMutedColor
	}
}
