package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPanel renders content in a rounded box of the given outer size with
// title embedded in the top border: ╭─ Title ─────╮
// The border takes the accent color of c when focused, its muted color
// otherwise.
func RenderPanel(content, title string, width, height int, c Chrome, focused bool) string {
	borderColor := c.Muted
	if focused {
		borderColor = c.Accent
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(c.Text).Bold(focused)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	lines := strings.Split(content, "\n")
	body := make([]string, contentHeight)
	for i := range body {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], innerWidth, "")
		}
		if w := ansi.StringWidth(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		body[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var b strings.Builder
	b.WriteString(topBorder(title, innerWidth, borderStyle, titleStyle))
	b.WriteString("\n")
	b.WriteString(strings.Join(body, "\n"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// topBorder needs at least four columns around the title ("─ " and " ─");
// narrower borders drop the title.
func topBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if title == "" || innerWidth < 5 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}
	title = ansi.Truncate(title, innerWidth-4, "...")
	rest := max(innerWidth-3-ansi.StringWidth(title), 0)
	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, rest)+borderTopRight)
}
