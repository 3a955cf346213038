package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rounded border characters.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// TitleBorder renders content inside a rounded border with the title
// embedded in the top edge: ╭─ Title ─────╮. The border uses the highlight
// color when focused.
func TitleBorder(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = HighlightColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TitleColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	top := topBorder(title, innerWidth, borderStyle, titleStyle)
	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	constrained := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight).Render(content)
	lines := strings.Split(constrained, "\n")

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("\n")
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		sb.WriteString(borderStyle.Render(borderVertical))
		sb.WriteString(line)
		sb.WriteString(borderStyle.Render(borderVertical))
		sb.WriteString("\n")
	}
	sb.WriteString(bottom)
	return sb.String()
}

func topBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)

	// "─ " + title + " " + trailing dashes; skip the title when the panel
	// is too narrow to show any of it.
	if title == "" || innerWidth < 4 {
		return plain
	}

	available := innerWidth - 4
	if lipgloss.Width(title) > available {
		title = truncate(title, available)
	}

	trailing := max(innerWidth-3-lipgloss.Width(title), 0)
	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, trailing)+borderTopRight)
}

func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
