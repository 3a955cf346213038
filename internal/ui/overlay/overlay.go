// Package overlay renders foreground content on top of a background view
// without clearing the screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	Center Position = iota
	Top
	Bottom
)

// Config controls overlay placement.
type Config struct {
	Width    int // viewport width
	Height   int // viewport height
	Position Position
	PadY     int // vertical padding from edge, for Top/Bottom
}

// Place renders fg on top of bg using ANSI-aware string surgery so styling
// in both layers survives.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := position(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}

		bgLine := bgLines[bgY]
		fgWidth := ansi.StringWidth(fgLine)

		left := ansi.Truncate(bgLine, startX, "")
		if w := ansi.StringWidth(left); w < startX {
			left += strings.Repeat(" ", startX-w)
		}

		var right string
		if endX := startX + fgWidth; endX < ansi.StringWidth(bgLine) {
			right = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = left + fgLine + right
	}

	return strings.Join(bgLines, "\n")
}

func position(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = max((cfg.Width-fgWidth)/2, 0)
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}
	return x, max(y, 0)
}
