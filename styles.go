package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// terminal stand-ins for the bar bitmaps
var previewGlyphs = map[string]string{
	"volm":       "󰝟",
	"vol0":       "󰕿",
	"vol1":       "󰖀",
	"vol2":       "󰕾",
	"vol3":       "󰕾",
	"battery0":   "󰁺",
	"battery1":   "󰁾",
	"battery2":   "󰂀",
	"battery3":   "󰁹",
	"net0":       "󰤯",
	"net1":       "󰤟",
	"net2":       "󰤢",
	"net3":       "󰤨",
	"load0":      "󰻠",
	"load1":      "󰻠",
	"load2":      "󰻠",
	"load3":      "󰻠",
	"cable":      "󰈀",
	"clock":      "󰥔",
	"bar":        "▮",
	"circle":     "○",
	"circle_dot": "◉",
	"dot":        "·",
}

func previewGlyph(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if g, ok := previewGlyphs[name]; ok {
		return g
	}
	return "?"
}

// dzen2 positions are pixels; the preview assumes six pixels per cell.
const previewCellPixels = 6

type previewStyles struct {
	fg   lipgloss.Color
	bg   lipgloss.Color
	base lipgloss.Style
}

func newPreviewStyles(colors Colors) previewStyles {
	fg := lipgloss.Color(colors.Foreground)
	bg := lipgloss.Color(colors.Background)
	return previewStyles{
		fg:   fg,
		bg:   bg,
		base: lipgloss.NewStyle().Foreground(fg).Background(bg),
	}
}

// render draws a token frame as one terminal line of the given width.
// Tokens after ^p(_RIGHT) are pushed to the right edge.
func (p previewStyles) render(tokens []Token, width int) string {
	var left, right []string
	target := &left
	style := p.base

	for _, t := range tokens {
		switch t.Kind {
		case TokenText:
			*target = append(*target, style.Render(t.Value))
		case TokenIcon:
			*target = append(*target, style.Render(previewGlyph(t.Value)))
		case TokenFg:
			if t.Value == "" {
				style = style.Foreground(p.fg)
			} else {
				style = style.Foreground(lipgloss.Color(t.Value))
			}
		case TokenBg:
			if t.Value == "" {
				style = style.Background(p.bg)
			} else {
				style = style.Background(lipgloss.Color(t.Value))
			}
		case TokenPosition:
			if t.Value == "_RIGHT" {
				target = &right
				continue
			}
			if n, err := strconv.Atoi(t.Value); err == nil && n > 0 {
				*target = append(*target, p.base.Render(strings.Repeat(" ", max(n/previewCellPixels, 1))))
			}
		}
	}

	leftBar := lipgloss.JoinHorizontal(lipgloss.Top, left...)
	rightBar := lipgloss.JoinHorizontal(lipgloss.Top, right...)
	gap := width - lipgloss.Width(leftBar) - lipgloss.Width(rightBar)
	if gap < 0 {
		gap = 0
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftBar,
		p.base.Render(strings.Repeat(" ", gap)),
		rightBar,
	)
}
