package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"cap-customizer/preset"
)

// namedColors covers the colour names the front end accepts for letters.
var namedColors = map[string]string{
	"white":  "#ffffff",
	"black":  "#000000",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"gray":   "#808080",
	"grey":   "#808080",
}

var (
	nameStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E4A9E")).Bold(true)
)

// hexColor resolves a hex string or a known colour name to #rrggbb.
func hexColor(s string) (string, bool) {
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		return hex, true
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

// swatch draws the cap letter on the cap colour.
func swatch(c preset.Cap) string {
	st := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if bg, ok := hexColor(c.Color); ok {
		st = st.Background(lipgloss.Color(bg))
	}
	if fg, ok := hexColor(c.LetterColor); ok {
		st = st.Foreground(lipgloss.Color(fg))
	}
	return st.Render(c.Letter)
}

func renderCap(c preset.Cap, selected bool) string {
	marker := "  "
	if selected {
		marker = selectedStyle.Render("* ")
	}
	return fmt.Sprintf("%s%s %s %s", marker, swatch(c), nameStyle.Render(c.Name),
		dimStyle.Render(fmt.Sprintf("(%s, %s, %s)", c.ID, c.Color, c.Playlist)))
}
