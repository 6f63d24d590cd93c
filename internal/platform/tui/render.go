package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bounce/internal/core"
)

// colorStyles maps core.Color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:  lipgloss.NewStyle(),
	core.ColorBall:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorOffField: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorFrame:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorGround:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorStatus:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorGauge:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorTrail:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorImpact:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorBanner:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
