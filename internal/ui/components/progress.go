package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/ui/theme"
)

// ProgressBar renders "label  ████░░░░  42%" within Width columns.
type ProgressBar struct {
	Label string
	// Percent is the filled fraction; values outside [0,1] are clamped.
	Percent float64
	Width   int
	// Graded colors the fill by accuracy band instead of the accent color.
	Graded bool
}

func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Width: width}
}

// Scored returns a copy whose fill color reflects the score band.
func (p ProgressBar) Scored() ProgressBar {
	p.Graded = true
	return p
}

func (p ProgressBar) View() string {
	pct := min(1, max(0, p.Percent))
	whole := int(pct*100 + 0.5)

	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}
	suffix := fmt.Sprintf("  %3d%%", whole)

	barWidth := max(4, p.Width-lipgloss.Width(b.String())-len(suffix))
	filled := int(float64(barWidth) * pct)

	fill := theme.Secondary
	if p.Graded {
		fill = BandColor(whole)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	return b.String()
}

// BandColor maps an accuracy percentage to success, warning or error.
func BandColor(pct int) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 60:
		return theme.Warning
	default:
		return theme.Error
	}
}
