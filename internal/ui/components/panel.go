package components

import (
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked panels so
// they visually align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border card at the given content width.
func Panel(title, content string, cw int) string {
	body := content
	if title != "" {
		body = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title) + "\n\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 2).
		Render(body)
}
