// Package layout renders the frame shared by every screen: a header with the
// student's headline numbers, the screen body, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// HintsFor converts enabled key bindings into footer hints.
func HintsFor(bindings ...key.Binding) []KeyHint {
	hints := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small\n\nNeed at least %d x %d\nCurrent size %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// Status is the right-hand side of the header.
type Status struct {
	OverallProgress int
	EstimatedScore  int
	HasEstimate     bool
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func RenderHeader(title string, status Status, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Actualize")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	estimate := "--"
	if status.HasEstimate {
		estimate = fmt.Sprintf("%d", status.EstimatedScore)
	}
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render("Est. "+estimate+"/36") +
		"   " +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%d%% plan", status.OverallProgress))

	return bar(width).Render(spread(brand, center, right, max(0, width-4)))
}

// spread places center in the middle of inner columns with left and right
// flush to the edges, keeping at least one space between neighbours.
func spread(left, center, right string, inner int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max(1, (inner-cw)/2-lw)
	rightGap := max(1, inner-lw-leftGap-cw-rw)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderFooter lists the hints. When they do not fit, descriptions are
// dropped and only the keys remain.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	render := func(withDesc bool) string {
		parts := make([]string, 0, len(hints))
		for _, h := range hints {
			part := keyStyle.Render(h.Key)
			if withDesc {
				part += " " + descStyle.Render(h.Description)
			}
			parts = append(parts, part)
		}
		return "  " + strings.Join(parts, "   ")
	}

	content := render(true)
	if lipgloss.Width(content) > width-4 {
		content = render(false)
	}
	return bar(width).Render(content)
}

// RenderFrame stacks header, content and footer, giving content whatever
// height remains.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Centered renders text centered across width.
func Centered(style lipgloss.Style, width int, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
