package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/ui/theme"
)

const bannerArt = `
    _        _               _ _
   / \   ___| |_ _   _  __ _| (_)_______
  / _ \ / __| __| | | |/ _' | | |_  / _ \
 / ___ \ (__| |_| |_| | (_| | | |/ /  __/
/_/   \_\___|\__|\__,_|\__,_|_|_/___\___|`

const bannerCompact = "A C T U A L I Z E"

// RenderBanner returns the banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
