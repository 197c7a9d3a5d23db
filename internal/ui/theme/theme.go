package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a complete set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Warning   color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var DarkPalette = Palette{
	Primary:   lipgloss.Color("#60A5FA"), // Sky
	Secondary: lipgloss.Color("#14B8A6"), // Teal
	Accent:    lipgloss.Color("#F59E0B"), // Amber
	Success:   lipgloss.Color("#22C55E"),
	Error:     lipgloss.Color("#F43F5E"),
	Warning:   lipgloss.Color("#FB923C"),
	Text:      lipgloss.Color("#F8FAFC"),
	TextDim:   lipgloss.Color("#94A3B8"),
	BgCard:    lipgloss.Color("#1E293B"),
	Border:    lipgloss.Color("#334155"),
}

var LightPalette = Palette{
	Primary:   lipgloss.Color("#1D4ED8"),
	Secondary: lipgloss.Color("#0F766E"),
	Accent:    lipgloss.Color("#B45309"),
	Success:   lipgloss.Color("#15803D"),
	Error:     lipgloss.Color("#BE123C"),
	Warning:   lipgloss.Color("#C2410C"),
	Text:      lipgloss.Color("#0F172A"),
	TextDim:   lipgloss.Color("#64748B"),
	BgCard:    lipgloss.Color("#E2E8F0"),
	Border:    lipgloss.Color("#CBD5E1"),
}

// Active colors. Reassigned by Apply.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Warning   color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Header lipgloss.Style
	Footer lipgloss.Style
	Card   lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
)

var dark = true

func init() {
	Apply(true)
}

// Apply switches the active palette and rebuilds every shared style.
func Apply(darkMode bool) {
	dark = darkMode
	p := LightPalette
	if darkMode {
		p = DarkPalette
	}

	Primary = p.Primary
	Secondary = p.Secondary
	Accent = p.Accent
	Success = p.Success
	Error = p.Error
	Warning = p.Warning
	Text = p.Text
	TextDim = p.TextDim
	BgCard = p.BgCard
	Border = p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
}

// IsDark reports whether the dark palette is active.
func IsDark() bool {
	return dark
}
