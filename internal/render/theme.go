package render

import "github.com/charmbracelet/lipgloss"

var (
	ColorBorder    = lipgloss.Color("#575653")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorTextMuted = lipgloss.Color("#878580")
	ColorAccent    = lipgloss.Color("#CE5D97")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorYellow    = lipgloss.Color("#D0A215")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// ColorForPct returns green, yellow, orange or red as spending approaches
// and passes the plan.
func ColorForPct(pct float64) string {
	switch {
	case pct > 100:
		return string(ColorRed)
	case pct >= 90:
		return string(ColorOrange)
	case pct >= 70:
		return string(ColorYellow)
	default:
		return string(ColorGreen)
	}
}
