package render

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a labelled bar for a 0-100 percentage. Values past 100
// fill the bar and keep their real number in the label.
func ProgressBar(label string, pct float64, labelW, barWidth int) string {
	fill := pct / 100
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(ColorBorder)

	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Bold(true)

	return mutedStyle.Render(padRight(label, labelW)) + " " +
		bar.ViewAs(fill) + " " +
		pctStyle.Render(FormatPercent(pct))
}

func padRight(s string, w int) string {
	for lipgloss.Width(s) < w {
		s += " "
	}
	return s
}
