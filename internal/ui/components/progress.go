package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/reciter/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a 0-100 value.
type ProgressBar struct {
	Label       string
	Value       int
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, value int, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Value:       value,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	value := min(max(p.Value, 0), 100)
	filled := barWidth * value / 100
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(AccuracyColor(value)).
		Render(strings.Repeat(" ", filled))

	emptyStr := theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", value))
	}

	return result
}

// AccuracyColor grades an accuracy value.
func AccuracyColor(accuracy int) color.Color {
	switch {
	case accuracy >= 90:
		return theme.Success
	case accuracy >= 70:
		return theme.Secondary
	case accuracy >= 50:
		return theme.Warning
	default:
		return theme.Error
	}
}
