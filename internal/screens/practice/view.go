package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/ui/components"
	"github.com/abhisek/reciter/internal/ui/layout"
	"github.com/abhisek/reciter/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *PracticeScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	snap := s.engine.Snapshot()
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(snap, width))
	b.WriteString("\n\n")

	switch snap.Phase {
	case session.PhasePractice:
		b.WriteString(s.renderPrompt(cw, width))
		b.WriteString("\n\n")
		b.WriteString(renderRecorder(snap, width))
	case session.PhaseProcessing:
		b.WriteString(s.renderPrompt(cw, width))
		b.WriteString("\n\n")
		frame := spinnerFrames[s.spinFrame%len(spinnerFrames)]
		b.WriteString(layout.Centered(frame+" Transcribing...", width,
			lipgloss.NewStyle().Foreground(theme.Secondary)))
	case session.PhaseCorrection:
		b.WriteString(s.renderCorrection(snap, cw, width))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(s.errMsg, width, lipgloss.NewStyle().Foreground(theme.Error)))
	}
	return b.String()
}

func (s *PracticeScreen) renderInfoLine(snap session.Snapshot, width int) string {
	total := len(snap.Session.Chunks)
	index := min(snap.Session.Index+1, total)

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Chunk %d/%d", index, total))

	bar := components.NewProgressBar("", 100*snap.Session.Index/max(total, 1), false, 20).View()

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(bar) - 4
	if pad > 0 {
		line += strings.Repeat(" ", pad) + bar
	}
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	return line + "\n" + rule
}

func (s *PracticeScreen) renderPrompt(cw, width int) string {
	prompt := s.engine.Prompt()
	if prompt == "" {
		prompt = "Recite this chunk from memory."
		return layout.Centered(prompt, width, theme.Hint)
	}
	block := lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Render(prompt)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func renderRecorder(snap session.Snapshot, width int) string {
	elapsed := layout.FormatDuration(int(snap.Elapsed.Seconds()))
	switch {
	case !snap.Recording:
		return layout.Centered("Press R to start recording", width, theme.Hint)
	case snap.Paused:
		return layout.Centered("❚❚ PAUSED  "+elapsed, width, theme.Paused)
	default:
		return layout.Centered("● REC  "+elapsed, width, theme.Recording)
	}
}

func (s *PracticeScreen) renderCorrection(snap session.Snapshot, cw, width int) string {
	items := snap.Session.Review
	var b strings.Builder

	if snap.Session.Rejection != scoring.RejectNone {
		b.WriteString(layout.Centered("Nothing usable was heard ("+snap.Session.Rejection.String()+").",
			width, lipgloss.NewStyle().Foreground(theme.Warning)))
		b.WriteString("\n\n")
	}

	tokens := make([]string, len(items))
	for i, it := range items {
		tokens[i] = renderItem(it, i == s.cursor)
	}
	words := lipgloss.NewStyle().Width(cw).Render(strings.Join(tokens, " "))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, words))
	b.WriteString("\n\n")

	matched, total := scoring.Grade(items)
	b.WriteString(layout.Centered(
		fmt.Sprintf("%d of %d words  •  %d%%", matched, total, scoring.Accuracy(matched, total)),
		width, lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")

	if s.cursor >= 0 && s.cursor < len(items) {
		it := items[s.cursor]
		heard := it.Spoken
		if it.Silent() {
			heard = "(nothing)"
		}
		detail := fmt.Sprintf("Expected: %s   Heard: %s", it.Original, heard)
		if s.editing {
			detail = fmt.Sprintf("Expected: %s   Correct to: %s", it.Original, s.input.View())
		}
		b.WriteString(layout.Centered(detail, width, lipgloss.NewStyle().Foreground(theme.Text)))
	}
	return b.String()
}

// renderItem shows matched words in green, misheard words as what was
// heard, and silent words struck through.
func renderItem(it scoring.ReviewItem, cursor bool) string {
	var style lipgloss.Style
	text := it.Original
	switch {
	case it.Matched():
		style = theme.Correct
	case it.Silent():
		style = theme.Silent
	default:
		style = theme.Incorrect
		text = it.Spoken
	}
	if cursor {
		style = style.Underline(true).Reverse(true)
	}
	return style.Render(text)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered("Abandon this session?", width,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("Results for finished chunks are kept in history.", width,
		lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("[Y] Yes, abandon", width, lipgloss.NewStyle().Foreground(theme.Error)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("[N] No, keep going", width, lipgloss.NewStyle().Foreground(theme.Primary)))
	return b.String()
}
