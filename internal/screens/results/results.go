package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/screen"
	"github.com/abhisek/reciter/internal/screens"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/ui/components"
	"github.com/abhisek/reciter/internal/ui/layout"
	"github.com/abhisek/reciter/internal/ui/theme"
)

// ResultsScreen shows the scored run and offers the next one.
type ResultsScreen struct {
	engine *session.Engine
	snap   session.Snapshot
	menu   components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New captures the engine's results for display.
func New(engine *session.Engine) *ResultsScreen {
	s := &ResultsScreen{engine: engine, snap: engine.Snapshot()}
	other := s.snap.Session.Level.Other()
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Practice again", Action: func() tea.Cmd { return s.restart("") }},
		{Label: "Try " + other.DisplayName(), Action: func() tea.Cmd { return s.restart(other) }},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) Status() string {
	return screens.Status(s.snap)
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back to setup"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, s.restart("")
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// restart returns the engine to setup, optionally switching level, and
// unwinds to the setup screen.
func (s *ResultsScreen) restart(level scoring.Level) tea.Cmd {
	if err := s.engine.Restart(); err != nil {
		return nil
	}
	if level != "" {
		_ = s.engine.SetLevel(level)
	}
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *ResultsScreen) View(width, height int) string {
	snap := s.snap
	var b strings.Builder

	b.WriteString(layout.Centered("Run complete!", width, theme.Title))
	b.WriteString("\n\n")

	if snap.Scored {
		b.WriteString(layout.Centered(fmt.Sprintf("Session score: %d", snap.Score), width,
			lipgloss.NewStyle().Foreground(components.AccuracyColor(snap.Score)).Bold(true)))
		b.WriteString("\n\n")
	}

	cw := layout.ContentWidth(width)
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Chunks")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")
	for _, r := range snap.Session.Results {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderChunk(r, cw)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Levels")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")
	for _, l := range scoring.Levels() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			renderLevel(l, snap.Session.Summaries[l], cw)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func renderChunk(r scoring.ChunkResult, cw int) string {
	label := fmt.Sprintf("#%-3d %5s", r.ChunkIndex+1, layout.FormatDuration(int(r.Duration.Seconds())))
	line := components.NewProgressBar(label, r.Accuracy, true, cw).View()
	if len(r.Missed) == 0 {
		return line
	}
	missed := "missed: " + strings.Join(r.Missed, ", ")
	return line + "\n" + lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.TextDim).
		Italic(true).
		Render("     "+missed)
}

func renderLevel(l scoring.Level, sum scoring.LevelSummary, cw int) string {
	name := fmt.Sprintf("%-13s", l.DisplayName())
	if !sum.Completed {
		return lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(name + "  not completed")
	}
	label := fmt.Sprintf("%s %5s", name, layout.FormatDuration(int(sum.Duration.Seconds())))
	return components.NewProgressBar(label, sum.Accuracy, true, cw).View()
}
