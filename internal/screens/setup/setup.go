package setup

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/screen"
	"github.com/abhisek/reciter/internal/screens"
	"github.com/abhisek/reciter/internal/screens/practice"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/ui/components"
	"github.com/abhisek/reciter/internal/ui/layout"
	"github.com/abhisek/reciter/internal/ui/theme"
)

// SetupScreen lets the learner pick chunks and a level before a run.
type SetupScreen struct {
	engine  *session.Engine
	list    components.Checklist
	history func() screen.Screen
	errMsg  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.StatusProvider = (*SetupScreen)(nil)
var _ screen.Focuser = (*SetupScreen)(nil)

// New creates a SetupScreen. history builds the history screen; nil hides
// the shortcut.
func New(engine *session.Engine, history func() screen.Screen) *SetupScreen {
	snap := engine.Snapshot()
	labels := make([]string, len(snap.Segments))
	for i, seg := range snap.Segments {
		labels[i] = seg.Title
	}
	return &SetupScreen{
		engine:  engine,
		list:    components.NewChecklist(labels),
		history: history,
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Focus() tea.Cmd {
	s.errMsg = ""
	return nil
}

func (s *SetupScreen) Title() string {
	return "Setup"
}

func (s *SetupScreen) Status() string {
	return screens.Status(s.engine.Snapshot())
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Toggle"},
		{Key: "A/N", Description: "All/None"},
		{Key: "L", Description: "Level"},
		{Key: "Enter", Description: "Start"},
	}
	if s.history != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "space", "x":
		_ = s.engine.Toggle(s.list.Cursor)
		s.errMsg = ""
	case "a":
		_ = s.engine.SelectAll()
		s.errMsg = ""
	case "n":
		_ = s.engine.SelectNone()
	case "l":
		level := s.engine.Snapshot().Session.Level.Other()
		_ = s.engine.SetLevel(level)
	case "h":
		if s.history != nil {
			next := s.history()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	case "q":
		return s, tea.Quit
	case "enter":
		return s.start()
	default:
		s.list, _ = s.list.Update(msg)
	}
	return s, nil
}

func (s *SetupScreen) start() (screen.Screen, tea.Cmd) {
	if err := s.engine.Start(); err != nil {
		if errors.Is(err, session.ErrInvalidSelection) {
			s.errMsg = "Select at least one chunk to practice."
		} else {
			s.errMsg = err.Error()
		}
		return s, nil
	}
	s.errMsg = ""
	next := practice.New(s.engine)
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *SetupScreen) View(width, height int) string {
	snap := s.engine.Snapshot()
	cw := layout.ContentWidth(width)

	if len(snap.Segments) == 0 {
		return layout.Centered("\n\nThis text has nothing to recite.", width, theme.Hint)
	}

	selected := make(map[int]bool, len(snap.Selected))
	for _, i := range snap.Selected {
		selected[i] = true
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(
		"Level: "+snap.Session.Level.DisplayName(), width,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)))
	b.WriteString("\n\n")

	listHeight := max(height/2, 3)
	list := s.list.View(func(i int) bool { return selected[i] }, listHeight)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(list)))
	b.WriteString("\n\n")

	if c := s.list.Cursor; c >= 0 && c < len(snap.Segments) {
		preview := theme.Card.Width(cw).Foreground(theme.TextDim).Render(excerpt(snap.Segments[c].Text, 40))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, preview))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(s.errMsg, width, lipgloss.NewStyle().Foreground(theme.Error)))
	}
	return b.String()
}

// excerpt returns the first n words of text.
func excerpt(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + " …"
}
