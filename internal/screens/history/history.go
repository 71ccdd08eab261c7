package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/screen"
	"github.com/abhisek/reciter/internal/store"
	"github.com/abhisek/reciter/internal/ui/components"
	"github.com/abhisek/reciter/internal/ui/layout"
	"github.com/abhisek/reciter/internal/ui/theme"
)

const sessionLimit = 50

// Source is the read side of the event store used by the screen.
type Source interface {
	RecentSessions(ctx context.Context, limit int) ([]store.SessionRecord, error)
	SessionChunks(ctx context.Context, sessionID string) ([]store.ChunkEvent, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type chunksLoadedMsg struct {
	SessionID string
	Chunks    []store.ChunkEvent
	Err       error
}

// HistoryScreen displays past sessions and their chunk scores.
type HistoryScreen struct {
	source   Source
	sessions []store.SessionRecord
	chunks   map[string][]store.ChunkEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		chunks:   make(map[string][]store.ChunkEvent),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source := s.source
	return func() tea.Msg {
		sessions, err := source.RecentSessions(context.Background(), sessionLimit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case chunksLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.chunks[msg.SessionID] = msg.Chunks
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].SessionID
			if _, ok := s.chunks[id]; s.expanded[s.selected] && !ok {
				return s, s.loadChunks(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadChunks(id string) tea.Cmd {
	source := s.source
	return func() tea.Msg {
		chunks, err := source.SessionChunks(context.Background(), id)
		return chunksLoadedMsg{SessionID: id, Chunks: chunks, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start reciting!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		score := "  -"
		if sess.Scored {
			score = fmt.Sprintf("%3d", sess.Score)
		}
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-9s %s  %2d chunks  %s",
			prefix, sess.StartedAt.Format("Jan 02 15:04"), sess.Status, score, sess.Chunks, sess.Source)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderChunks(sess.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderChunks(id string, width int) string {
	chunks, ok := s.chunks[id]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	switch {
	case !ok:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading...")) + "\n"
	case len(chunks) == 0:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No chunks finished")) + "\n"
	}

	var b strings.Builder
	for _, c := range chunks {
		line := fmt.Sprintf("    #%d %-12s %3d%%", c.ChunkIndex+1, c.Level, c.Accuracy)
		if len(c.Missed) > 0 {
			line += "  missed: " + strings.Join(c.Missed, ", ")
		}
		style := lipgloss.NewStyle().Foreground(components.AccuracyColor(c.Accuracy))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
