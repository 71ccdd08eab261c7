package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/store"
)

type fakeSource struct {
	sessions   []store.SessionRecord
	chunks     map[string][]store.ChunkEvent
	err        error
	chunkCalls int
}

func (f *fakeSource) RecentSessions(_ context.Context, _ int) ([]store.SessionRecord, error) {
	return f.sessions, f.err
}

func (f *fakeSource) SessionChunks(_ context.Context, id string) ([]store.ChunkEvent, error) {
	f.chunkCalls++
	return f.chunks[id], nil
}

func testSource() *fakeSource {
	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return &fakeSource{
		sessions: []store.SessionRecord{
			{SessionID: "s1", Source: "poem.txt", Status: store.ActionComplete, Score: 88, Scored: true, Chunks: 2, StartedAt: started},
			{SessionID: "s2", Source: "-", Status: store.ActionAbandon, Chunks: 1, StartedAt: started},
		},
		chunks: map[string][]store.ChunkEvent{
			"s1": {{ChunkEventData: store.ChunkEventData{SessionID: "s1", Level: "partial-hint", Accuracy: 75, Missed: []string{"brown"}}}},
		},
	}
}

func loaded(t *testing.T, src Source) *HistoryScreen {
	t.Helper()
	s := New(src)
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_Lists(t *testing.T) {
	s := loaded(t, testSource())
	view := s.View(100, 30)
	for _, want := range []string{"poem.txt", "88", "abandon"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_ExpandLoadsChunksOnce(t *testing.T) {
	src := testSource()
	s := loaded(t, src)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected chunk load command")
	}
	s.Update(cmd())
	if !strings.Contains(s.View(100, 30), "missed: brown") {
		t.Error("expanded view should show chunk details")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("chunks should be cached")
	}
	if src.chunkCalls != 1 {
		t.Errorf("chunk calls = %d, want 1", src.chunkCalls)
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, &fakeSource{})
	if !strings.Contains(s.View(100, 30), "No sessions yet") {
		t.Error("expected empty message")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on empty list should do nothing")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loaded(t, &fakeSource{err: errors.New("db locked")})
	if !strings.Contains(s.View(100, 30), "db locked") {
		t.Error("expected error in view")
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := loaded(t, testSource())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
