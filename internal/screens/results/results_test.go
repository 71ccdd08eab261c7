package results

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/segment"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/stt"
)

// finishedEngine runs a one-chunk session to results.
func finishedEngine(t *testing.T, spoken string) *session.Engine {
	t.Helper()
	provider := stt.NewMockProvider(stt.MockResult{Text: spoken})
	e := session.New(segment.Split("The quick brown fox"), &audio.Mock{}, provider)
	ctx := context.Background()
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if err := e.Record(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Phase() != session.PhaseResults {
		t.Fatalf("phase = %s, want results", e.Phase())
	}
	return e
}

func TestResultsScreen_Display(t *testing.T) {
	s := New(finishedEngine(t, "the quick red fox"))
	view := s.View(100, 40)
	for _, want := range []string{"Session score: 75", "missed: brown", "Pure Recall", "not completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Title() != "Results" {
		t.Errorf("Title = %q", s.Title())
	}
	if !strings.Contains(s.Status(), "75") {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestResultsScreen_PracticeAgain(t *testing.T) {
	e := finishedEngine(t, "the quick brown fox")
	s := New(e)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Fatal("expected PopToRootMsg")
	}
	if e.Phase() != session.PhaseSetup {
		t.Errorf("phase = %s, want setup", e.Phase())
	}
	if e.Snapshot().Session.Level != scoring.LevelPartialHint {
		t.Error("level should be unchanged")
	}
}

func TestResultsScreen_TryOtherLevel(t *testing.T) {
	e := finishedEngine(t, "the quick brown fox")
	s := New(e)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	snap := e.Snapshot()
	if snap.Phase != session.PhaseSetup || snap.Session.Level != scoring.LevelPureRecall {
		t.Errorf("phase/level = %s/%s", snap.Phase, snap.Session.Level)
	}
	// The completed level survives the restart.
	if !snap.Scored || snap.Score != 100 {
		t.Errorf("score = %d/%v", snap.Score, snap.Scored)
	}
}

func TestResultsScreen_EscRestarts(t *testing.T) {
	e := finishedEngine(t, "the quick brown fox")
	s := New(e)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if e.Phase() != session.PhaseSetup {
		t.Errorf("phase = %s", e.Phase())
	}
}

func TestResultsScreen_KeyHints(t *testing.T) {
	s := New(finishedEngine(t, "the quick brown fox"))
	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(s.KeyHints()))
	}
}
