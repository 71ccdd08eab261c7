package practice

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/screens/results"
	"github.com/abhisek/reciter/internal/segment"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/stt"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testPracticeScreen(t *testing.T, text string, results ...stt.MockResult) (*PracticeScreen, *session.Engine, *audio.Mock) {
	t.Helper()
	mic := &audio.Mock{}
	e := session.New(segment.Split(text), mic, stt.NewMockProvider(results...))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	return New(e), e, mic
}

// transcription runs cmd and returns the transcribedMsg among its
// messages. Batches are unrolled; tick commands return within their
// interval.
func transcription(t *testing.T, cmd tea.Cmd) transcribedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msgs := make(chan tea.Msg, 8)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				go run(sub)
			}
			return
		}
		msgs <- msg
	}
	go run(cmd)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if tm, ok := msg.(transcribedMsg); ok {
				return tm
			}
		case <-timeout:
			t.Fatal("no transcription result")
		}
	}
}

// recite records and submits one take, delivering the result to s.
func recite(t *testing.T, s *PracticeScreen) {
	t.Helper()
	s.Update(keyPress('r'))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(transcription(t, cmd))
}

func TestPracticeScreen_RecordPauseDiscard(t *testing.T) {
	s, e, mic := testPracticeScreen(t, "The quick brown fox")

	s.Update(keyPress('r'))
	if !e.Snapshot().Recording {
		t.Fatal("expected recording")
	}
	if !strings.Contains(s.View(100, 30), "REC") {
		t.Error("view should show the recording indicator")
	}

	s.Update(specialKey(tea.KeySpace))
	if !e.Snapshot().Paused {
		t.Fatal("expected paused")
	}
	if !strings.Contains(s.View(100, 30), "PAUSED") {
		t.Error("view should show the paused indicator")
	}
	s.Update(keyPress('p'))
	if e.Snapshot().Paused {
		t.Fatal("expected resumed")
	}

	s.Update(keyPress('x'))
	if e.Snapshot().Recording || !mic.Last().Released() {
		t.Fatal("discard should release the capture")
	}
}

func TestPracticeScreen_SubmitEntersCorrection(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox", stt.MockResult{Text: "the quick red fox"})
	recite(t, s)

	if e.Phase() != session.PhaseCorrection {
		t.Fatalf("phase = %s, want correction", e.Phase())
	}
	if s.cursor != 2 {
		t.Errorf("cursor = %d, want first misheard word", s.cursor)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "3 of 4 words") || !strings.Contains(view, "Heard: red") {
		t.Errorf("unexpected correction view:\n%s", view)
	}
}

func TestPracticeScreen_EditAndFinish(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox", stt.MockResult{Text: "the quick red fox"})
	recite(t, s)

	s.Update(keyPress('e'))
	if !s.editing {
		t.Fatal("expected edit mode")
	}
	// Replace "red" with "brown".
	for range 3 {
		s.Update(specialKey(tea.KeyBackspace))
	}
	for _, r := range "brown" {
		s.Update(keyPress(r))
	}
	s.Update(specialKey(tea.KeyEnter))
	if s.editing {
		t.Fatal("expected edit committed")
	}
	if got := e.Review()[2].Spoken; got != "brown" {
		t.Fatalf("spoken = %q, want brown", got)
	}

	_, cmd := s.Update(keyPress('f'))
	if cmd == nil {
		t.Fatal("expected navigation to results")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*results.ResultsScreen); !ok {
		t.Errorf("replaced with %T", replace.Screen)
	}
	if snap := e.Snapshot(); snap.Score != 100 {
		t.Errorf("score = %d, want 100", snap.Score)
	}
}

func TestPracticeScreen_EditCancel(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox", stt.MockResult{Text: "the quick red fox"})
	recite(t, s)

	s.Update(keyPress('e'))
	s.Update(keyPress('z'))
	s.Update(specialKey(tea.KeyEscape))
	if s.editing {
		t.Fatal("expected edit cancelled")
	}
	it := e.Review()[2]
	if it.Spoken != "red" || it.Editing {
		t.Errorf("item = %+v, want untouched", it)
	}
}

func TestPracticeScreen_MatchedWordNotEditable(t *testing.T) {
	s, _, _ := testPracticeScreen(t, "The quick brown fox", stt.MockResult{Text: "the quick red fox"})
	recite(t, s)

	s.Update(specialKey(tea.KeyLeft))
	s.Update(keyPress('e'))
	if s.editing {
		t.Error("matched word must not enter edit mode")
	}
}

func TestPracticeScreen_NextChunkAndRetake(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox.\n\nJumps over the dog.",
		stt.MockResult{Text: "the quick brown fox"},
		stt.MockResult{Text: "jumps over"},
		stt.MockResult{Text: "jumps over the dog"},
	)
	recite(t, s)
	_, cmd := s.Update(keyPress('f'))
	if cmd != nil {
		t.Error("finishing a middle chunk should not navigate")
	}
	if snap := e.Snapshot(); snap.Phase != session.PhasePractice || snap.Session.Index != 1 {
		t.Fatalf("phase/index = %s/%d", snap.Phase, snap.Session.Index)
	}

	recite(t, s)
	s.Update(keyPress('t'))
	if e.Phase() != session.PhasePractice {
		t.Fatalf("retake phase = %s", e.Phase())
	}
	recite(t, s)
	if e.Phase() != session.PhaseCorrection {
		t.Fatalf("phase = %s", e.Phase())
	}
}

func TestPracticeScreen_RepeatedEnterSubmitsOnce(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox", stt.MockResult{Text: "the quick brown fox"})
	s.Update(keyPress('r'))

	_, first := s.Update(specialKey(tea.KeyEnter))
	if _, second := s.Update(specialKey(tea.KeyEnter)); second != nil {
		t.Fatal("second Enter before the result should not submit again")
	}
	s.Update(transcription(t, first))

	if e.Phase() != session.PhaseCorrection {
		t.Fatalf("phase = %s, want correction", e.Phase())
	}
	if s.errMsg != "" {
		t.Errorf("errMsg = %q, want none", s.errMsg)
	}
}

func TestPracticeScreen_SubmitAgainAfterFailure(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox",
		stt.MockResult{Err: &stt.ErrProviderUnavailable{Err: errors.New("offline")}},
		stt.MockResult{Text: "the quick brown fox"})
	recite(t, s)
	if e.Phase() != session.PhasePractice {
		t.Fatalf("phase = %s, want practice", e.Phase())
	}

	recite(t, s)
	if e.Phase() != session.PhaseCorrection {
		t.Fatalf("phase = %s, want correction after the second take", e.Phase())
	}
}

func TestPracticeScreen_TranscriptionFailure(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox",
		stt.MockResult{Err: &stt.ErrProviderUnavailable{Err: errors.New("offline")}})
	recite(t, s)

	if e.Phase() != session.PhasePractice {
		t.Fatalf("phase = %s, want practice", e.Phase())
	}
	if !strings.Contains(s.View(100, 30), "Transcription failed") {
		t.Error("expected failure message")
	}
}

func TestPracticeScreen_PermissionDenied(t *testing.T) {
	s, e, mic := testPracticeScreen(t, "The quick brown fox")
	mic.BeginErr = audio.ErrPermissionDenied

	s.Update(keyPress('r'))
	if e.Snapshot().Recording {
		t.Fatal("should not be recording")
	}
	if !strings.Contains(s.errMsg, "Microphone unavailable") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestPracticeScreen_AbandonConfirm(t *testing.T) {
	s, e, mic := testPracticeScreen(t, "The quick brown fox")
	s.Update(keyPress('r'))

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected confirm dialog")
	}
	s.Update(keyPress('n'))
	if s.confirmQuit || e.Phase() != session.PhasePractice {
		t.Fatal("expected to keep going")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if e.Phase() != session.PhaseSetup || !mic.Last().Released() {
		t.Error("abandon should reset the engine and release the capture")
	}
}

func TestPracticeScreen_AbandonedResultIgnored(t *testing.T) {
	s, _, _ := testPracticeScreen(t, "The quick brown fox")
	s.Update(transcribedMsg{Err: session.ErrAbandoned})
	if s.errMsg != "" {
		t.Errorf("errMsg = %q, want none", s.errMsg)
	}
}

func TestPracticeScreen_TickStopsAfterRun(t *testing.T) {
	s, e, _ := testPracticeScreen(t, "The quick brown fox")
	if _, cmd := s.Update(tickMsg(time.Now())); cmd == nil {
		t.Error("tick should continue during practice")
	}
	e.Abandon()
	if _, cmd := s.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("tick should stop once the run ends")
	}
	if _, cmd := s.Update(spinnerTickMsg(time.Now())); cmd != nil {
		t.Error("spinner should stop outside processing")
	}
}

func TestPracticeScreen_PromptByLevel(t *testing.T) {
	s, _, _ := testPracticeScreen(t, "The quick brown fox")
	if !strings.Contains(s.View(100, 30), "T__ q____ b____ f__") {
		t.Error("partial hint should show the masked text")
	}

	e := session.New(segment.Split("The quick brown fox"), &audio.Mock{}, stt.NewMockProvider(),
		session.WithLevel(scoring.LevelPureRecall))
	_ = e.Start()
	recall := New(e)
	view := recall.View(100, 30)
	if strings.Contains(view, "T__") || !strings.Contains(view, "from memory") {
		t.Error("pure recall should hide the text")
	}
}
