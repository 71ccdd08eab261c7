package practice

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/router"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/screen"
	"github.com/abhisek/reciter/internal/screens"
	"github.com/abhisek/reciter/internal/screens/results"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/ui/components"
	"github.com/abhisek/reciter/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

// PracticeScreen runs the record, review and correct loop for every chunk
// of a started session.
type PracticeScreen struct {
	engine *session.Engine

	cursor  int
	editing bool
	input   components.WordInput

	confirmQuit bool
	errMsg      string
	spinFrame   int

	// submitting is set from Enter until the transcription result arrives.
	submitting bool
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen for an engine already in practice.
func New(engine *session.Engine) *PracticeScreen {
	return &PracticeScreen{engine: engine}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tickCmd()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) Status() string {
	return screens.Status(s.engine.Snapshot())
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	}
	snap := s.engine.Snapshot()
	switch snap.Phase {
	case session.PhasePractice:
		if !snap.Recording {
			return []layout.KeyHint{
				{Key: "R", Description: "Record"},
				{Key: "Esc", Description: "Abandon"},
			}
		}
		pause := "Pause"
		if snap.Paused {
			pause = "Resume"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Space", Description: pause},
			{Key: "X", Description: "Discard"},
			{Key: "Esc", Description: "Abandon"},
		}
	case session.PhaseProcessing:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Abandon"},
		}
	case session.PhaseCorrection:
		if s.editing {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Save"},
				{Key: "Esc", Description: "Cancel"},
			}
		}
		return []layout.KeyHint{
			{Key: "←→", Description: "Move"},
			{Key: "E", Description: "Edit"},
			{Key: "F", Description: "Finish"},
			{Key: "T", Description: "Retake"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return nil
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.engine.Phase() == session.PhaseSetup || s.engine.Phase() == session.PhaseResults {
			return s, nil
		}
		return s, tickCmd()

	case spinnerTickMsg:
		if s.engine.Phase() != session.PhaseProcessing {
			return s, nil
		}
		s.spinFrame++
		return s, spinnerCmd()

	case transcribedMsg:
		return s.handleTranscribed(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleTranscribed(msg transcribedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	switch {
	case errors.Is(msg.Err, session.ErrAbandoned):
		return s, nil
	case msg.Err != nil:
		s.errMsg = "Transcription failed. Record the chunk again. (" + msg.Err.Error() + ")"
		return s, nil
	}
	s.errMsg = ""
	s.editing = false
	s.cursor = firstEditable(s.engine)
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.editing = false
			s.submitting = false
			s.engine.Abandon()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.engine.Phase() {
	case session.PhasePractice:
		return s.handlePracticeKey(key)
	case session.PhaseProcessing:
		if key == "esc" {
			s.confirmQuit = true
		}
		return s, nil
	case session.PhaseCorrection:
		if s.editing {
			return s.handleEditKey(msg)
		}
		return s.handleCorrectionKey(key)
	}
	return s, nil
}

func (s *PracticeScreen) handlePracticeKey(key string) (screen.Screen, tea.Cmd) {
	snap := s.engine.Snapshot()
	switch key {
	case "esc":
		s.confirmQuit = true
	case "r":
		if snap.Recording {
			return s, nil
		}
		if err := s.engine.Record(context.Background()); err != nil {
			s.errMsg = recordError(err)
			return s, nil
		}
		s.errMsg = ""
	case "space", "p":
		if !snap.Recording {
			return s, nil
		}
		var err error
		if snap.Paused {
			err = s.engine.Resume()
		} else {
			err = s.engine.Pause()
		}
		if err != nil {
			s.errMsg = err.Error()
		}
	case "x":
		if snap.Recording {
			_ = s.engine.Discard()
		}
	case "enter":
		if !snap.Recording || s.submitting {
			return s, nil
		}
		s.submitting = true
		s.errMsg = ""
		s.spinFrame = 0
		return s, tea.Batch(s.submitCmd(), spinnerCmd())
	}
	return s, nil
}

func (s *PracticeScreen) handleCorrectionKey(key string) (screen.Screen, tea.Cmd) {
	n := len(s.engine.Review())
	switch key {
	case "esc":
		s.confirmQuit = true
	case "left", "h", "shift+tab":
		if s.cursor > 0 {
			s.cursor--
		}
	case "right", "l", "tab":
		if s.cursor < n-1 {
			s.cursor++
		}
	case "e", "enter":
		if err := s.engine.BeginEdit(s.cursor); err != nil {
			return s, nil
		}
		word := s.engine.Review()[s.cursor].Spoken
		if word == scoring.Sentinel {
			word = ""
		}
		s.input = components.NewWordInput("word", word, 40)
		s.editing = true
		return s, s.input.Init()
	case "t":
		if err := s.engine.Retake(); err == nil {
			s.cursor = 0
		}
	case "f":
		if err := s.engine.Finish(context.Background()); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.cursor = 0
		if s.engine.Phase() == session.PhaseResults {
			next := results.New(s.engine)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *PracticeScreen) handleEditKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := s.engine.Edit(s.cursor, s.input.Value()); err != nil {
			s.errMsg = err.Error()
		}
		s.editing = false
		return s, nil
	case "esc":
		// Restore the value shown before editing; this also clears the
		// item's editing mark.
		word := s.engine.Review()[s.cursor].Spoken
		if word == scoring.Sentinel {
			word = ""
		}
		_ = s.engine.Edit(s.cursor, word)
		s.editing = false
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submitCmd transcribes the take off the UI goroutine.
func (s *PracticeScreen) submitCmd() tea.Cmd {
	engine := s.engine
	return func() tea.Msg {
		return transcribedMsg{Err: engine.Submit(context.Background())}
	}
}

func recordError(err error) string {
	if errors.Is(err, audio.ErrPermissionDenied) {
		return "Microphone unavailable. Check the recorder command and permissions."
	}
	if errors.Is(err, audio.ErrExhausted) {
		return "No more prepared recordings."
	}
	return "Could not start recording: " + err.Error()
}

// firstEditable returns the index of the first word that was heard wrong,
// or 0.
func firstEditable(e *session.Engine) int {
	for i := range e.Review() {
		if e.Editable(i) {
			return i
		}
	}
	return 0
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func spinnerCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
