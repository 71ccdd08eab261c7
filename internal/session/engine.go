package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/segment"
	"github.com/abhisek/reciter/internal/store"
	"github.com/abhisek/reciter/internal/stt"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for elapsed-time accounting.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithOnComplete registers a callback that receives the session score each
// time a run reaches results.
func WithOnComplete(fn func(score int)) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithRecorder persists session and chunk events.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLevel sets the initial practice level.
func WithLevel(l scoring.Level) Option {
	return func(e *Engine) {
		if l.IsValid() {
			e.sess.Level = l
		}
	}
}

// WithLanguage sets the language hint sent with every transcription.
func WithLanguage(lang string) Option {
	return func(e *Engine) { e.language = lang }
}

// WithSource labels the run with where its text came from.
func WithSource(src string) Option {
	return func(e *Engine) { e.sess.Source = src }
}

// Engine is the recitation state machine. All methods are safe for
// concurrent use; Submit blocks on the provider without holding the state
// lock so hosts can keep rendering Snapshot while it runs.
type Engine struct {
	mu sync.Mutex

	phase    Phase
	sess     Session
	segments []segment.Segment
	selected []bool

	device   audio.Device
	provider stt.Provider
	language string

	capture      audio.Capture
	paused       bool
	elapsed      time.Duration // accumulated before runningSince
	runningSince time.Time     // zero unless recording and not paused

	busy       *semaphore.Weighted
	generation uint64 // bumped whenever in-flight work must be discarded
	cancel     context.CancelFunc

	now        func() time.Time
	onComplete func(int)
	recorder   Recorder
}

// New creates an engine in setup with every segment selected.
func New(segments []segment.Segment, device audio.Device, provider stt.Provider, opts ...Option) *Engine {
	e := &Engine{
		phase:    PhaseSetup,
		segments: segments,
		selected: make([]bool, len(segments)),
		device:   device,
		provider: provider,
		busy:     semaphore.NewWeighted(1),
		now:      time.Now,
		sess: Session{
			Level:     scoring.LevelPartialHint,
			Summaries: make(map[scoring.Level]scoring.LevelSummary),
		},
	}
	for i := range e.selected {
		e.selected[i] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Snapshot returns a deep copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Phase:     e.phase,
		Session:   e.sess.clone(),
		Segments:  e.segments,
		Selected:  e.selectedIndices(),
		Recording: e.capture != nil,
		Paused:    e.paused,
		Elapsed:   e.elapsedLocked(),
	}
	snap.Score, snap.Scored = scoring.SessionScore(e.sess.Summaries)
	return snap
}

// Prompt returns the text to display for the current chunk: the masked
// hint at partial-hint level, nothing at pure-recall or outside a run.
func (e *Engine) Prompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhasePractice, PhaseProcessing, PhaseCorrection:
	default:
		return ""
	}
	switch e.sess.Level {
	case scoring.LevelPartialHint:
		return scoring.Hint(e.sess.Current())
	case scoring.LevelPureRecall:
		return ""
	default:
		return ""
	}
}

func (e *Engine) require(op string, phases ...Phase) error {
	for _, p := range phases {
		if e.phase == p {
			return nil
		}
	}
	return &TransitionError{Op: op, Phase: e.phase}
}

// Toggle flips the selection of segment i.
func (e *Engine) Toggle(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("toggle", PhaseSetup); err != nil {
		return err
	}
	if i < 0 || i >= len(e.selected) {
		return fmt.Errorf("toggle %d: %w", i, ErrIndexOutOfRange)
	}
	e.selected[i] = !e.selected[i]
	return nil
}

// SelectAll selects every segment.
func (e *Engine) SelectAll() error {
	return e.selectEvery(true, "select all")
}

// SelectNone clears the selection.
func (e *Engine) SelectNone() error {
	return e.selectEvery(false, "select none")
}

func (e *Engine) selectEvery(v bool, op string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require(op, PhaseSetup); err != nil {
		return err
	}
	for i := range e.selected {
		e.selected[i] = v
	}
	return nil
}

// SetLevel chooses the practice level for the next run.
func (e *Engine) SetLevel(l scoring.Level) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("set level", PhaseSetup); err != nil {
		return err
	}
	if !l.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, l)
	}
	e.sess.Level = l
	return nil
}

// Start freezes the selection and enters practice on the first chunk.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("start", PhaseSetup); err != nil {
		return err
	}

	chunks := segment.Select(e.segments, e.selectedIndices())
	if len(chunks) == 0 {
		return ErrInvalidSelection
	}

	e.sess.ID = uuid.NewString()
	e.sess.Chunks = chunks
	e.sess.Index = 0
	e.sess.Results = nil
	e.sess.StartedAt = e.now()
	e.clearChunk()
	e.phase = PhasePractice

	slog.Info("session started", "session", e.sess.ID, "chunks", len(chunks), "level", e.sess.Level)
	e.recordSession(store.ActionStart)
	return nil
}

// Restart returns from results to setup, keeping segments, selection,
// level and the per-level summaries.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("restart", PhaseResults); err != nil {
		return err
	}
	e.recordSession(store.ActionRestart)
	e.resetRun()
	return nil
}

// Abandon leaves the run from any phase. Any open capture is released and
// an in-flight transcription is cancelled and discarded.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseSetup:
		return
	case PhasePractice, PhaseProcessing, PhaseCorrection:
		e.recordSession(store.ActionAbandon)
		slog.Info("session abandoned", "session", e.sess.ID, "phase", e.phase, "chunk", e.sess.Index)
	case PhaseResults:
	}
	e.resetRun()
}

// resetRun clears per-run state and returns to setup. Caller holds e.mu.
func (e *Engine) resetRun() {
	e.generation++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.clearChunk()
	e.sess.ID = ""
	e.sess.Chunks = nil
	e.sess.Index = 0
	e.sess.Results = nil
	e.sess.StartedAt = time.Time{}
	e.phase = PhaseSetup
}

// clearChunk releases the capture and drops transient chunk state.
// Caller holds e.mu.
func (e *Engine) clearChunk() {
	e.releaseCapture()
	e.resetClock()
	e.sess.Review = nil
	e.sess.Heard = nil
	e.sess.Transcript = ""
	e.sess.Rejection = scoring.RejectNone
	e.sess.ChunkDuration = 0
}

func (e *Engine) releaseCapture() {
	if e.capture == nil {
		return
	}
	if err := e.capture.Close(); err != nil {
		slog.Warn("failed to release capture", "err", err)
	}
	e.capture = nil
	e.paused = false
}

func (e *Engine) selectedIndices() []int {
	var out []int
	for i, v := range e.selected {
		if v {
			out = append(out, i)
		}
	}
	return out
}
