package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/stt"
)

// Record opens a capture for the current chunk. A device error such as
// audio.ErrPermissionDenied leaves the phase unchanged.
func (e *Engine) Record(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("record", PhasePractice); err != nil {
		return err
	}
	if e.capture != nil {
		return ErrRecording
	}

	c, err := e.device.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin recording: %w", err)
	}
	e.capture = c
	e.paused = false
	e.elapsed = 0
	e.runningSince = e.now()
	return nil
}

// Pause suspends the capture and the elapsed clock.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("pause", PhasePractice); err != nil {
		return err
	}
	if e.capture == nil {
		return ErrNotRecording
	}
	if e.paused {
		return nil
	}
	if err := e.capture.Pause(); err != nil {
		return fmt.Errorf("pause recording: %w", err)
	}
	e.elapsed = e.elapsedLocked()
	e.runningSince = time.Time{}
	e.paused = true
	return nil
}

// Resume continues a paused capture.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("resume", PhasePractice); err != nil {
		return err
	}
	if e.capture == nil {
		return ErrNotRecording
	}
	if !e.paused {
		return nil
	}
	if err := e.capture.Resume(); err != nil {
		return fmt.Errorf("resume recording: %w", err)
	}
	e.runningSince = e.now()
	e.paused = false
	return nil
}

// Discard drops the current take and stays in practice.
func (e *Engine) Discard() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("discard", PhasePractice); err != nil {
		return err
	}
	e.clearChunk()
	return nil
}

// Elapsed returns the recorded time of the current take. It advances only
// while recording and not paused.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

func (e *Engine) elapsedLocked() time.Duration {
	if e.runningSince.IsZero() {
		return e.elapsed
	}
	return e.elapsed + e.now().Sub(e.runningSince)
}

func (e *Engine) resetClock() {
	e.elapsed = 0
	e.runningSince = time.Time{}
}

// Submit stops the capture and transcribes it. It blocks until the
// provider answers; the engine sits in processing meanwhile and rejects
// other commands. On success the engine is in correction with the aligned
// review. On provider failure the engine returns to practice for the same
// chunk and the error wraps ErrTranscription.
func (e *Engine) Submit(ctx context.Context) error {
	if !e.busy.TryAcquire(1) {
		return ErrBusy
	}
	defer e.busy.Release(1)

	e.mu.Lock()
	if err := e.require("submit", PhasePractice); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.capture == nil {
		e.mu.Unlock()
		return ErrNotRecording
	}

	duration := e.elapsedLocked()
	data, err := e.capture.Stop()
	e.releaseCapture()
	e.elapsed, e.runningSince = duration, time.Time{}
	if err != nil {
		e.resetClock()
		e.mu.Unlock()
		return fmt.Errorf("stop recording: %w", err)
	}

	expected := e.sess.Current()
	req := stt.Request{
		Audio:    data,
		Filename: fmt.Sprintf("chunk-%d%s", e.sess.Index+1, audio.Extension(data)),
		Language: e.language,
		Hint:     expected,
		Duration: duration,
	}
	gen := e.generation
	ctx, cancel := context.WithCancel(stt.WithPurpose(ctx, "practice"))
	e.cancel = cancel
	e.phase = PhaseProcessing
	e.mu.Unlock()

	res, err := e.provider.Transcribe(ctx, req)
	cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return ErrAbandoned
	}
	e.cancel = nil

	if err != nil {
		slog.Warn("transcription failed", "session", e.sess.ID, "chunk", e.sess.Index, "err", err)
		e.resetClock()
		e.phase = PhasePractice
		return fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	text, rejection := scoring.Check(res.Text, expected)
	if rejection != scoring.RejectNone {
		slog.Info("transcription rejected", "chunk", e.sess.Index, "reason", rejection, "raw", res.Text)
	}
	e.sess.Transcript = res.Text
	e.sess.Rejection = rejection
	e.sess.ChunkDuration = duration
	e.sess.Review = scoring.Align(expected, text)
	e.sess.Heard = make([]string, len(e.sess.Review))
	for i, it := range e.sess.Review {
		e.sess.Heard[i] = it.Spoken
	}
	e.phase = PhaseCorrection
	return nil
}
