package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/store"
	"github.com/abhisek/reciter/internal/textmatch"
)

// Review returns a copy of the aligned words for the current chunk. It is
// empty outside correction.
func (e *Engine) Review() []scoring.ReviewItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.sess.Review)
}

// Editable reports whether review item i may be edited.
func (e *Engine) Editable(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editable(i) == nil
}

func (e *Engine) editable(i int) error {
	if i < 0 || i >= len(e.sess.Review) {
		return fmt.Errorf("review item %d: %w", i, ErrIndexOutOfRange)
	}
	if textmatch.IsMatch(e.sess.Review[i].Original, e.sess.Heard[i]) {
		return ErrNotEditable
	}
	return nil
}

// BeginEdit marks review item i as being edited.
func (e *Engine) BeginEdit(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("edit", PhaseCorrection); err != nil {
		return err
	}
	if err := e.editable(i); err != nil {
		return err
	}
	for j := range e.sess.Review {
		e.sess.Review[j].Editing = j == i
	}
	return nil
}

// Edit replaces the spoken value of review item i. An empty word restores
// the Sentinel. Only items that were heard wrong may be edited.
func (e *Engine) Edit(i int, word string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("edit", PhaseCorrection); err != nil {
		return err
	}
	if err := e.editable(i); err != nil {
		return err
	}
	word = strings.TrimSpace(word)
	if word == "" {
		word = scoring.Sentinel
	}
	e.sess.Review[i].Spoken = word
	e.sess.Review[i].Editing = false
	return nil
}

// Retake drops the review and returns to practice for the same chunk.
func (e *Engine) Retake() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.require("retake", PhaseCorrection); err != nil {
		return err
	}
	e.clearChunk()
	e.phase = PhasePractice
	return nil
}

// Finish scores the reviewed chunk and advances. After the last chunk the
// level summary is completed, the engine enters results and the completion
// callback receives the session score.
func (e *Engine) Finish(ctx context.Context) error {
	e.mu.Lock()
	if err := e.require("finish", PhaseCorrection); err != nil {
		e.mu.Unlock()
		return err
	}

	res := scoring.Finalize(e.sess.Index, e.sess.Current(), e.sess.Review, e.sess.ChunkDuration, e.sess.Level)
	e.sess.Results = append(e.sess.Results, res)
	e.recordChunk(ctx, res)
	slog.Debug("chunk finished", "session", e.sess.ID, "chunk", res.ChunkIndex, "accuracy", res.Accuracy)

	last := e.sess.IsLast()
	e.clearChunk()
	e.sess.Index++
	if !last {
		e.phase = PhasePractice
		e.mu.Unlock()
		return nil
	}

	summary := scoring.SummarizeLevel(e.sess.Results, e.sess.Level)
	summary.Completed = true
	e.sess.Summaries[e.sess.Level] = summary
	e.phase = PhaseResults

	score, _ := scoring.SessionScore(e.sess.Summaries)
	e.recordSession(store.ActionComplete)
	slog.Info("session complete", "session", e.sess.ID, "level", e.sess.Level, "level_accuracy", summary.Accuracy, "score", score)

	cb := e.onComplete
	e.mu.Unlock()

	if cb != nil {
		cb(score)
	}
	return nil
}
