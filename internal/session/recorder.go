package session

import (
	"context"
	"log/slog"

	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/store"
)

// Recorder persists run history. store.EventRepo satisfies it.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendChunkEvent(ctx context.Context, data store.ChunkEventData) error
}

// recordSession logs a lifecycle event. Failures are logged and swallowed
// so history problems never block a run. Caller holds e.mu.
func (e *Engine) recordSession(action string) {
	if e.recorder == nil || e.sess.ID == "" {
		return
	}
	score, scored := scoring.SessionScore(e.sess.Summaries)
	var total int64
	for _, r := range e.sess.Results {
		total += r.Duration.Milliseconds()
	}
	data := store.SessionEventData{
		SessionID:  e.sess.ID,
		Action:     action,
		Source:     e.sess.Source,
		Level:      string(e.sess.Level),
		Chunks:     len(e.sess.Chunks),
		Score:      score,
		Scored:     scored,
		DurationMs: total,
	}
	if err := e.recorder.AppendSessionEvent(context.Background(), data); err != nil {
		slog.Warn("failed to record session event", "action", action, "session", e.sess.ID, "err", err)
	}
}

// recordChunk logs a finalized chunk. Caller holds e.mu.
func (e *Engine) recordChunk(ctx context.Context, r scoring.ChunkResult) {
	if e.recorder == nil {
		return
	}
	data := store.ChunkEventData{
		SessionID:  e.sess.ID,
		Level:      string(r.Level),
		ChunkIndex: r.ChunkIndex,
		Expected:   r.Expected,
		Spoken:     r.Spoken,
		Accuracy:   r.Accuracy,
		Missed:     r.Missed,
		DurationMs: r.Duration.Milliseconds(),
	}
	if err := e.recorder.AppendChunkEvent(ctx, data); err != nil {
		slog.Warn("failed to record chunk result", "session", e.sess.ID, "chunk", r.ChunkIndex, "err", err)
	}
}
