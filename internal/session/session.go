// Package session drives a recitation run: chunk selection, recording,
// transcription review and scoring across chunks and practice levels.
package session

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/segment"
)

// Session is the serializable state of one run. The Engine owns the live
// copy; Snapshot hands out deep copies.
type Session struct {
	// ID identifies the run in the event store. Empty until Start.
	ID string

	// Source names where the text came from (file name or "-").
	Source string

	// Chunks are the selected segment texts in original order, frozen at Start.
	Chunks []string

	// Index is the chunk being practiced, in [0, len(Chunks)].
	Index int

	// Level is chosen in setup and fixed for the run.
	Level scoring.Level

	// Results holds one entry per finalized chunk, append-only.
	Results []scoring.ChunkResult

	// Summaries keeps the latest completed run per level. It survives
	// Restart, so running both levels yields a two-level score.
	Summaries map[scoring.Level]scoring.LevelSummary

	// Review is the aligned word list while in correction.
	Review []scoring.ReviewItem

	// Heard holds the spoken values as transcribed, before any edit. An
	// item is editable when its heard value did not match.
	Heard []string

	// Transcript is the raw provider output for the current chunk.
	Transcript string

	// Rejection tells why Transcript was discarded, if it was.
	Rejection scoring.Rejection

	// ChunkDuration is the recorded time of the submitted take.
	ChunkDuration time.Duration

	StartedAt time.Time
}

// Snapshot is a consistent copy of the engine state for rendering.
type Snapshot struct {
	Phase    Phase
	Session  Session
	Segments []segment.Segment
	Selected []int

	Recording bool
	Paused    bool
	Elapsed   time.Duration

	// Score is the session score once a level has completed.
	Score  int
	Scored bool
}

// Current returns the text of the chunk being practiced, or "".
func (s Session) Current() string {
	if s.Index < 0 || s.Index >= len(s.Chunks) {
		return ""
	}
	return s.Chunks[s.Index]
}

// IsLast reports whether the current chunk is the final one.
func (s Session) IsLast() bool {
	return s.Index == len(s.Chunks)-1
}

func (s Session) clone() Session {
	out := s
	out.Chunks = slices.Clone(s.Chunks)
	out.Review = slices.Clone(s.Review)
	out.Heard = slices.Clone(s.Heard)
	out.Summaries = maps.Clone(s.Summaries)
	out.Results = make([]scoring.ChunkResult, len(s.Results))
	for i, r := range s.Results {
		r.Missed = slices.Clone(r.Missed)
		out.Results[i] = r
	}
	return out
}
