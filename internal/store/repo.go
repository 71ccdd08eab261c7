package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session actions recorded in session_events.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionAbandon  = "abandon"
	ActionRestart  = "restart"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID  string
	Action     string
	Source     string // file name or "-" for stdin
	Level      string
	Chunks     int   // chunks selected for the run
	Score      int   // session score, when Scored
	Scored     bool  // false when no level has completed
	DurationMs int64 // total recorded time so far
}

// ChunkEventData captures one scored chunk.
type ChunkEventData struct {
	SessionID  string
	Level      string
	ChunkIndex int
	Expected   string
	Spoken     string
	Accuracy   int
	Missed     []string
	DurationMs int64
}

// STTRequestEventData captures the data for a single transcription request.
type STTRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	AudioBytes   int
	AudioMs      int64
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Transcript   string
	Hint         string
}

// STTRequestEvent is a stored transcription request.
type STTRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	STTRequestEventData
}

// ChunkEvent is a stored chunk result.
type ChunkEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ChunkEventData
}

// SessionRecord summarizes one session from its lifecycle events.
type SessionRecord struct {
	SessionID string
	Source    string
	Status    string // last recorded action
	Score     int
	Scored    bool
	Chunks    int
	StartedAt time.Time
	UpdatedAt time.Time
}

// ModelUsage aggregates transcription requests per model.
type ModelUsage struct {
	Provider     string
	Model        string
	Requests     int
	Failures     int
	AudioMs      int64
	AvgLatencyMs int64
}

// STTRequestLogger is the narrow write side used by the provider logging
// decorator.
type STTRequestLogger interface {
	// AppendSTTRequest records a speech-to-text API call event.
	AppendSTTRequest(ctx context.Context, data STTRequestEventData) error
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	STTRequestLogger

	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendChunkEvent records one scored chunk.
	AppendChunkEvent(ctx context.Context, data ChunkEventData) error

	// QuerySTTEvents returns transcription events, newest first.
	QuerySTTEvents(ctx context.Context, opts QueryOpts) ([]STTRequestEvent, error)

	// GetSTTEvent returns one transcription event, or nil if absent.
	GetSTTEvent(ctx context.Context, id int) (*STTRequestEvent, error)

	// STTUsageByModel aggregates transcription events per provider and model.
	STTUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// RecentSessions returns up to limit sessions, most recently active first.
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// SessionChunks returns the chunk results of a session in recorded order.
	SessionChunks(ctx context.Context, sessionID string) ([]ChunkEvent, error)
}
