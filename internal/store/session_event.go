package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insertEvent(ctx, tableSessionEvents,
		[]string{"session_id", "action", "source", "level", "chunks", "score", "scored", "duration_ms"},
		[]any{data.SessionID, data.Action, data.Source, data.Level, data.Chunks, data.Score, data.Scored, data.DurationMs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendChunkEvent(ctx context.Context, data ChunkEventData) error {
	missed := data.Missed
	if missed == nil {
		missed = []string{}
	}
	missedJSON, err := json.Marshal(missed)
	if err != nil {
		return fmt.Errorf("marshal missed words: %w", err)
	}

	err = r.insertEvent(ctx, tableChunkEvents,
		[]string{"session_id", "level", "chunk_index", "expected", "spoken", "accuracy", "missed", "duration_ms"},
		[]any{data.SessionID, data.Level, data.ChunkIndex, data.Expected, data.Spoken, data.Accuracy, string(missedJSON), data.DurationMs},
	)
	if err != nil {
		return fmt.Errorf("save chunk event: %w", err)
	}
	return nil
}

// RecentSessions folds session_events into one record per session. Events
// are walked newest first, so the first event seen for a session is its
// current status and the last one seen is its start.
func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	query, args := sqlite().Select("session_id", "timestamp", "action", "source", "chunks", "score", "scored").
		From(entsql.Table(tableSessionEvents)).
		OrderBy(entsql.Desc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	var out []SessionRecord
	for rows.Next() {
		var (
			rec SessionRecord
			ts  int64
		)
		if err := rows.Scan(&rec.SessionID, &ts, &rec.Status, &rec.Source, &rec.Chunks, &rec.Score, &rec.Scored); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		at := fromMillis(ts)

		if i, ok := index[rec.SessionID]; ok {
			out[i].StartedAt = at
			if out[i].Source == "" {
				out[i].Source = rec.Source
			}
			continue
		}
		if limit > 0 && len(out) >= limit {
			continue
		}
		rec.StartedAt, rec.UpdatedAt = at, at
		index[rec.SessionID] = len(out)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) SessionChunks(ctx context.Context, sessionID string) ([]ChunkEvent, error) {
	query, args := sqlite().Select("id", "sequence", "timestamp", "session_id", "level", "chunk_index",
		"expected", "spoken", "accuracy", "missed", "duration_ms").
		From(entsql.Table(tableChunkEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunk events: %w", err)
	}
	defer rows.Close()

	var out []ChunkEvent
	for rows.Next() {
		var (
			ev     ChunkEvent
			ts     int64
			missed string
		)
		err := rows.Scan(&ev.ID, &ev.Sequence, &ts, &ev.SessionID, &ev.Level, &ev.ChunkIndex,
			&ev.Expected, &ev.Spoken, &ev.Accuracy, &missed, &ev.DurationMs)
		if err != nil {
			return nil, fmt.Errorf("scan chunk event: %w", err)
		}
		if err := json.Unmarshal([]byte(missed), &ev.Missed); err != nil {
			return nil, fmt.Errorf("decode missed words: %w", err)
		}
		ev.Timestamp = fromMillis(ts)
		out = append(out, ev)
	}
	return out, rows.Err()
}
