package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	entsql "entgo.io/ent/dialect/sql"
)

var sttColumns = []string{
	"provider", "model", "purpose", "audio_bytes", "audio_ms", "latency_ms",
	"success", "error_message", "transcript", "hint",
}

func (r *eventRepo) AppendSTTRequest(ctx context.Context, data STTRequestEventData) error {
	err := r.insertEvent(ctx, tableSTTRequestEvents, sttColumns, []any{
		data.Provider,
		data.Model,
		data.Purpose,
		data.AudioBytes,
		data.AudioMs,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
		data.Transcript,
		data.Hint,
	})
	if err != nil {
		return fmt.Errorf("save STT request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySTTEvents(ctx context.Context, opts QueryOpts) ([]STTRequestEvent, error) {
	s := sqlite().Select(append([]string{"id", "sequence", "timestamp"}, sttColumns...)...).
		From(entsql.Table(tableSTTRequestEvents)).
		OrderBy(entsql.Desc("sequence"))
	query, args := applyOpts(s, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query STT events: %w", err)
	}
	defer rows.Close()

	var out []STTRequestEvent
	for rows.Next() {
		ev, err := scanSTTEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetSTTEvent(ctx context.Context, id int) (*STTRequestEvent, error) {
	query, args := sqlite().Select(append([]string{"id", "sequence", "timestamp"}, sttColumns...)...).
		From(entsql.Table(tableSTTRequestEvents)).
		Where(entsql.EQ("id", id)).
		Query()

	ev, err := scanSTTEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ev, err
}

func (r *eventRepo) STTUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := sqlite().Select("provider", "model", "success", "audio_ms", "latency_ms").
		From(entsql.Table(tableSTTRequestEvents)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query STT usage: %w", err)
	}
	defer rows.Close()

	type key struct{ provider, model string }
	usage := make(map[key]*ModelUsage)
	latency := make(map[key]int64)
	for rows.Next() {
		var (
			k         key
			success   bool
			audioMs   int64
			latencyMs int64
		)
		if err := rows.Scan(&k.provider, &k.model, &success, &audioMs, &latencyMs); err != nil {
			return nil, fmt.Errorf("scan STT usage: %w", err)
		}
		u, ok := usage[k]
		if !ok {
			u = &ModelUsage{Provider: k.provider, Model: k.model}
			usage[k] = u
		}
		u.Requests++
		if !success {
			u.Failures++
		}
		u.AudioMs += audioMs
		latency[k] += latencyMs
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ModelUsage, 0, len(usage))
	for k, u := range usage {
		u.AvgLatencyMs = latency[k] / int64(u.Requests)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSTTEvent(row rowScanner) (*STTRequestEvent, error) {
	var (
		ev STTRequestEvent
		ts int64
	)
	err := row.Scan(
		&ev.ID, &ev.Sequence, &ts,
		&ev.Provider, &ev.Model, &ev.Purpose,
		&ev.AudioBytes, &ev.AudioMs, &ev.LatencyMs,
		&ev.Success, &ev.ErrorMessage, &ev.Transcript, &ev.Hint,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan STT event: %w", err)
	}
	ev.Timestamp = fromMillis(ts)
	return &ev, nil
}
