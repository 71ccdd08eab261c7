package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{tableSessionEvents, tableChunkEvents, tableSTTRequestEvents, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := migrate(context.Background(), s.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Errorf("seq[%d] = %d, want > %d", i, seq, prev)
		}
		prev = seq
	}
}

func TestSTTRequestAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []struct{ provider, model string }{
		{"openai", "whisper-1"},
		{"openai", "whisper-1"},
		{"gemini", "gemini-2.0-flash"},
	}
	for i, c := range calls {
		err := repo.AppendSTTRequest(ctx, STTRequestEventData{
			Provider:   c.provider,
			Model:      c.model,
			Purpose:    "practice",
			AudioBytes: 1000 * (i + 1),
			AudioMs:    int64(10_000 * (i + 1)),
			LatencyMs:  int64(100 * (i + 1)),
			Success:    i != 1,
			Transcript: "hello",
			Hint:       "hello",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QuerySTTEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Model != "gemini-2.0-flash" {
		t.Errorf("newest first: got %q", events[0].Model)
	}
	if events[1].Success {
		t.Error("expected second request to be a failure")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	limited, err := repo.QuerySTTEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d events, want 2", len(limited))
	}

	after, err := repo.QuerySTTEvents(ctx, QueryOpts{After: events[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].ID != events[0].ID {
		t.Errorf("after: got %+v", after)
	}

	future, err := repo.QuerySTTEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("from: got %d events, want 0", len(future))
	}
}

func TestGetSTTEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSTTRequest(ctx, STTRequestEventData{Provider: "openai", Model: "whisper-1", Purpose: "cli", Success: true, Transcript: "four score"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	events, err := repo.QuerySTTEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	ev, err := repo.GetSTTEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ev == nil || ev.Transcript != "four score" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	missing, err := repo.GetSTTEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestSTTUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []STTRequestEventData{
		{Provider: "openai", Model: "whisper-1", AudioMs: 30_000, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "whisper-1", AudioMs: 60_000, LatencyMs: 400, Success: false},
		{Provider: "gemini", Model: "gemini-2.0-flash", AudioMs: 15_000, LatencyMs: 900, Success: true},
	}
	for _, d := range data {
		d.Purpose = "practice"
		if err := repo.AppendSTTRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.STTUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d rows, want 2", len(usage))
	}
	// Sorted by provider.
	if usage[0].Provider != "gemini" || usage[1].Model != "whisper-1" {
		t.Fatalf("unexpected order: %+v", usage)
	}
	w := usage[1]
	if w.Requests != 2 || w.Failures != 1 || w.AudioMs != 90_000 || w.AvgLatencyMs != 300 {
		t.Errorf("unexpected whisper usage: %+v", w)
	}
}

func TestRecentSessions(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "a", Action: ActionStart, Source: "poem.txt", Level: "partial-hint", Chunks: 2},
		{SessionID: "b", Action: ActionStart, Source: "speech.md", Level: "pure-recall", Chunks: 1},
		{SessionID: "a", Action: ActionComplete, Source: "poem.txt", Level: "partial-hint", Chunks: 2, Score: 88, Scored: true},
		{SessionID: "b", Action: ActionAbandon, Source: "speech.md"},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := repo.RecentSessions(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].SessionID != "b" || records[0].Status != ActionAbandon {
		t.Errorf("expected b abandoned first, got %+v", records[0])
	}
	a := records[1]
	if a.Status != ActionComplete || !a.Scored || a.Score != 88 || a.Source != "poem.txt" {
		t.Errorf("unexpected record for a: %+v", a)
	}
	if a.StartedAt.After(a.UpdatedAt) {
		t.Errorf("started %v after updated %v", a.StartedAt, a.UpdatedAt)
	}

	limited, err := repo.RecentSessions(ctx, 1)
	if err != nil {
		t.Fatalf("recent limited: %v", err)
	}
	if len(limited) != 1 || limited[0].SessionID != "b" {
		t.Errorf("limit: got %+v", limited)
	}
}

func TestSessionChunks(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	chunks := []ChunkEventData{
		{SessionID: "s1", Level: "partial-hint", ChunkIndex: 0, Expected: "The quick brown fox", Spoken: "The quick fox", Accuracy: 75, Missed: []string{"brown"}, DurationMs: 4000},
		{SessionID: "s2", Level: "partial-hint", ChunkIndex: 0, Expected: "other", Accuracy: 0},
		{SessionID: "s1", Level: "partial-hint", ChunkIndex: 1, Expected: "jumps over", Spoken: "jumps over", Accuracy: 100},
	}
	for _, c := range chunks {
		if err := repo.AppendChunkEvent(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.SessionChunks(ctx, "s1")
	if err != nil {
		t.Fatalf("session chunks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].ChunkIndex != 0 || got[1].ChunkIndex != 1 {
		t.Errorf("unexpected order: %d, %d", got[0].ChunkIndex, got[1].ChunkIndex)
	}
	if len(got[0].Missed) != 1 || got[0].Missed[0] != "brown" {
		t.Errorf("missed = %v, want [brown]", got[0].Missed)
	}
	if got[1].Missed == nil || len(got[1].Missed) != 0 {
		t.Errorf("expected empty missed list, got %v", got[1].Missed)
	}
	if got[0].DurationMs != 4000 {
		t.Errorf("duration = %d, want 4000", got[0].DurationMs)
	}
}
