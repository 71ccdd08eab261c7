package stt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/reciter/internal/store"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(MockResult{Text: "first"}, MockResult{Text: "second"})

	for _, want := range []string{"first", "second"} {
		res, err := mock.Transcribe(context.Background(), Request{Hint: want})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Text != want {
			t.Fatalf("expected %q, got %q", want, res.Text)
		}
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	if mock.Calls[1].Hint != "second" {
		t.Fatalf("expected recorded hint 'second', got %q", mock.Calls[1].Hint)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Transcribe(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestMockProvider_AddResult(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResult(MockResult{Err: errors.New("boom")})
	if _, err := mock.Transcribe(context.Background(), Request{}); err == nil || err.Error() != "boom" {
		t.Fatalf("expected canned error, got %v", err)
	}
}

func TestEchoProvider_ReturnsHint(t *testing.T) {
	res, err := EchoProvider{}.Transcribe(context.Background(), Request{Hint: "to be or not to be"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "to be or not to be" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestMIMEType(t *testing.T) {
	tests := map[string]string{
		"chunk-1.wav": "audio/wav",
		"take.MP3":    "audio/mpeg",
		"a.flac":      "audio/flac",
		"a.m4a":       "audio/mp4",
		"noext":       "audio/wav",
	}
	for name, want := range tests {
		if got := MIMEType(name); got != want {
			t.Errorf("MIMEType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Fatalf("expected 'unknown', got %q", got)
	}
	ctx := WithPurpose(context.Background(), "practice")
	if got := PurposeFrom(ctx); got != "practice" {
		t.Fatalf("expected 'practice', got %q", got)
	}
}

type recordingLogger struct {
	events []store.STTRequestEventData
	err    error
}

func (r *recordingLogger) AppendSTTRequest(_ context.Context, data store.STTRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	logger := &recordingLogger{}
	p := WithLogging(NewMockProvider(MockResult{Text: "hello world"}), "mock", logger)

	ctx := WithPurpose(context.Background(), "practice")
	if _, err := p.Transcribe(ctx, Request{Audio: []byte{1, 2, 3}, Hint: "hello world"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logger.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(logger.events))
	}
	ev := logger.events[0]
	if !ev.Success || ev.Purpose != "practice" || ev.AudioBytes != 3 || ev.Transcript != "hello world" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Provider != "mock" || ev.Model != "mock" {
		t.Fatalf("unexpected provider/model: %q/%q", ev.Provider, ev.Model)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	logger := &recordingLogger{}
	p := WithLogging(NewMockProvider(), "mock", logger)

	if _, err := p.Transcribe(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if len(logger.events) != 1 || logger.events[0].Success || logger.events[0].ErrorMessage == "" {
		t.Fatalf("expected one failed event, got %+v", logger.events)
	}
}

func TestLogging_LoggerErrorDoesNotFailRequest(t *testing.T) {
	logger := &recordingLogger{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResult{Text: "fine"}), "mock", logger)

	res, err := p.Transcribe(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "fine" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.Transcribe(context.Background(), Request{Hint: "echo me"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "echo me" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("whisper-1")
	if c == nil {
		t.Fatal("expected whisper-1 pricing")
	}
	// 90 seconds at $0.006/min.
	if got := c.Cost(90 * time.Second); got < 0.00899 || got > 0.00901 {
		t.Fatalf("expected ~0.009, got %f", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
