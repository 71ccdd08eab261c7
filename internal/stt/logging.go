package stt

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/reciter/internal/store"
)

// LoggingProvider is a decorator that records every transcription request
// as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.STTRequestLogger
}

// WithLogging wraps a Provider with event logging. name is the provider
// family recorded with each event ("openai", "gemini", ...).
func WithLogging(p Provider, name string, repo store.STTRequestLogger) Provider {
	return &LoggingProvider{inner: p, provider: name, eventRepo: repo}
}

func (l *LoggingProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := l.inner.Transcribe(ctx, req)

	data := store.STTRequestEventData{
		Provider:   l.provider,
		Model:      l.inner.ModelID(),
		Purpose:    PurposeFrom(ctx),
		AudioBytes: len(req.Audio),
		AudioMs:    req.Duration.Milliseconds(),
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		Hint:       req.Hint,
	}
	if res != nil {
		if res.Model != "" {
			data.Model = res.Model
		}
		data.Transcript = res.Text
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The request outcome stands even when the event cannot be written.
	if logErr := l.eventRepo.AppendSTTRequest(ctx, data); logErr != nil {
		slog.Warn("failed to log transcription event", "err", logErr)
	}

	return res, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
