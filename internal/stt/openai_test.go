package stt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	client := openai.NewClientWithConfig(config)

	return &OpenAIProvider{
		client: client,
		model:  "whisper-1",
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var gotPath, gotModel, gotPrompt string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotPrompt = r.FormValue("prompt")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"text": "  The quick brown fox.  ",
		})
	}

	p := newTestOpenAIProvider(t, handler)
	res, err := p.Transcribe(context.Background(), Request{
		Audio:    []byte("RIFF....WAVE"),
		Filename: "chunk-1.wav",
		Hint:     "The quick brown fox.",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "The quick brown fox." {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if res.Language != "en" {
		t.Fatalf("expected language 'en', got %q", res.Language)
	}
	if gotPath != "/v1/audio/transcriptions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("expected model whisper-1, got %q", gotModel)
	}
	if gotPrompt != "The quick brown fox." {
		t.Fatalf("expected hint as prompt, got %q", gotPrompt)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "requests",
				"message": "Rate limit exceeded",
				"code":    "rate_limit_exceeded",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Transcribe(context.Background(), Request{Audio: []byte("x")})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "server_error",
				"message": "Internal server error",
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Transcribe(context.Background(), Request{Audio: []byte("x")})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_AudioTooLarge(t *testing.T) {
	p := &OpenAIProvider{model: "whisper-1"}
	_, err := p.Transcribe(context.Background(), Request{Audio: make([]byte, openaiMaxUpload+1)})
	var tooLarge *ErrAudioTooLarge
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected ErrAudioTooLarge, got %v", err)
	}
}

func TestOpenAIProvider_ModelMapping(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "whisper"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "whisper-1" {
		t.Fatalf("expected 'whisper-1', got %q", p.ModelID())
	}

	p, _ = NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "custom-model"})
	if p.ModelID() != "custom-model" {
		t.Fatalf("expected passthrough, got %q", p.ModelID())
	}
}

func TestOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestPromptFromHint_KeepsTail(t *testing.T) {
	words := make([]string, openaiPromptWords+20)
	for i := range words {
		words[i] = "w"
	}
	words[len(words)-1] = "last"
	got := strings.Fields(promptFromHint(strings.Join(words, " ")))
	if len(got) != openaiPromptWords {
		t.Fatalf("expected %d words, got %d", openaiPromptWords, len(got))
	}
	if got[len(got)-1] != "last" {
		t.Fatalf("expected tail preserved, got %q", got[len(got)-1])
	}
}
