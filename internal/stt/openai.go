package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openaiMaxUpload is the audio endpoint's file size limit.
const openaiMaxUpload = 25 << 20

// openaiPromptWords caps the hint passed as prompt; the endpoint only reads
// the final ~224 tokens.
const openaiPromptWords = 180

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"whisper":                openai.Whisper1,
	"gpt-4o-transcribe":      "gpt-4o-transcribe",
	"gpt-4o-mini-transcribe": "gpt-4o-mini-transcribe",
}

// OpenAIProvider implements Provider using the OpenAI audio transcription
// endpoint. Compatible servers work via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  resolveModel(cfg.Model, openaiModels),
	}, nil
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if len(req.Audio) > openaiMaxUpload {
		return nil, &ErrAudioTooLarge{Size: len(req.Audio), Limit: openaiMaxUpload}
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: req.filename(),
		Reader:   bytes.NewReader(req.Audio),
		Prompt:   promptFromHint(req.Hint),
		Language: req.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, mapOpenAIError(err)
	}

	lang := resp.Language
	if lang == "" {
		lang = req.Language
	}
	return &Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: lang,
		Model:    p.model,
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// promptFromHint keeps the last openaiPromptWords words of the hint.
func promptFromHint(hint string) string {
	words := strings.Fields(hint)
	if len(words) > openaiPromptWords {
		words = words[len(words)-openaiPromptWords:]
	}
	return strings.Join(words, " ")
}

func mapOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status == http.StatusRequestEntityTooLarge:
		return &ErrAudioTooLarge{Limit: openaiMaxUpload}
	case status == http.StatusBadRequest:
		return &ErrInvalidResponse{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
