package stt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiMaxInline is the request size limit for inline audio data.
const geminiMaxInline = 20 << 20

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash":      "gemini-2.0-flash",
	"gemini-flash-lite": "gemini-2.0-flash-lite",
	"gemini-pro":        "gemini-2.5-pro",
}

const geminiInstruction = `You transcribe recordings of a person reciting a memorized passage.
Write exactly the words that are spoken, in order. Do not correct mistakes,
do not fill in skipped words, and do not add words that were not said.
If the recording contains no intelligible speech, set speech_detected to false
and transcript to an empty string.`

// GeminiProvider implements Provider using Gemini audio understanding with a
// structured transcript reply.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *GeminiProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if len(req.Audio) > geminiMaxInline {
		return nil, &ErrAudioTooLarge{Size: len(req.Audio), Limit: geminiMaxInline}
	}

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: geminiInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   buildGeminiSchema(transcriptSchema.Definition),
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, buildGeminiContents(req), config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, mapGeminiError(err)
	}

	text, err := decodeTranscript(json.RawMessage(result.Text()))
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:     strings.TrimSpace(text),
		Language: req.Language,
		Model:    p.model,
	}, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// buildGeminiContents packs the recording and the transcription request into
// a single user turn.
func buildGeminiContents(req Request) []*genai.Content {
	prompt := "Transcribe this recording."
	if req.Language != "" {
		prompt += fmt.Sprintf(" The speech is in language %q.", req.Language)
	}
	if req.Hint != "" {
		prompt += "\nThe speaker is attempting this passage; use it only for spelling of names:\n" + req.Hint
	}

	return []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: req.Audio, MIMEType: MIMEType(req.filename())}},
			{Text: prompt},
		},
	}}
}

// buildGeminiSchema converts a JSON Schema definition map to a genai.Schema.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	return schema
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code == http.StatusRequestEntityTooLarge:
			return &ErrAudioTooLarge{Limit: geminiMaxInline}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
