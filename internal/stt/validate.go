package stt

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema used for structured provider output.
type Schema struct {
	Name       string
	Definition map[string]any
}

// transcriptSchema describes the structured reply requested from providers
// that return JSON rather than a plain transcript.
var transcriptSchema = &Schema{
	Name: "transcript",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transcript": map[string]any{
				"type":        "string",
				"description": "Verbatim words spoken in the recording, without corrections.",
			},
			"speech_detected": map[string]any{
				"type":        "boolean",
				"description": "False when the recording holds no intelligible speech.",
			},
		},
		"required": []any{"transcript", "speech_detected"},
	},
}

// transcriptReply is the decoded form of transcriptSchema.
type transcriptReply struct {
	Transcript     string `json:"transcript"`
	SpeechDetected bool   `json:"speech_detected"`
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse validates raw JSON against the given Schema.
// Returns nil if no schema is provided or validation passes.
// Returns *ErrInvalidResponse on failure.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so round-trip the map.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

// decodeTranscript validates and decodes a structured transcript reply.
// A reply flagged as holding no speech yields an empty transcript.
func decodeTranscript(raw json.RawMessage) (string, error) {
	if err := validateResponse(transcriptSchema, raw); err != nil {
		return "", err
	}
	var reply transcriptReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", &ErrInvalidResponse{Content: raw, Err: err}
	}
	if !reply.SpeechDetected {
		return "", nil
	}
	return reply.Transcript, nil
}
