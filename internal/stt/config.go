package stt

import (
	"fmt"
	"os"
	"time"
)

// Config holds all transcription provider configuration.
type Config struct {
	// Provider selects which speech-to-text backend to use.
	// Values: "openai", "gemini", "mock"
	Provider string

	// Language is the ISO-639-1 hint passed with every request. Empty
	// lets the provider detect it.
	Language string

	OpenAI OpenAIConfig
	Gemini GeminiConfig
	Retry  RetryConfig

	// Timeout is the maximum duration for a single transcription
	// (including retries). Default: 60s.
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "whisper"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		OpenAI: OpenAIConfig{
			Model: "whisper",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overlays RECITER_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	if p := os.Getenv("RECITER_STT_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if l := os.Getenv("RECITER_STT_LANGUAGE"); l != "" {
		cfg.Language = l
	}

	if k := os.Getenv("RECITER_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("RECITER_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("RECITER_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("RECITER_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("RECITER_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (OpenAI → Gemini) and fills in the first provider whose key is found.
// Returns (cfg, false) unchanged if none found.
func DiscoverConfig(cfg Config) (Config, bool) {
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	return cfg, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("RECITER_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("RECITER_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown transcription provider: %q", c.Provider)
	}
	return nil
}

// HasKey reports whether the selected provider can run without further setup.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// Unknown names pass through as direct model IDs.
	return name
}
