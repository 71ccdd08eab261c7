package stt

import (
	"context"
	"fmt"

	"github.com/abhisek/reciter/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout, retry and logging middleware.
// A nil eventRepo disables event logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.STTRequestLogger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = EchoProvider{}
	default:
		return nil, fmt.Errorf("unknown transcription provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	p = WithTimeout(p, cfg.Timeout)

	return p, nil
}

// NewProviderFromEnv builds a provider from base overlaid with RECITER_*
// variables. When the selected provider has no key, the standard
// OPENAI_API_KEY / GEMINI_API_KEY variables are probed.
func NewProviderFromEnv(ctx context.Context, base Config, eventRepo store.STTRequestLogger) (Provider, Config, error) {
	cfg := ApplyEnv(base)
	if !cfg.HasKey() {
		if found, ok := DiscoverConfig(cfg); ok {
			cfg = found
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	return p, cfg, err
}
