package stt

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RECITER_STT_PROVIDER", "RECITER_STT_LANGUAGE",
		"RECITER_OPENAI_API_KEY", "RECITER_OPENAI_MODEL", "RECITER_OPENAI_BASE_URL",
		"RECITER_GEMINI_API_KEY", "RECITER_GEMINI_MODEL",
		"OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.OpenAI.Model != "whisper" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Validate() == nil {
		t.Fatal("expected validation error without a key")
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECITER_STT_PROVIDER", "gemini")
	t.Setenv("RECITER_GEMINI_API_KEY", "g-key")
	t.Setenv("RECITER_GEMINI_MODEL", "gemini-pro")
	t.Setenv("RECITER_STT_LANGUAGE", "de")

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Language != "de" {
		t.Fatalf("expected language 'de', got %q", cfg.Language)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearEnv(t)
	if _, ok := DiscoverConfig(DefaultConfig()); ok {
		t.Fatal("expected no discovery without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := DiscoverConfig(DefaultConfig())
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g" {
		t.Fatalf("expected gemini discovery, got %+v", cfg)
	}

	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok = DiscoverConfig(DefaultConfig())
	if !ok || cfg.Provider != "openai" || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to take priority, got %+v", cfg)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "nope"
	if cfg.Validate() == nil {
		t.Fatal("expected error")
	}
	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock needs no key: %v", err)
	}
}
