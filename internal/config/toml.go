package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/stt"
)

// FileConfig represents the TOML configuration file. Pointer fields stay
// nil for keys the file leaves out.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Recorder RecorderConfig `toml:"recorder"`
	STT      STTConfig      `toml:"stt"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Level    *string `toml:"level"`
	Language *string `toml:"language"`
}

// RecorderConfig selects the external capture program.
type RecorderConfig struct {
	Command *string   `toml:"command"`
	Args    *[]string `toml:"args"`
	Format  *string   `toml:"format"`
}

// STTConfig maps transcription settings. Model applies to the selected
// provider.
type STTConfig struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	Language *string `toml:"language"`
	Timeout  *string `toml:"timeout"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Level returns the configured practice level, or fallback when unset.
func (c FileConfig) Level(fallback scoring.Level) (scoring.Level, error) {
	if c.Practice.Level == nil {
		return fallback, nil
	}
	return scoring.ParseLevel(*c.Practice.Level)
}

// ApplySTT overlays the file's transcription settings onto cfg. The
// practice language is used when [stt] sets none.
func (c FileConfig) ApplySTT(cfg stt.Config) (stt.Config, error) {
	if c.STT.Provider != nil {
		cfg.Provider = *c.STT.Provider
	}
	if c.STT.Model != nil {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.Model = *c.STT.Model
		case "gemini":
			cfg.Gemini.Model = *c.STT.Model
		}
	}
	if c.Practice.Language != nil {
		cfg.Language = *c.Practice.Language
	}
	if c.STT.Language != nil {
		cfg.Language = *c.STT.Language
	}
	if c.STT.Timeout != nil {
		d, err := time.ParseDuration(*c.STT.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("stt.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// RecorderCommand returns base with the file's recorder settings applied. Setting
// a command without args clears the default args.
func (c FileConfig) RecorderCommand(base *audio.Command) *audio.Command {
	out := *base
	out.Args = append([]string(nil), base.Args...)
	if c.Recorder.Command != nil {
		out.Program = *c.Recorder.Command
		out.Args = nil
	}
	if c.Recorder.Args != nil {
		out.Args = append([]string(nil), (*c.Recorder.Args)...)
	}
	if c.Recorder.Format != nil {
		out.Format = *c.Recorder.Format
	}
	return &out
}

// LogLevel returns the configured log level, or fallback when unset.
func (c FileConfig) LogLevel(fallback string) string {
	if c.Log.Level == nil {
		return fallback
	}
	return *c.Log.Level
}
