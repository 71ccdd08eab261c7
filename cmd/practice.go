package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/abhisek/reciter/internal/app"
	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/config"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/abhisek/reciter/internal/segment"
	"github.com/abhisek/reciter/internal/session"
	"github.com/abhisek/reciter/internal/store"
	"github.com/abhisek/reciter/internal/stt"
	"github.com/abhisek/reciter/internal/textsrc"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <file>",
	Short: "Start an interactive recitation session",
	Long: `Start an interactive recitation session for a .txt, .md or .pdf file.
Use "-" to read the text from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, args[0])
	},
}

func init() {
	addPracticeFlags(practiceCmd)
}

func addPracticeFlags(c *cobra.Command) {
	c.Flags().String("level", "", "Practice level: hint or recall (default from config, else hint)")
	c.Flags().String("audio-dir", "", "Replay prepared recordings from this directory instead of the microphone")
}

// loadSegments reads and splits the text at path.
func loadSegments(path string) ([]segment.Segment, error) {
	text, err := textsrc.Load(path)
	if err != nil {
		return nil, err
	}
	segs := segment.Split(text)
	if len(segs) == 0 {
		return nil, textsrc.ErrEmptyText
	}
	return segs, nil
}

func practiceLevel(cmd *cobra.Command, fc config.FileConfig) (scoring.Level, error) {
	if name, _ := cmd.Flags().GetString("level"); name != "" {
		return scoring.ParseLevel(name)
	}
	return fc.Level(scoring.LevelPartialHint)
}

func practiceDevice(cmd *cobra.Command, fc config.FileConfig) (audio.Device, error) {
	if dir, _ := cmd.Flags().GetString("audio-dir"); dir != "" {
		return audio.NewFileDir(dir)
	}
	return fc.RecorderCommand(audio.DefaultCommand()), nil
}

// newProvider layers the config file over defaults, then the environment,
// and builds the middleware-wrapped provider.
func newProvider(ctx context.Context, fc config.FileConfig, repo store.STTRequestLogger) (stt.Provider, stt.Config, error) {
	base, err := fc.ApplySTT(stt.DefaultConfig())
	if err != nil {
		return nil, base, fmt.Errorf("apply config: %w", err)
	}
	p, cfg, err := stt.NewProviderFromEnv(ctx, base, repo)
	if err != nil {
		return nil, cfg, fmt.Errorf("transcription provider not configured: %w", err)
	}
	return p, cfg, nil
}

func sourceLabel(path string) string {
	if path == textsrc.Stdin {
		return textsrc.Stdin
	}
	return filepath.Base(path)
}

// runPractice wires the session engine to its collaborators and runs the TUI.
func runPractice(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fc, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	level, err := practiceLevel(cmd, fc)
	if err != nil {
		return err
	}
	segs, err := loadSegments(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	device, err := practiceDevice(cmd, fc)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	provider, sttCfg, err := newProvider(ctx, fc, eventRepo)
	if err != nil {
		return err
	}

	lvl, err := logLevel(cmd, fc)
	if err != nil {
		return err
	}
	closeLog, err := logToFile(config.DefaultLogPath(), lvl)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("starting practice",
		"source", sourceLabel(path),
		"segments", len(segs),
		"level", level,
		"provider", sttCfg.Provider,
		"model", provider.ModelID(),
	)

	engine := session.New(segs, device, provider,
		session.WithRecorder(eventRepo),
		session.WithLevel(level),
		session.WithLanguage(sttCfg.Language),
		session.WithSource(sourceLabel(path)),
		session.WithOnComplete(func(score int) {
			slog.Info("session complete", "score", score)
		}),
	)
	return app.Run(engine, eventRepo)
}
