package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/config"
	"github.com/abhisek/reciter/internal/scoring"
	"github.com/spf13/cobra"
)

func practiceTestCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	addPracticeFlags(c)
	c.Flags().String("log-level", "", "")
	for k, v := range flags {
		if err := c.Flags().Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	return c
}

func TestPracticeLevel(t *testing.T) {
	recall := "pure-recall"
	fc := config.FileConfig{Practice: config.PracticeConfig{Level: &recall}}

	got, err := practiceLevel(practiceTestCmd(t, nil), config.FileConfig{})
	if err != nil || got != scoring.LevelPartialHint {
		t.Errorf("default level = %v, %v", got, err)
	}
	got, err = practiceLevel(practiceTestCmd(t, nil), fc)
	if err != nil || got != scoring.LevelPureRecall {
		t.Errorf("config level = %v, %v", got, err)
	}
	got, err = practiceLevel(practiceTestCmd(t, map[string]string{"level": "hint"}), fc)
	if err != nil || got != scoring.LevelPartialHint {
		t.Errorf("flag level = %v, %v", got, err)
	}
	if _, err := practiceLevel(practiceTestCmd(t, map[string]string{"level": "loud"}), fc); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestPracticeDevice(t *testing.T) {
	d, err := practiceDevice(practiceTestCmd(t, nil), config.FileConfig{})
	if err != nil {
		t.Fatalf("practiceDevice: %v", err)
	}
	if c, ok := d.(*audio.Command); !ok || c.Program != "rec" {
		t.Errorf("device = %#v, want default rec command", d)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chunk-1.wav"), audio.EncodeWAV(nil, 16000, 1), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err = practiceDevice(practiceTestCmd(t, map[string]string{"audio-dir": dir}), config.FileConfig{})
	if err != nil {
		t.Fatalf("practiceDevice with dir: %v", err)
	}
	if f, ok := d.(*audio.File); !ok || f.Remaining() != 1 {
		t.Errorf("device = %#v, want file replay with one recording", d)
	}
}

func TestLogLevel(t *testing.T) {
	warn := "warn"
	fc := config.FileConfig{Log: config.LogConfig{Level: &warn}}

	lvl, err := logLevel(practiceTestCmd(t, nil), fc)
	if err != nil || lvl != slog.LevelWarn {
		t.Errorf("config log level = %v, %v", lvl, err)
	}
	lvl, err = logLevel(practiceTestCmd(t, map[string]string{"log-level": "debug"}), fc)
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("flag log level = %v, %v", lvl, err)
	}
	if _, err := logLevel(practiceTestCmd(t, map[string]string{"log-level": "chatty"}), fc); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestLoadSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poem.txt")
	if err := os.WriteFile(path, []byte("First line here.\n\nSecond line."), 0o644); err != nil {
		t.Fatal(err)
	}
	segs, err := loadSegments(path)
	if err != nil {
		t.Fatalf("loadSegments: %v", err)
	}
	if len(segs) != 2 {
		t.Errorf("segments = %d, want 2", len(segs))
	}
	if got := sourceLabel(path); got != "poem.txt" {
		t.Errorf("sourceLabel = %q", got)
	}
	if got := sourceLabel("-"); got != "-" {
		t.Errorf("sourceLabel(-) = %q", got)
	}
}
