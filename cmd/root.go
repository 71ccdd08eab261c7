package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/abhisek/reciter/internal/config"
	"github.com/abhisek/reciter/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reciter [file]",
	Short: "Memorize text by reciting it aloud",
	Long: `Reciter splits a text into chunks, listens while you recite each one from
memory, and scores every word you got right.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runPractice(cmd, args[0])
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RECITER_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/reciter/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sttCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then RECITER_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadFileConfig reads the config file named by --config or the default
// location. A missing file yields an empty config.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fc, err := config.LoadConfig(path)
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("load config: %w", err)
	}
	return fc, nil
}

// logLevel resolves --log-level, then the config file, then info.
func logLevel(cmd *cobra.Command, fc config.FileConfig) (slog.Level, error) {
	name, _ := cmd.Flags().GetString("log-level")
	if name == "" {
		name = fc.LogLevel("info")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return lvl, nil
}

// setupLogging sends structured logs to stderr. The TUI redirects them to
// the log file before it takes over the terminal.
func setupLogging(cmd *cobra.Command, _ []string) error {
	fc, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	lvl, err := logLevel(cmd, fc)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// logToFile points the default logger at path and returns a closer.
func logToFile(path string, lvl slog.Level) (func() error, error) {
	if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))
	return f.Close, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
