package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/reciter/internal/audio"
	"github.com/abhisek/reciter/internal/stt"
	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio>",
	Short: "Transcribe one recording with the configured provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		hint, _ := cmd.Flags().GetString("hint")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}

		fc, err := loadFileConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, cfg, err := newProvider(ctx, fc, st.EventRepo())
		if err != nil {
			return err
		}

		req := stt.Request{
			Audio:    data,
			Filename: filepath.Base(args[0]),
			Language: cfg.Language,
			Hint:     hint,
		}
		if d, ok := audio.WAVDuration(data); ok {
			req.Duration = d
		}

		res, err := provider.Transcribe(stt.WithPurpose(ctx, "cli"), req)
		if err != nil {
			return fmt.Errorf("transcribe: %w", err)
		}

		model := res.Model
		if model == "" {
			model = provider.ModelID()
		}

		fmt.Println(res.Text)
		fmt.Fprintf(os.Stderr, "\nModel:     %s\n", model)
		if res.Language != "" {
			fmt.Fprintf(os.Stderr, "Language:  %s\n", res.Language)
		}
		if req.Duration > 0 {
			fmt.Fprintf(os.Stderr, "Duration:  %.1fs\n", req.Duration.Seconds())
			if cost := stt.LookupCost(model); cost != nil {
				fmt.Fprintf(os.Stderr, "Est. cost: %s\n", formatCost(cost.Cost(req.Duration)))
			}
		}
		return nil
	},
}

func init() {
	transcribeCmd.Flags().String("hint", "", "Expected text used to bias spelling")
}
