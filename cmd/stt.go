package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/reciter/internal/store"
	"github.com/abhisek/reciter/internal/stt"
	"github.com/spf13/cobra"
)

var sttCmd = &cobra.Command{
	Use:   "stt",
	Short: "Inspect transcription request events",
}

var sttListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent transcription events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySTTEvents(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No transcription events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-24s  %8s  %7s  %7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "Bytes", "Audio", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-24s  %8d  %6.1fs  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 24),
				e.AudioBytes,
				float64(e.AudioMs)/1000,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var sttViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View hint and transcript for a transcription event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetSTTEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider:  %s\n", e.Provider)
		fmt.Printf("Model:     %s\n", e.Model)
		fmt.Printf("Purpose:   %s\n", e.Purpose)
		fmt.Printf("Audio:     %d bytes / %.1fs\n", e.AudioBytes, float64(e.AudioMs)/1000)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("HINT")
		fmt.Println(sep)
		if e.Hint != "" {
			fmt.Println(e.Hint)
		} else {
			fmt.Println("(none)")
		}

		fmt.Println(sep)
		fmt.Println("TRANSCRIPT")
		fmt.Println(sep)
		if e.Transcript != "" {
			fmt.Println(e.Transcript)
		} else {
			fmt.Println("(empty)")
		}

		return nil
	},
}

var sttStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated transcription usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().STTUsageByModel(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(usage) == 0 {
			fmt.Println("No transcription usage recorded yet.")
			return nil
		}

		fmt.Println("Usage and Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 84))
		fmt.Printf("%-8s  %-28s  %6s  %6s  %9s  %8s  %10s\n",
			"Provider", "Model", "Calls", "Failed", "Audio", "Avg Ms", "Cost")
		fmt.Println(strings.Repeat("─", 84))

		var totalCalls, totalFailed int
		var totalAudio time.Duration
		var totalCost float64
		var unknownModels []string
		for _, mu := range usage {
			length := time.Duration(mu.AudioMs) * time.Millisecond
			totalCalls += mu.Requests
			totalFailed += mu.Failures
			totalAudio += length

			costCol := "?"
			if cost := stt.LookupCost(mu.Model); cost != nil {
				c := cost.Cost(length)
				totalCost += c
				costCol = formatCost(c)
			} else {
				unknownModels = append(unknownModels, mu.Model)
			}
			fmt.Printf("%-8s  %-28s  %6d  %6d  %8.1fs  %8d  %10s\n",
				truncate(mu.Provider, 8), truncate(mu.Model, 28), mu.Requests, mu.Failures,
				length.Seconds(), mu.AvgLatencyMs, costCol)
		}

		fmt.Println(strings.Repeat("─", 84))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-38s  %6d  %6d  %8.1fs  %8s  %10s\n",
			label, totalCalls, totalFailed, totalAudio.Seconds(), "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	sttListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	sttListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. practice, cli)")

	sttCmd.AddCommand(sttListCmd)
	sttCmd.AddCommand(sttViewCmd)
	sttCmd.AddCommand(sttStatsCmd)
}
