package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().RecentSessions(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-9s  %6s  %5s  %s\n",
			"Session", "Started", "Status", "Chunks", "Score", "Source")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range sessions {
			score := "-"
			if r.Scored {
				score = fmt.Sprintf("%d", r.Score)
			}
			fmt.Printf("%-36s  %-16s  %-9s  %6d  %5s  %s\n",
				r.SessionID,
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				r.Status,
				r.Chunks,
				score,
				truncate(r.Source, 24),
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <session-id>",
	Short: "Show the chunk results of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		chunks, err := s.EventRepo().SessionChunks(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("query chunks: %w", err)
		}
		if len(chunks) == 0 {
			return fmt.Errorf("no chunk results for session %s", args[0])
		}

		sep := strings.Repeat("─", 60)
		for i, c := range chunks {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(sep)
			fmt.Printf("Chunk %d  %s  %d%%  %s\n",
				c.ChunkIndex+1, c.Level, c.Accuracy,
				(time.Duration(c.DurationMs) * time.Millisecond).Round(time.Second))
			fmt.Println(sep)
			fmt.Printf("Expected:  %s\n", c.Expected)
			fmt.Printf("Spoken:    %s\n", c.Spoken)
			if len(c.Missed) > 0 {
				fmt.Printf("Missed:    %s\n", strings.Join(c.Missed, ", "))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.AddCommand(historyViewCmd)
}
