package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/reciter/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a spoken transcript against the expected text",
	Long: `Score a spoken transcript against the expected text without recording.
The transcript is screened the same way provider output is during practice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		expected, _ := cmd.Flags().GetString("expected")
		spoken, _ := cmd.Flags().GetString("spoken")
		levelName, _ := cmd.Flags().GetString("level")

		level, err := scoring.ParseLevel(levelName)
		if err != nil {
			return err
		}

		text, rejection := scoring.Check(spoken, expected)
		if rejection != scoring.RejectNone {
			fmt.Printf("Transcript rejected (%s), scoring as silence.\n\n", rejection)
		}

		items := scoring.Align(expected, text)
		res := scoring.Finalize(0, expected, items, 0, level)

		fmt.Printf("%-4s  %-20s  %-20s  %s\n", "#", "Expected", "Heard", "")
		fmt.Println(strings.Repeat("─", 52))
		for i, it := range items {
			mark := "✓"
			if !it.Matched() {
				mark = "✗"
			}
			fmt.Printf("%-4d  %-20s  %-20s  %s\n", i+1, truncate(it.Original, 20), truncate(it.Spoken, 20), mark)
		}
		fmt.Println(strings.Repeat("─", 52))

		matched, total := scoring.Grade(items)
		fmt.Printf("Accuracy:  %d%% (%d of %d words)\n", res.Accuracy, matched, total)
		if len(res.Missed) > 0 {
			fmt.Printf("Missed:    %s\n", strings.Join(res.Missed, ", "))
		}
		if level == scoring.LevelPartialHint {
			fmt.Printf("Hint:      %s\n", scoring.Hint(expected))
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("expected", "", "Expected text (required)")
	scoreCmd.Flags().String("spoken", "", "Spoken transcript")
	scoreCmd.Flags().String("level", string(scoring.LevelPartialHint), "Practice level: hint or recall")
	_ = scoreCmd.MarkFlagRequired("expected")
}
