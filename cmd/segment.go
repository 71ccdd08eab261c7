package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <file>",
	Short: "Print the practice chunks of a text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		segs, err := loadSegments(args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}
		titlesOnly, _ := cmd.Flags().GetBool("titles")

		for i, s := range segs {
			if titlesOnly {
				fmt.Printf("%3d  %s\n", i+1, s.Title)
				continue
			}
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%d. %s\n", i+1, s.Title)
			fmt.Println(strings.Repeat("─", 60))
			fmt.Println(s.Text)
		}
		return nil
	},
}

func init() {
	segmentCmd.Flags().Bool("titles", false, "Print chunk titles only")
}
