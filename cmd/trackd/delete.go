package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Soft-delete one or more issues",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}

		ctx := context.Background()
		green := color.New(color.FgGreen).SprintFunc()
		var deleted []int64
		for _, id := range ids {
			if err := trk.DeleteIssue(ctx, id, actorUser); err != nil {
				exitError(err)
			}
			deleted = append(deleted, id)
			if !jsonOutput {
				fmt.Printf("%s Deleted issue #%d\n", green("✓"), id)
			}
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"deleted": deleted})
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
