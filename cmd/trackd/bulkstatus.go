package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trackd/trackd/internal/types"
)

var bulkStatusCmd = &cobra.Command{
	Use:   "bulk-status [status] [id...]",
	Short: "Move a set of issues to one status atomically",
	Long: `Validates every id first: if any issue is missing or deleted, the whole
request is rejected with the full list of bad ids and nothing changes.
Versions are not checked or bumped; a concurrent guarded update can
interleave with a bulk transition.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		status := types.Status(args[0])
		ids, err := parseIDs(args[1:])
		if err != nil {
			exitError(err)
		}

		count, err := trk.BulkStatus(context.Background(), ids, status, actorUser)
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"status": status, "updated": count})
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Moved %d issue(s) to %s\n", green("✓"), count, status)
		}
	},
}

func init() {
	rootCmd.AddCommand(bulkStatusCmd)
}
