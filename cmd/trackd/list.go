package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackd/trackd/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List and search issues",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		var filter types.IssueFilter

		filter.Keyword, _ = cmd.Flags().GetString("search")
		filter.Label, _ = cmd.Flags().GetString("label")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			status := types.Status(statusStr)
			if !status.IsValid() {
				exitError(types.Validationf("invalid status %q (valid: %v)", statusStr, types.AllStatuses()))
			}
			filter.Status = &status
		}
		if cmd.Flags().Changed("assignee") {
			name, _ := cmd.Flags().GetString("assignee")
			user, err := trk.ResolveUser(ctx, name)
			if err != nil {
				exitError(err)
			}
			filter.Assignee = &user.ID
		}

		issues, err := trk.SearchIssues(ctx, filter)
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(issues)
			return
		}
		if len(issues) == 0 {
			fmt.Println("No issues found")
			return
		}
		for _, issue := range issues {
			fmt.Printf("#%-5d %-12s v%-3d %s\n", issue.ID, issue.Status, issue.Version, issue.Title)
		}
	},
}

func init() {
	listCmd.Flags().String("search", "", "Keyword over title and description")
	listCmd.Flags().StringP("status", "s", "", "Filter by status")
	listCmd.Flags().StringP("assignee", "a", "", "Filter by assignee username")
	listCmd.Flags().StringP("label", "l", "", "Filter by label name")
	listCmd.Flags().IntP("limit", "n", 0, "Maximum number of results")
	rootCmd.AddCommand(listCmd)
}
