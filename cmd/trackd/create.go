package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trackd/trackd/internal/types"
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")
		assignee, _ := cmd.Flags().GetString("assignee")
		labels, _ := cmd.Flags().GetStringSlice("labels")

		ctx := context.Background()
		issue := &types.Issue{
			Title:       args[0],
			Description: description,
			Status:      types.Status(status),
		}

		if assignee != "" {
			user, err := trk.ResolveUser(ctx, assignee)
			if err != nil {
				exitError(err)
			}
			issue.Assignee = &user.ID
		}

		labelIDs, err := resolveLabelNames(ctx, labels)
		if err != nil {
			exitError(err)
		}

		created, err := trk.CreateIssue(ctx, issue, labelIDs, actorUser)
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(created)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Created issue #%d\n", green("✓"), created.ID)
			fmt.Printf("  Title: %s\n", created.Title)
			fmt.Printf("  Status: %s\n", created.Status)
			fmt.Printf("  Version: %d\n", created.Version)
		}
	},
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "Issue description")
	createCmd.Flags().StringP("status", "s", string(types.StatusOpen), "Initial status (open|in_progress|resolved)")
	createCmd.Flags().StringP("assignee", "a", "", "Assignee username")
	createCmd.Flags().StringSliceP("labels", "l", []string{}, "Label names (comma-separated)")
	rootCmd.AddCommand(createCmd)
}
