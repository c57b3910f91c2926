package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trackd/trackd/internal/types"
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an issue with an optimistic version guard",
	Long: `Applies field changes only if the issue still carries the version you
read (--expect-version). A concurrent writer makes the update fail with a
conflict; re-read the issue and retry with the new version.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}
		expectVersion, _ := cmd.Flags().GetInt("expect-version")

		ctx := context.Background()
		var patch types.IssuePatch

		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			status := types.Status(statusStr)
			patch.Status = &status
		}
		if unassign, _ := cmd.Flags().GetBool("unassign"); unassign {
			patch.ClearAssignee = true
		} else if cmd.Flags().Changed("assignee") {
			name, _ := cmd.Flags().GetString("assignee")
			user, err := trk.ResolveUser(ctx, name)
			if err != nil {
				exitError(err)
			}
			patch.Assignee = &user.ID
		}
		if cmd.Flags().Changed("labels") {
			names, _ := cmd.Flags().GetStringSlice("labels")
			labelIDs, err := resolveLabelNames(ctx, names)
			if err != nil {
				exitError(err)
			}
			if labelIDs == nil {
				labelIDs = []int64{}
			}
			patch.Labels = labelIDs
			patch.HasLabels = true
		}

		updated, err := trk.UpdateIssue(ctx, ids[0], expectVersion, patch, actorUser)
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(updated)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Updated issue #%d (version %d -> %d)\n",
				green("✓"), updated.ID, expectVersion, updated.Version)
		}
	},
}

func init() {
	updateCmd.Flags().Int("expect-version", 0, "Version the issue must still have (required)")
	_ = updateCmd.MarkFlagRequired("expect-version")
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().StringP("description", "d", "", "New description")
	updateCmd.Flags().StringP("status", "s", "", "New status (open|in_progress|resolved)")
	updateCmd.Flags().StringP("assignee", "a", "", "New assignee username")
	updateCmd.Flags().Bool("unassign", false, "Clear the assignee")
	updateCmd.Flags().StringSliceP("labels", "l", nil, "Replace the label set (empty clears all labels)")
	rootCmd.AddCommand(updateCmd)
}
