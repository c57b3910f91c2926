package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show an issue with its comments",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}
		withEvents, _ := cmd.Flags().GetBool("events")

		ctx := context.Background()
		issue, err := trk.GetIssue(ctx, ids[0])
		if err != nil {
			exitError(err)
		}
		if issue == nil {
			fmt.Fprintf(os.Stderr, "Error: issue %d not found\n", ids[0])
			os.Exit(1)
		}

		comments, err := trk.GetComments(ctx, issue.ID)
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"issue": issue, "comments": comments})
			return
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s #%d (version %d)\n", bold(issue.Title), issue.ID, issue.Version)
		fmt.Printf("  Status: %s\n", issue.Status)
		if issue.Assignee != nil {
			fmt.Printf("  Assignee: user #%d\n", *issue.Assignee)
		}
		if len(issue.Labels) > 0 {
			names := make([]string, len(issue.Labels))
			for i, l := range issue.Labels {
				names[i] = l.Name
			}
			fmt.Printf("  Labels: %s\n", strings.Join(names, ", "))
		}
		fmt.Printf("  Created: %s\n", issue.CreatedAt.Format("2006-01-02 15:04"))
		if issue.ResolvedAt != nil {
			fmt.Printf("  Resolved: %s\n", issue.ResolvedAt.Format("2006-01-02 15:04"))
		}
		if issue.Description != "" {
			fmt.Printf("\n%s\n", issue.Description)
		}
		if len(comments) > 0 {
			fmt.Printf("\nComments:\n")
			for _, c := range comments {
				fmt.Printf("  #%-4d [%s] %s\n", c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.Comment)
			}
		}

		if withEvents {
			events, err := trk.GetEvents(ctx, issue.ID, 0)
			if err != nil {
				exitError(err)
			}
			fmt.Printf("\nHistory:\n")
			for _, e := range events {
				actor := e.Actor
				if actor == "" {
					actor = "unknown"
				}
				fmt.Printf("  [%s] %-14s by %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.EventType, actor)
			}
		}
	},
}

func init() {
	showCmd.Flags().Bool("events", false, "Include the audit trail")
	rootCmd.AddCommand(showCmd)
}
