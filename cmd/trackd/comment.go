package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage issue comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add [issue-id] [text]",
	Short: "Comment on an issue",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args[:1])
		if err != nil {
			exitError(err)
		}
		comment, err := trk.AddComment(context.Background(), ids[0], args[1], actorUser)
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(comment)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Added comment #%d to issue #%d\n", green("✓"), comment.ID, comment.IssueID)
		}
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list [issue-id]",
	Short: "List an issue's comments, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}
		comments, err := trk.GetComments(context.Background(), ids[0])
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(comments)
			return
		}
		if len(comments) == 0 {
			fmt.Println("No comments")
			return
		}
		for _, c := range comments {
			fmt.Printf("#%-4d [%s] %s\n", c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.Comment)
		}
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Soft-delete a comment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}
		if err := trk.DeleteComment(context.Background(), ids[0]); err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(map[string]int64{"deleted": ids[0]})
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Deleted comment #%d\n", green("✓"), ids[0])
		}
	},
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentDeleteCmd)
	rootCmd.AddCommand(commentCmd)
}
