package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage the label catalog",
}

var labelAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		label, err := trk.CreateLabel(context.Background(), args[0])
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(label)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Created label #%d: %s\n", green("✓"), label.ID, label.Name)
		}
	},
}

var labelRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args[:1])
		if err != nil {
			exitError(err)
		}
		label, err := trk.RenameLabel(context.Background(), ids[0], args[1])
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(label)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Renamed label #%d to %s\n", green("✓"), label.ID, label.Name)
		}
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Soft-delete a label",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}
		if err := trk.DeleteLabel(context.Background(), ids[0]); err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(map[string]int64{"deleted": ids[0]})
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Deleted label #%d\n", green("✓"), ids[0])
		}
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels",
	Run: func(cmd *cobra.Command, args []string) {
		keyword, _ := cmd.Flags().GetString("search")

		labels, err := trk.ListLabels(context.Background(), keyword)
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(labels)
			return
		}
		if len(labels) == 0 {
			fmt.Println("No labels")
			return
		}
		for _, label := range labels {
			fmt.Printf("#%-4d %s\n", label.ID, label.Name)
		}
	},
}

func init() {
	labelListCmd.Flags().String("search", "", "Filter by name keyword")
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelRenameCmd)
	labelCmd.AddCommand(labelDeleteCmd)
	labelCmd.AddCommand(labelListCmd)
	rootCmd.AddCommand(labelCmd)
}
