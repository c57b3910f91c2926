package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Workload and latency reports",
}

var topAssigneesCmd = &cobra.Command{
	Use:   "top-assignees",
	Short: "Assignees ranked by open workload",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		counts, err := trk.TopAssignees(context.Background(), limit)
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(counts)
			return
		}
		if len(counts) == 0 {
			fmt.Println("No assigned issues")
			return
		}
		for i, ac := range counts {
			fmt.Printf("%2d. %-20s %d issue(s)\n", i+1, ac.Username, ac.Count)
		}
	},
}

var latencyCmd = &cobra.Command{
	Use:   "latency",
	Short: "Average minutes from creation to resolution",
	Run: func(cmd *cobra.Command, args []string) {
		avg, err := trk.AverageResolutionMinutes(context.Background())
		if err != nil {
			exitError(err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"average_resolution_minutes": avg})
			return
		}
		if avg == nil {
			fmt.Println("No resolved issues yet")
			return
		}
		fmt.Printf("Average resolution time: %.2f minutes\n", *avg)
	},
}

func init() {
	topAssigneesCmd.Flags().IntP("limit", "n", 0, "Number of assignees to show (default 10)")
	reportCmd.AddCommand(topAssigneesCmd)
	reportCmd.AddCommand(latencyCmd)
	rootCmd.AddCommand(reportCmd)
}
