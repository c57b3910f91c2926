package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user, err := trk.CreateUser(context.Background(), args[0])
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(user)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Created user #%d: %s\n", green("✓"), user.ID, user.Username)
		}
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		users, err := trk.ListUsers(context.Background())
		if err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(users)
			return
		}
		for _, u := range users {
			state := "active"
			if !u.IsActive {
				state = "inactive"
			}
			fmt.Printf("#%-4d %-20s %s\n", u.ID, u.Username, state)
		}
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate [id]",
	Short: "Deactivate a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			exitError(err)
		}
		if err := trk.DeactivateUser(context.Background(), ids[0]); err != nil {
			exitError(err)
		}
		if jsonOutput {
			outputJSON(map[string]int64{"deactivated": ids[0]})
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Deactivated user #%d\n", green("✓"), ids[0])
		}
	},
}

func init() {
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeactivateCmd)
	rootCmd.AddCommand(userCmd)
}
