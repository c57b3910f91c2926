package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trackd/trackd/internal/storage/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a trackd database in the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		trackdDir := filepath.Join(cwd, ".trackd")
		path := filepath.Join(trackdDir, dbFileName)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Error: database already exists at %s\n", path)
			os.Exit(1)
		}

		s, err := sqlite.New(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = s.Close() }()

		if err := s.SetMetadata(cmd.Context(), "trackd_version", Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]string{"db": path})
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Initialized trackd database: %s\n", green("✓"), path)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
