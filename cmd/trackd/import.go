package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trackd/trackd/internal/importer"
	"github.com/trackd/trackd/internal/lockfile"
)

var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import issues from a CSV file, all-or-nothing",
	Long: `Validates every row against the current label catalog and user list.
Any failure rejects the entire batch and reports every row error at once;
a clean batch is inserted in a single transaction.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		rows, err := importer.ReadCSV(f)
		if err != nil {
			exitError(err)
		}

		// One import at a time per database
		lock, err := lockfile.Acquire(filepath.Join(filepath.Dir(dbPath), "import.lock"))
		if err != nil {
			exitError(err)
		}
		defer func() { _ = lock.Release() }()

		result, err := importer.New(store).Import(context.Background(), rows, actorUser)
		if err != nil {
			exitError(err)
		}
		logf("import batch=%s count=%d", result.BatchID, len(result.IssueIDs))

		if jsonOutput {
			outputJSON(result)
		} else {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Imported %d issue(s) (batch %s)\n", green("✓"), len(result.IssueIDs), result.BatchID)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
