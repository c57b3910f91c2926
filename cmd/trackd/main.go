package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/trackd/trackd"
	"github.com/trackd/trackd/internal/config"
	"github.com/trackd/trackd/internal/storage"
	"github.com/trackd/trackd/internal/storage/sqlite"
	"github.com/trackd/trackd/internal/tracker"
	"github.com/trackd/trackd/internal/types"
)

const dbFileName = "issues.db"

var (
	dbPath     string
	actor      string
	jsonOutput bool

	store     storage.Storage
	trk       *tracker.Tracker
	actorUser types.Actor
)

var rootCmd = &cobra.Command{
	Use:   "trackd",
	Short: "trackd - concurrency-safe issue tracker",
	Long: `An issue tracker built around safe concurrent mutation: version-guarded
updates, atomic bulk transitions, all-or-nothing imports, and soft deletes
everywhere.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Apply viper configuration if flags weren't explicitly set
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("db") && dbPath == "" {
			dbPath = config.GetString("db")
		}
		if !cmd.Flags().Changed("actor") && actor == "" {
			actor = config.GetString("actor")
		}

		// Commands that don't need a database
		switch cmd.Name() {
		case "init", "help", "version", "completion":
			return
		}

		if dbPath == "" {
			dbPath = trackd.FindDatabasePath()
		}
		if dbPath == "" {
			fmt.Fprintf(os.Stderr, "Error: no trackd database found\n")
			fmt.Fprintf(os.Stderr, "Hint: run 'trackd init' to create one in the current directory\n")
			fmt.Fprintf(os.Stderr, "      or set TRACKD_DB to point at an existing database\n")
			os.Exit(1)
		}

		var err error
		store, err = sqlite.New(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		trk = tracker.New(store)

		setupOperationLog()

		ctx := context.Background()
		checkVersionMetadata(ctx)
		resolveActor(ctx)

		logf("%s %s", cmd.Name(), strings.Join(args, " "))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// checkVersionMetadata compares the binary version against the version that
// last wrote this database and warns on mismatch. The stored version is
// always refreshed to the current one.
func checkVersionMetadata(ctx context.Context) {
	dbVersion, err := store.GetMetadata(ctx, "trackd_version")
	if err != nil {
		return
	}
	if dbVersion == "" {
		_ = store.SetMetadata(ctx, "trackd_version", Version)
		return
	}

	if dbVersion != Version {
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		// semver.Compare needs the v prefix
		cmp := semver.Compare("v"+Version, "v"+dbVersion)
		if cmp < 0 {
			fmt.Fprintf(os.Stderr, "%s\n", yellow(fmt.Sprintf(
				"Warning: this binary (v%s) is older than the database version (v%s); rebuild trackd",
				Version, dbVersion)))
		} else if cmp > 0 {
			fmt.Fprintf(os.Stderr, "%s\n", yellow(fmt.Sprintf(
				"Warning: this binary (v%s) is newer than the database version (v%s); schema migrations were applied",
				Version, dbVersion)))
		}
	}

	_ = store.SetMetadata(ctx, "trackd_version", Version)
}

// resolveActor turns the --actor name into a user reference when it matches
// a registered user. Unregistered names still stamp events, but leave the
// created_by/updated_by columns NULL.
func resolveActor(ctx context.Context) {
	if actor == "" {
		if user := os.Getenv("USER"); user != "" {
			actor = user
		} else {
			actor = "unknown"
		}
	}
	actorUser = types.Actor{Username: actor}
	if u, err := store.GetUserByName(ctx, actor); err == nil && u != nil {
		actorUser.UserID = u.ID
	}
}

// exitError prints an error in the shape its kind deserves and exits 1
func exitError(err error) {
	var be *types.BatchError
	switch {
	case errors.Is(err, types.ErrConflict):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: re-read the issue and retry with its current version\n")
	case errors.As(err, &be):
		fmt.Fprintf(os.Stderr, "Error: import batch rejected, nothing was written\n")
		for _, re := range be.RowErrors {
			fmt.Fprintf(os.Stderr, "  %s\n", re.Error())
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

// parseIDs converts positional arguments into issue ids
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid issue id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveLabelNames maps label names from the command line onto catalog ids
func resolveLabelNames(ctx context.Context, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	byName, err := store.ActiveLabelsByName(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int64
	var unknown []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		label, ok := byName[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		ids = append(ids, label.ID)
	}
	if len(unknown) > 0 {
		return nil, types.Validationf("unknown labels: %s", strings.Join(unknown, ", "))
	}
	return ids, nil
}

// outputJSON outputs data as pretty-printed JSON
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Username performing the operation")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("trackd version %s (%s)\n", Version, Build)
			return
		}
	}

	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
