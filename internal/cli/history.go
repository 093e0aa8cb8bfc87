package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"lingoquiz/internal/config"
	"lingoquiz/internal/store"
)

// DefaultHistoryLimit caps history output when --limit is not set.
const DefaultHistoryLimit = 20

func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .lingoquiz/config.yml)")
		testID := fs.String("test", "", "Only list attempts of this assessment")
		limit := fs.Int("limit", DefaultHistoryLimit, "Maximum number of attempts")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 || *limit < 0 {
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to find config: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		backend, err := store.Open(ctx, store.Options{
			Driver: cfg.Store.Driver,
			DSN:    cfg.Store.DSN,
			Levels: cfg.Levels,
			Logger: zap.NewNop(),
		})
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open store: %v\n", err)
			return ExitError
		}
		defer backend.Close()

		attempts, err := backend.List(ctx, *testID, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to list attempts: %v\n", err)
			return ExitError
		}
		if len(attempts) == 0 {
			fmt.Fprintln(stdout, "No attempts saved yet.")
			return ExitOK
		}
		printAttempts(stdout, attempts)
		return ExitOK
	}
}

func printAttempts(w io.Writer, attempts []store.Attempt) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SAVED\tASSESSMENT\tSCORE\tLEVEL\tDURATION\tATTEMPT")
	for _, attempt := range attempts {
		fmt.Fprintf(tw, "%s\t%s\t%d%% (%d/%d)\t%s\t%s\t%s\n",
			attempt.SavedAt.Local().Format("2006-01-02 15:04"),
			attempt.TestID,
			attempt.Percent,
			attempt.Earned,
			attempt.Possible,
			attempt.Level,
			attempt.FinishedAt.Sub(attempt.StartedAt).Round(time.Second),
			attempt.AttemptID,
		)
	}
	_ = tw.Flush()
}
