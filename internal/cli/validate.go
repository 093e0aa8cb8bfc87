package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"golang.org/x/sync/errgroup"

	"lingoquiz/internal/config"
	"lingoquiz/internal/question"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		bankPath := flags.String("bank", "", "Path to a question bank file")
		configPath := flags.String("config", "", "Path to config file (default: search for .lingoquiz/config.yml)")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		if *bankPath != "" {
			return validateBank(*bankPath, stdout, stderr)
		}
		return validateConfig(*configPath, stdout, stderr)
	}
}

func validateBank(path string, stdout, stderr io.Writer) int {
	bank, err := question.LoadBank(path)
	if err != nil {
		printValidationError(stderr, err)
		return ExitError
	}
	prepared, err := question.Prepare(bank.Questions, question.PickOptions{}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		printValidationError(stderr, err)
		return ExitError
	}
	fmt.Fprintf(stdout, "Bank OK: %d questions\n", len(prepared))
	printKeyIssues(stdout, prepared)
	return ExitOK
}

func validateConfig(path string, stdout, stderr io.Writer) int {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
		return ExitError
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
		return ExitError
	}

	results := checkAssessments(context.Background(), cfg)
	failed := false
	for i, assessment := range cfg.Assessments {
		result := results[i]
		if result.err == nil {
			fmt.Fprintf(stdout, "%s: %d questions\n", assessment.ID, len(result.prepared))
			printKeyIssues(stdout, result.prepared)
			continue
		}
		failed = true
		fmt.Fprintf(stderr, "%s: ", assessment.ID)
		printValidationError(stderr, result.err)
	}
	if failed {
		return ExitError
	}
	fmt.Fprintln(stdout, "Config OK")
	return ExitOK
}

type bankCheck struct {
	prepared []question.Prepared
	err      error
}

// checkAssessments loads and prepares every assessment bank concurrently.
// Results keep config order.
func checkAssessments(ctx context.Context, cfg config.Config) []bankCheck {
	loader := question.DirLoader{Root: cfg.BanksDir}
	results := make([]bankCheck, len(cfg.Assessments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, assessment := range cfg.Assessments {
		g.Go(func() error {
			raw, err := loader.Load(gctx, assessment.Bank)
			if err != nil {
				results[i] = bankCheck{err: err}
				return nil
			}
			prepared, err := question.Prepare(raw, assessment.PickOptions(), rand.New(rand.NewPCG(1, 1)))
			results[i] = bankCheck{prepared: prepared, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printValidationError(w io.Writer, err error) {
	var malformed *question.MalformedError
	if errors.As(err, &malformed) && len(malformed.Issues) > 0 {
		fmt.Fprintln(w, "Validation failed:")
		for _, issue := range malformed.Issues {
			fmt.Fprintf(w, "  %s: %s\n", issue.Field, issue.Message)
		}
		return
	}
	fmt.Fprintf(w, "Validation failed:\n%v\n", err)
}

// printKeyIssues lists items that load but cannot be graded.
func printKeyIssues(w io.Writer, prepared []question.Prepared) {
	for _, q := range prepared {
		if q.KeyIssue != nil {
			fmt.Fprintf(w, "warning: %s will be ungraded: %s\n", q.ID, q.KeyIssue.Reason)
		}
	}
}
