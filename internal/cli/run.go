package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lingoquiz/internal/config"
	"lingoquiz/internal/logging"
	"lingoquiz/internal/metrics"
	"lingoquiz/internal/question"
	"lingoquiz/internal/session"
	"lingoquiz/internal/speech"
	"lingoquiz/internal/store"
	"lingoquiz/internal/ui/live"
	"lingoquiz/internal/ui/plain"
)

// Seams replaced in tests.
var (
	detectSpeaker = speech.Detect
	runLive       = func(ctx context.Context, ctrl *session.Controller, in io.Reader, out io.Writer, opts live.Options) error {
		program := tea.NewProgram(live.NewModel(ctx, ctrl, opts), tea.WithInput(in), tea.WithOutput(out), tea.WithContext(ctx))
		_, err := program.Run()
		return err
	}
)

type runParams struct {
	configPath  string
	uiMode      string
	seed        int64
	metricsFile string
	noSave      bool
	noColor     bool
	assessment  string
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		params := runParams{}
		fs.StringVar(&params.configPath, "config", "", "Path to config file (default: search for .lingoquiz/config.yml)")
		fs.StringVar(&params.uiMode, "ui", "auto", "UI mode: auto, live or plain")
		fs.Int64Var(&params.seed, "seed", -1, "Shuffle seed (default: assessment seed or random)")
		fs.StringVar(&params.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
		fs.BoolVar(&params.noSave, "no-save", false, "Do not save the attempt")
		fs.BoolVar(&params.noColor, "no-color", false, "Disable colors in the live UI")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "expected exactly one assessment id")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		params.assessment = fs.Arg(0)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runAssessment(ctx, params, stdout, stderr)
	}
}

func runAssessment(ctx context.Context, params runParams, stdout, stderr io.Writer) int {
	resolved, err := resolveConfigPath(params.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to find config: %v\n", err)
		return ExitError
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return ExitError
	}
	assessment, ok := cfg.Assessment(params.assessment)
	if !ok {
		fmt.Fprintf(stderr, "Unknown assessment %q (available: %s)\n", params.assessment, assessmentIDs(cfg))
		return ExitUsage
	}

	decision, err := resolveUIMode(params.uiMode, stdout, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return ExitUsage
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}

	var console io.Writer = stderr
	if decision.useLive {
		console = nil
	}
	logger, closeLog, err := logging.New(cfg.Log, console)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to set up logging: %v\n", err)
		return ExitError
	}
	defer func() { _ = closeLog() }()
	logger = logger.With(zap.String("assessment", assessment.ID))

	var saver store.Saver
	if !params.noSave {
		backend, err := store.Open(ctx, store.Options{
			Driver: cfg.Store.Driver,
			DSN:    cfg.Store.DSN,
			Levels: cfg.Levels,
			Logger: logger,
		})
		if err != nil {
			logger.Warn("attempts will not be saved", zap.Error(err))
			fmt.Fprintf(stderr, "Warning: attempts will not be saved: %v\n", err)
		} else {
			defer backend.Close()
			saver = backend
		}
	}

	recorder := metrics.New()
	opts := []session.Option{
		session.WithPick(assessment.PickOptions()),
		session.WithTimeLimit(assessment.TimeLimit()),
		session.WithObserver(recorder),
		session.WithLogger(logger),
		session.WithMeta(assessment.Title, assessment.Category),
	}
	if saver != nil {
		opts = append(opts, session.WithSaver(saver))
	}
	if params.seed >= 0 {
		opts = append(opts, session.WithSeed(uint64(params.seed)))
	} else if assessment.Seed != nil {
		opts = append(opts, session.WithSeed(*assessment.Seed))
	}
	if assessment.Listening {
		if speaker := detectSpeaker(logger); speaker != nil {
			defer speaker.Stop()
			opts = append(opts, session.WithSpeaker(speaker))
		} else {
			fmt.Fprintln(stderr, "No speech program found; listening prompts are shown as text only.")
		}
	}

	loader := question.DirLoader{Root: cfg.BanksDir}
	bank := assessment.Bank
	ctrl := session.New(assessment.ID, question.LoaderFunc(func(ctx context.Context, _ string) ([]question.Question, error) {
		return loader.Load(ctx, bank)
	}), opts...)

	if decision.useLive {
		err = runLive(ctx, ctrl, stdin, stdout, live.Options{Title: assessment.Title, NoColor: params.noColor, AutoSave: saver != nil})
	} else {
		_, err = plain.Run(ctx, ctrl, stdin, stdout, plain.Options{Title: assessment.Title})
	}

	code := finishRun(ctx, ctrl, saver, stdout, stderr, err)

	textfile := params.metricsFile
	if textfile == "" {
		textfile = cfg.Metrics.Textfile
	}
	if err := recorder.WriteTextfile(textfile); err != nil {
		logger.Warn("metrics not written", zap.Error(err))
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	return code
}

// finishRun saves a finished session and reports the outcome.
func finishRun(ctx context.Context, ctrl *session.Controller, saver store.Saver, stdout, stderr io.Writer, runErr error) int {
	snap := ctrl.Snapshot()
	switch {
	case snap.Phase == session.PhaseError:
		fmt.Fprintf(stderr, "Run failed: %s\n", snap.Error)
		return ExitError
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		fmt.Fprintf(stderr, "Run failed: %v\n", runErr)
		return ExitError
	case snap.Phase != session.PhaseSummary:
		fmt.Fprintln(stdout, "Session ended before the summary; nothing was saved.")
		return ExitOK
	}
	if saver == nil {
		return ExitOK
	}
	receipt, err := ctrl.Save(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Save failed: %v\n", err)
		return ExitError
	}
	level := receipt.LevelLabel
	if level == "" {
		level = "-"
	}
	fmt.Fprintf(stdout, "Saved attempt %s: %d%% (level %s)\n", receipt.AttemptID, receipt.NormalizedScore, level)
	return ExitOK
}

func assessmentIDs(cfg config.Config) string {
	ids := make([]string, 0, len(cfg.Assessments))
	for _, assessment := range cfg.Assessments {
		ids = append(ids, assessment.ID)
	}
	return strings.Join(ids, ", ")
}
