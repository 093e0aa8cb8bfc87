// Package plain plays a session over line-based input and output.
package plain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
	"lingoquiz/internal/session"
)

// Options configures the plain runner.
type Options struct {
	Title        string
	TickInterval time.Duration
}

// Free-text answers end at a line holding only this marker.
const endMarker = "."

type runner struct {
	ctrl     *session.Controller
	out      io.Writer
	lines    <-chan string
	interval time.Duration
	title    string
}

// Run plays ctrl from the intro phase until the summary and returns the final snapshot.
// Closed input skips the remaining questions. A load failure offers one retry per "r" line.
func Run(ctx context.Context, ctrl *session.Controller, in io.Reader, out io.Writer, opts Options) (session.Snapshot, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	done := make(chan struct{})
	defer close(done)
	lines, _ := readLines(in, done)
	r := &runner{
		ctrl:     ctrl,
		out:      out,
		lines:    lines,
		interval: opts.TickInterval,
		title:    opts.Title,
	}
	if err := r.load(ctx); err != nil {
		return ctrl.Snapshot(), err
	}

	timerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if ctrl.Snapshot().Timed {
		go session.RunTimer(timerCtx, ctrl, opts.TickInterval)
	}

	for {
		if err := ctx.Err(); err != nil {
			return ctrl.Snapshot(), err
		}
		snap := ctrl.Snapshot()
		switch snap.Phase {
		case session.PhaseQuestion:
			if err := r.ask(ctx, snap); err != nil {
				return ctrl.Snapshot(), err
			}
		case session.PhaseFeedback:
			r.printFeedback(snap)
			ctrl.Next()
		case session.PhaseSummary:
			r.printSummary(snap)
			return ctrl.Snapshot(), nil
		default:
			return snap, fmt.Errorf("unexpected session phase %q", snap.Phase)
		}
	}
}

func (r *runner) load(ctx context.Context) error {
	if r.title != "" {
		fmt.Fprintln(r.out, r.title)
	}
	err := r.ctrl.Start(ctx)
	for err != nil {
		fmt.Fprintf(r.out, "Could not load questions: %v\n", err)
		fmt.Fprintln(r.out, "Type r to retry or anything else to quit.")
		line, ok := <-r.lines
		if !ok || strings.TrimSpace(strings.ToLower(line)) != "r" {
			return err
		}
		err = r.ctrl.Retry(ctx)
	}
	return nil
}

// ask prints the current question and submits the learner's line.
func (r *runner) ask(ctx context.Context, snap session.Snapshot) error {
	q := snap.Question
	r.printQuestion(snap)
	var answer string
	var ok bool
	var err error
	if q.Kind == question.KindFreeText {
		answer, ok, err = r.readBlock(ctx, snap)
	} else {
		answer, ok, err = r.readLine(ctx, snap)
	}
	if err != nil || !r.stillAsking(snap) {
		return err
	}
	if !ok || isSkip(answer) {
		r.ctrl.Skip()
		return nil
	}
	r.ctrl.Submit(responseFor(*q, answer))
	return nil
}

// responseFor reads option numbers for choice items and text for everything else.
func responseFor(q question.Prepared, answer string) grading.Response {
	trimmed := strings.TrimSpace(answer)
	if q.Kind == question.KindChoice || q.Kind == question.KindTrueFalse {
		if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(q.Options) {
			return grading.Choose(n - 1)
		}
		return grading.Text(trimmed)
	}
	if q.Kind == question.KindFreeText {
		return grading.Text(answer)
	}
	return grading.Text(trimmed)
}

func isSkip(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "skip")
}

// readLine waits for one line; ok is false when input is closed.
func (r *runner) readLine(ctx context.Context, snap session.Snapshot) (string, bool, error) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case line, ok := <-r.lines:
			return line, ok, nil
		case <-ticker.C:
			if !r.stillAsking(snap) {
				return "", false, nil
			}
		}
	}
}

// readBlock collects lines until the end marker.
func (r *runner) readBlock(ctx context.Context, snap session.Snapshot) (string, bool, error) {
	var lines []string
	for {
		line, ok, err := r.readLine(ctx, snap)
		if err != nil {
			return "", false, err
		}
		if !ok {
			if len(lines) == 0 {
				return "", false, nil
			}
			return strings.Join(lines, "\n"), true, nil
		}
		if strings.TrimSpace(line) == endMarker {
			return strings.Join(lines, "\n"), true, nil
		}
		if len(lines) == 0 && isSkip(line) {
			return "", false, nil
		}
		lines = append(lines, line)
	}
}

// stillAsking reports whether the question shown in snap is still current.
func (r *runner) stillAsking(snap session.Snapshot) bool {
	now := r.ctrl.Snapshot()
	return now.Phase == session.PhaseQuestion && now.SessionID == snap.SessionID && now.Position == snap.Position
}

func (r *runner) printQuestion(snap session.Snapshot) {
	q := snap.Question
	header := fmt.Sprintf("\nQuestion %d/%d", snap.Position, snap.Total)
	if snap.Timed {
		header += fmt.Sprintf(" (%s left)", formatRemaining(snap.Remaining))
	}
	fmt.Fprintln(r.out, header)
	if q.Task != "" {
		fmt.Fprintf(r.out, "Task: %s\n", q.Task)
	}
	fmt.Fprintln(r.out, q.Prompt)
	switch q.Kind {
	case question.KindChoice, question.KindTrueFalse:
		for i, option := range q.Options {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, option)
		}
		fmt.Fprintln(r.out, "Answer with a number, or type skip.")
	case question.KindFreeText:
		fmt.Fprintln(r.out, "Write your answer and finish with a line containing only a dot, or type skip.")
	default:
		fmt.Fprintln(r.out, "Type your answer, or skip.")
	}
}

func (r *runner) printFeedback(snap session.Snapshot) {
	record := snap.Last
	if record == nil {
		return
	}
	grade := record.Grade
	fmt.Fprintf(r.out, "%s (%d/%d)\n", verdict(*record), grade.PointsEarned, grade.PointsPossible)
	if grade.Detail.Expected != "" && !grade.Correct {
		fmt.Fprintf(r.out, "Expected: %s\n", grade.Detail.Expected)
	}
	for _, check := range grade.Detail.Checks {
		mark := " "
		if check.Passed {
			mark = "x"
		}
		fmt.Fprintf(r.out, "  [%s] %s\n", mark, check.Label)
	}
	if q := snap.Question; q != nil && q.Explanation != "" {
		fmt.Fprintln(r.out, q.Explanation)
	}
}

func (r *runner) printSummary(snap session.Snapshot) {
	report, err := r.ctrl.Report()
	if err != nil {
		return
	}
	fmt.Fprintln(r.out)
	if snap.TimedOut {
		fmt.Fprintln(r.out, "Time is up.")
	}
	PrintReport(r.out, report)
}

// PrintReport writes totals and the review log.
func PrintReport(w io.Writer, report score.Report) {
	fmt.Fprintf(w, "Overall: %d/%d (%d%%)\n", report.Overall.Earned, report.Overall.Possible, report.Percent)
	fmt.Fprintf(w, "Objective: %d/%d  Writing: %d/%d\n",
		report.Objective.Earned, report.Objective.Possible, report.FreeText.Earned, report.FreeText.Possible)
	fmt.Fprintf(w, "Answered: %d  Skipped: %d  Ungraded: %d\n", report.Answered, report.Skipped, report.Ungraded)
	for _, row := range report.Review {
		fmt.Fprintf(w, "%3d. %-10s %d/%d  %s\n", row.Position, row.Verdict, row.Earned, row.Possible, oneLine(row.Prompt))
	}
}

func verdict(record score.Record) string {
	switch {
	case record.TimedOut:
		return "Timed out"
	case record.Skipped:
		return "Skipped"
	}
	switch record.Grade.Detail.Status {
	case grading.StatusCorrect:
		return "Correct"
	case grading.StatusPartial:
		return "Partly correct"
	case grading.StatusUngraded:
		return "Not graded"
	default:
		return "Incorrect"
	}
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// readLines streams input lines until EOF or until done is closed. The second channel is
// closed once the reader goroutine has returned.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan struct{}) {
	lines := make(chan string)
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		defer close(lines)
		if in == nil {
			return
		}
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines, exited
}
