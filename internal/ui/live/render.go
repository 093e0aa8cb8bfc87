package live

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
	"lingoquiz/internal/session"
)

var (
	colorHeader  = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorPartial = lipgloss.Color("214")
	colorCursor  = lipgloss.Color("212")
)

// renderHeader renders the title, progress and countdown line.
func renderHeader(snap session.Snapshot, opts Options) string {
	line := opts.Title
	if line == "" {
		line = snap.TestID
	}
	if snap.Position > 0 {
		line += " | Question " + fmtInt(snap.Position) + "/" + fmtInt(snap.Total)
	}
	if snap.Timed && snap.Phase.Active() {
		line += " | Time left: " + formatRemaining(snap.Remaining)
	}
	if snap.Phase.Active() {
		line += " | Score: " + formatTally(snap.Overall)
	}
	return stylize(line, opts.NoColor, colorHeader)
}

func renderIntro(opts Options) string {
	title := opts.Title
	if title == "" {
		title = "Quiz"
	}
	return title + "\n\nPress enter to start."
}

func renderError(snap session.Snapshot, noColor bool) string {
	return stylize("Could not load questions: "+snap.Error, noColor, colorWrong) + "\n\nPress r to retry."
}

// renderQuestion renders the prompt and the answer control for the item kind.
func renderQuestion(snap session.Snapshot, cursor int, input, area string, noColor bool) string {
	q := snap.Question
	if q == nil {
		return ""
	}
	var b strings.Builder
	if q.Task != "" {
		b.WriteString(stylize("Task: "+q.Task, noColor, colorMuted) + "\n")
	}
	if q.Audio != "" {
		b.WriteString(stylize("(listen)", noColor, colorMuted) + "\n")
	}
	b.WriteString(q.Prompt + "\n\n")
	switch q.Kind {
	case question.KindChoice, question.KindTrueFalse:
		if len(q.Options) == 0 {
			b.WriteString(stylize("No options available; press enter to continue.", noColor, colorMuted))
			break
		}
		for i, option := range q.Options {
			line := "  " + fmtInt(i+1) + ". " + option
			if i == cursor {
				line = stylize("> "+fmtInt(i+1)+". "+option, noColor, colorCursor)
			}
			b.WriteString(line + "\n")
		}
	case question.KindFreeText:
		b.WriteString(area)
		if q.Rubric.MinWords > 0 || q.Rubric.MaxWords > 0 {
			b.WriteString("\n" + stylize(formatWordBounds(q.Rubric.MinWords, q.Rubric.MaxWords), noColor, colorMuted))
		}
	default:
		b.WriteString(input)
	}
	return b.String()
}

// renderFeedback renders the verdict of the last answer.
func renderFeedback(snap session.Snapshot, noColor bool) string {
	record := snap.Last
	q := snap.Question
	if record == nil || q == nil {
		return ""
	}
	grade := record.Grade
	var b strings.Builder
	b.WriteString(q.Prompt + "\n\n")
	b.WriteString(stylizeStatus(verdictLabel(*record), grade.Detail.Status, noColor))
	b.WriteString("  " + fmtInt(grade.PointsEarned) + "/" + fmtInt(grade.PointsPossible) + "\n")
	if !record.Skipped {
		b.WriteString("Your answer: " + record.Input + "\n")
	}
	if grade.Detail.Expected != "" && !grade.Correct {
		b.WriteString("Expected: " + grade.Detail.Expected + "\n")
	}
	for _, check := range grade.Detail.Checks {
		b.WriteString(formatCheck(check, noColor) + "\n")
	}
	if grade.Detail.Note != "" && !record.Skipped {
		b.WriteString(stylize(grade.Detail.Note, noColor, colorMuted) + "\n")
	}
	if q.Explanation != "" {
		b.WriteString(stylize(q.Explanation, noColor, colorMuted) + "\n")
	}
	return b.String()
}

// renderSummary renders pool totals, the save state and the review table.
func renderSummary(snap session.Snapshot, report *score.Report, review string, noColor bool) string {
	var b strings.Builder
	if snap.TimedOut {
		b.WriteString(stylize("Time is up.", noColor, colorWrong) + "\n")
	}
	if report != nil {
		b.WriteString("Overall: " + formatTally(report.Overall) + " (" + fmtInt(report.Percent) + "%)\n")
		b.WriteString("Objective: " + formatTally(report.Objective) + "  Writing: " + formatTally(report.FreeText) + "\n")
		b.WriteString("Answered: " + fmtInt(report.Answered) + "  Skipped: " + fmtInt(report.Skipped))
		if report.Ungraded > 0 {
			b.WriteString("  Ungraded: " + fmtInt(report.Ungraded))
		}
		b.WriteString("\n")
	}
	if snap.Save.State == session.SaveDone {
		b.WriteString(stylize("Level: "+snap.Save.Receipt.LevelLabel, noColor, colorCorrect) + "\n")
	}
	b.WriteString("\n" + review)
	return b.String()
}

// renderFooter renders key hints for the phase.
func renderFooter(snap session.Snapshot) string {
	var hint string
	switch snap.Phase {
	case session.PhaseIntro:
		hint = "enter start | q quit"
	case session.PhaseError:
		hint = "r retry | q quit"
	case session.PhaseQuestion:
		hint = answerHint(snap.Question)
	case session.PhaseFeedback:
		hint = "enter next"
	case session.PhaseSummary:
		hint = "s save | r restart | q quit"
	}
	return stylize(hint, true, colorMuted)
}

func answerHint(q *question.Prepared) string {
	if q == nil {
		return ""
	}
	switch q.Kind {
	case question.KindChoice, question.KindTrueFalse:
		return "up/down select | 1-9 answer | enter submit | tab skip"
	case question.KindFreeText:
		return "ctrl+s submit | tab skip"
	default:
		return "enter submit | tab skip"
	}
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
