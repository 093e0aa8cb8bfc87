package live

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/score"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatRemaining renders a countdown as m:ss.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatTally(t score.Tally) string {
	return fmtInt(t.Earned) + "/" + fmtInt(t.Possible)
}

func formatWordBounds(minWords, maxWords int) string {
	switch {
	case minWords > 0 && maxWords > 0:
		return fmt.Sprintf("%d-%d words", minWords, maxWords)
	case minWords > 0:
		return fmt.Sprintf("at least %d words", minWords)
	default:
		return fmt.Sprintf("at most %d words", maxWords)
	}
}

func formatCheck(check grading.CheckOutcome, noColor bool) string {
	if check.Passed {
		return stylize("  [x] "+check.Label, noColor, colorCorrect)
	}
	return stylize("  [ ] "+check.Label, noColor, colorWrong)
}

// verdictLabel is the headline of a feedback screen.
func verdictLabel(record score.Record) string {
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

func stylizeStatus(text string, status grading.Status, noColor bool) string {
	switch status {
	case grading.StatusCorrect:
		return stylize(text, noColor, colorCorrect)
	case grading.StatusPartial:
		return stylize(text, noColor, colorPartial)
	case grading.StatusUngraded:
		return stylize(text, noColor, colorMuted)
	default:
		return stylize(text, noColor, colorWrong)
	}
}

// truncate shortens text for a table cell.
func truncate(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if limit <= 3 || len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}
