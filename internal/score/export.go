package score

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// fingerprintSpace namespaces question-set fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("lingoquiz:question-set"))

// Meta describes the attempt a report belongs to.
type Meta struct {
	AttemptID  string
	TestID     string
	Title      string
	Category   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Payload is the flat, serializable form of an attempt handed to persistence.
type Payload struct {
	AttemptID       string            `json:"attempt_id"`
	TestID          string            `json:"test_id"`
	Title           string            `json:"title,omitempty"`
	Category        string            `json:"category,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	DurationSeconds int64             `json:"duration_seconds"`
	Fingerprint     string            `json:"fingerprint"`
	Questions       []QuestionSummary `json:"questions"`
	Objective       Tally             `json:"objective"`
	FreeText        Tally             `json:"free_text"`
	Overall         Tally             `json:"overall"`
	Percent         int               `json:"percent"`
	Answered        int               `json:"answered"`
	Skipped         int               `json:"skipped"`
	Ungraded        int               `json:"ungraded"`
	Review          []ReviewRow       `json:"review"`
}

// Export flattens a report into a payload. The fingerprint identifies the question set so
// attempts over the same questions can be compared.
func Export(report Report, meta Meta) Payload {
	attemptID := meta.AttemptID
	if attemptID == "" {
		attemptID = uuid.NewString()
	}
	var duration int64
	if !meta.StartedAt.IsZero() && meta.FinishedAt.After(meta.StartedAt) {
		duration = int64(meta.FinishedAt.Sub(meta.StartedAt) / time.Second)
	}
	return Payload{
		AttemptID:       attemptID,
		TestID:          meta.TestID,
		Title:           meta.Title,
		Category:        meta.Category,
		StartedAt:       meta.StartedAt.UTC(),
		FinishedAt:      meta.FinishedAt.UTC(),
		DurationSeconds: duration,
		Fingerprint:     Fingerprint(meta.TestID, report.Questions),
		Questions:       report.Questions,
		Objective:       report.Objective,
		FreeText:        report.FreeText,
		Overall:         report.Overall,
		Percent:         report.Percent,
		Answered:        report.Answered,
		Skipped:         report.Skipped,
		Ungraded:        report.Ungraded,
		Review:          report.Review,
	}
}

// Fingerprint derives a stable id from the test id and the sorted question ids.
func Fingerprint(testID string, questions []QuestionSummary) string {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	sort.Strings(ids)
	name := testID + "\n" + strings.Join(ids, "\n")
	return uuid.NewSHA1(fingerprintSpace, []byte(name)).String()
}
