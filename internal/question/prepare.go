package question

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"lingoquiz/internal/answer"
)

const slugLength = 32

// PickOptions controls which prepared questions a session receives and in what order.
type PickOptions struct {
	// Limit caps the number of questions; 0 keeps them all.
	Limit int
	// Structured switches to the sectioned pick used by writing tests.
	Structured bool
	// ObjectiveLimit caps the objective section of a structured pick; 0 keeps them all.
	ObjectiveLimit int
	// Tasks lists the free-text task categories a structured pick should cover.
	Tasks []string
}

// Prepare validates a raw bank, resolves every answer key, shuffles options and picks the
// questions for one session. rng drives every random choice; nil uses a fresh random source.
func Prepare(raw []Question, opts PickOptions, rng *rand.Rand) ([]Prepared, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ids := AssignIDs(raw)
	prepared := make([]Prepared, 0, len(raw))
	for i, q := range raw {
		prepared = append(prepared, resolve(q, ids[i], i, rng))
	}
	picked := pick(prepared, opts, rng)
	if len(picked) == 0 {
		return nil, ErrBankEmpty
	}
	return picked, nil
}

// AssignIDs returns one unique id per raw question in bank order. Explicit ids are kept and
// missing ones are derived from kind, position and prompt; collisions get -2, -3 suffixes.
func AssignIDs(raw []Question) []string {
	ids := make([]string, len(raw))
	taken := make(map[string]struct{}, len(raw))
	for i, q := range raw {
		base := strings.TrimSpace(q.ID)
		if base == "" {
			base = deriveID(q, i)
		}
		id := base
		for n := 2; ; n++ {
			if _, exists := taken[id]; !exists {
				break
			}
			id = fmt.Sprintf("%s-%d", base, n)
		}
		taken[id] = struct{}{}
		ids[i] = id
	}
	return ids
}

func deriveID(q Question, index int) string {
	kind, _ := ParseKind(q.KindName())
	id := fmt.Sprintf("%s-%d", kind, index+1)
	if slug := answer.Slug(q.Prompt, slugLength); slug != "" {
		id += "-" + slug
	}
	return id
}

func resolve(q Question, id string, index int, rng *rand.Rand) Prepared {
	kind, _ := ParseKind(q.KindName())
	points := q.Points
	if points == 0 {
		points = 1
	}
	prepared := Prepared{
		ID:          id,
		Kind:        kind,
		Prompt:      strings.TrimSpace(q.Prompt),
		Options:     trimmed(q.Options),
		Points:      points,
		Task:        strings.TrimSpace(q.Task),
		Audio:       strings.TrimSpace(q.Audio),
		Explanation: strings.TrimSpace(q.Explanation),
		SourceIndex: index,
	}
	switch kind {
	case KindChoice:
		resolveChoice(&prepared, q.CorrectAnswer, rng)
	case KindTrueFalse:
		resolveTrueFalse(&prepared, q.CorrectAnswer, rng)
	case KindFillBlank:
		prepared.Accepted = appendAccepted(flatten(q.CorrectAnswer), q.AcceptedAnswers)
		if len(prepared.Accepted) == 0 {
			prepared.KeyIssue = keyIssue(id, "no accepted answers")
		}
	case KindFreeText:
		if q.Rubric != nil {
			prepared.Rubric = *q.Rubric
			// Validate already built the rubric once.
			prepared.Checks, _ = q.Rubric.Build()
		}
	}
	return prepared
}

func resolveChoice(p *Prepared, key any, rng *rand.Rand) {
	if key == nil {
		p.KeyIssue = keyIssue(p.ID, "missing correct answer")
		return
	}
	if index, ok := numberIndex(key); ok {
		if index < 0 || index >= len(p.Options) {
			p.KeyIssue = keyIssue(p.ID, fmt.Sprintf("index %v out of range for %d options", key, len(p.Options)))
			return
		}
		shuffleOptions(p, index, rng)
		return
	}
	text, ok := key.(string)
	if !ok || strings.TrimSpace(text) == "" {
		p.KeyIssue = keyIssue(p.ID, fmt.Sprintf("unsupported key %v", key))
		return
	}
	p.CorrectText = strings.TrimSpace(text)
}

func resolveTrueFalse(p *Prepared, key any, rng *rand.Rand) {
	if len(p.Options) == 0 {
		p.Options = append([]string(nil), answer.DefaultTrueFalse...)
		index, ok := answer.CoerceBool(key)
		if !ok {
			p.KeyIssue = keyIssue(p.ID, fmt.Sprintf("cannot read %v as true or false", key))
			return
		}
		p.CorrectIndex = &index
		return
	}
	if index, ok := numberIndex(key); ok {
		if index < 0 || index >= len(p.Options) {
			p.KeyIssue = keyIssue(p.ID, fmt.Sprintf("index %v out of range for %d options", key, len(p.Options)))
			return
		}
		shuffleOptions(p, index, rng)
		return
	}
	if target, ok := answer.CoerceBool(key); ok {
		for i, option := range p.Options {
			if value, ok := answer.CoerceBool(option); ok && value == target {
				p.CorrectIndex = &i
				return
			}
		}
	}
	if text, ok := key.(string); ok {
		for i, option := range p.Options {
			if answer.Tight(option) == answer.Tight(text) && answer.Tight(text) != "" {
				p.CorrectIndex = &i
				return
			}
		}
	}
	p.KeyIssue = keyIssue(p.ID, fmt.Sprintf("key %v matches no option", key))
}

// shuffleOptions permutes the options uniformly and points CorrectIndex at the new position of
// the option that was correct before the shuffle.
func shuffleOptions(p *Prepared, correct int, rng *rand.Rand) {
	order := rng.Perm(len(p.Options))
	options := make([]string, len(p.Options))
	moved := 0
	for to, from := range order {
		options[to] = p.Options[from]
		if from == correct {
			moved = to
		}
	}
	p.Options = options
	p.CorrectIndex = &moved
}

// numberIndex reads integral numbers, including JSON numbers, as an option index.
func numberIndex(value any) (int, bool) {
	var f float64
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case int32:
		return int(typed), true
	case uint:
		return int(typed), true
	case uint64:
		return int(typed), true
	case float64:
		f = typed
	case float32:
		f = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func flatten(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return []string{typed}
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, flatten(item)...)
		}
		return out
	case json.Number:
		return []string{typed.String()}
	case float64:
		return []string{strconv.FormatFloat(typed, 'f', -1, 64)}
	default:
		return []string{fmt.Sprint(typed)}
	}
}

func appendAccepted(groups ...[]string) []string {
	var out []string
	for _, group := range groups {
		for _, value := range group {
			if value = strings.TrimSpace(value); value != "" {
				out = append(out, value)
			}
		}
	}
	return out
}

func trimmed(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = strings.TrimSpace(value)
	}
	return out
}

func keyIssue(id, reason string) *AmbiguousKeyError {
	return &AmbiguousKeyError{QuestionID: id, Reason: reason}
}

func pick(items []Prepared, opts PickOptions, rng *rand.Rand) []Prepared {
	if !opts.Structured {
		order := append([]Prepared(nil), items...)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		return capped(order, opts.Limit)
	}

	var objective, written []Prepared
	for _, item := range items {
		if item.Kind.Objective() {
			objective = append(objective, item)
		} else {
			written = append(written, item)
		}
	}
	rng.Shuffle(len(objective), func(i, j int) { objective[i], objective[j] = objective[j], objective[i] })
	rng.Shuffle(len(written), func(i, j int) { written[i], written[j] = written[j], written[i] })

	// Slots for task coverage are reserved before the objective section is capped.
	guaranteed := make([]int, 0, len(opts.Tasks))
	used := make(map[int]bool, len(written))
	for _, task := range opts.Tasks {
		for i, item := range written {
			if !used[i] && strings.EqualFold(item.Task, strings.TrimSpace(task)) {
				guaranteed = append(guaranteed, i)
				used[i] = true
				break
			}
		}
	}
	objectiveCap := len(objective)
	if opts.ObjectiveLimit > 0 {
		objectiveCap = min(objectiveCap, opts.ObjectiveLimit)
	}
	if opts.Limit > 0 {
		objectiveCap = min(objectiveCap, max(opts.Limit-len(guaranteed), 0))
	}
	picked := append([]Prepared(nil), objective[:objectiveCap]...)
	for _, i := range guaranteed {
		if opts.Limit > 0 && len(picked) >= opts.Limit {
			break
		}
		picked = append(picked, written[i])
	}
	for i, item := range written {
		if opts.Limit > 0 && len(picked) >= opts.Limit {
			break
		}
		if !used[i] {
			picked = append(picked, item)
		}
	}
	return picked
}

func capped(items []Prepared, limit int) []Prepared {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
