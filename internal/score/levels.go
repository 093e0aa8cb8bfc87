package score

import (
	"fmt"
	"sort"
	"strings"
)

// Band maps a minimum percentage to a level label.
type Band struct {
	Min   int    `json:"min" yaml:"min"`
	Label string `json:"label" yaml:"label"`
}

// Levels is a set of bands; a percentage gets the label of the highest band it reaches.
type Levels []Band

// DefaultLevels returns CEFR-style bands.
func DefaultLevels() Levels {
	return Levels{
		{Min: 0, Label: "A1"},
		{Min: 20, Label: "A2"},
		{Min: 40, Label: "B1"},
		{Min: 60, Label: "B2"},
		{Min: 75, Label: "C1"},
		{Min: 90, Label: "C2"},
	}
}

// Level returns the label for percent, or "" when no band applies.
func (l Levels) Level(percent int) string {
	label := ""
	best := -1
	for _, band := range l {
		if band.Min <= percent && band.Min > best {
			best = band.Min
			label = band.Label
		}
	}
	return label
}

// Validate rejects bands outside 0..100, blank labels and duplicate minimums.
func (l Levels) Validate() error {
	seen := make(map[int]bool, len(l))
	for i, band := range l {
		if band.Min < 0 || band.Min > 100 {
			return fmt.Errorf("levels[%d].min must be between 0 and 100", i)
		}
		if strings.TrimSpace(band.Label) == "" {
			return fmt.Errorf("levels[%d].label is required", i)
		}
		if seen[band.Min] {
			return fmt.Errorf("levels[%d].min %d is duplicated", i, band.Min)
		}
		seen[band.Min] = true
	}
	return nil
}

// Sorted returns the bands ordered by minimum.
func (l Levels) Sorted() Levels {
	out := append(Levels(nil), l...)
	sort.Slice(out, func(i, j int) bool { return out[i].Min < out[j].Min })
	return out
}
