package score

import "math"

// Tally sums earned and possible points of a pool.
type Tally struct {
	Earned   int `json:"earned"`
	Possible int `json:"possible"`
}

// Add returns the tally with one more result folded in.
func (t Tally) Add(earned, possible int) Tally {
	t.Earned += earned
	t.Possible += possible
	return t
}

// Plus merges two tallies.
func (t Tally) Plus(other Tally) Tally {
	return t.Add(other.Earned, other.Possible)
}

// Percent rounds earned/possible to a whole percentage; an empty pool scores 0.
func (t Tally) Percent() int {
	if t.Possible <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.Earned) / float64(t.Possible)))
}
