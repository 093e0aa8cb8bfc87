package answer

import (
	"encoding/json"
	"strconv"
)

// Option positions of the implicit True/False pair.
const (
	TrueIndex  = 0
	FalseIndex = 1
)

// DefaultTrueFalse is the option pair injected for true/false items that carry none.
var DefaultTrueFalse = []string{"True", "False"}

// CoerceBool maps a boolean-like value onto the True/False option pair. Numbers are read as an
// option position, so 0 is true-like and 1 is false-like. The second return value is false when
// the value cannot be classified; callers then fall back to comparing option labels.
func CoerceBool(value any) (int, bool) {
	switch typed := value.(type) {
	case bool:
		if typed {
			return TrueIndex, true
		}
		return FalseIndex, true
	case int:
		return indexFromNumber(float64(typed))
	case int64:
		return indexFromNumber(float64(typed))
	case int32:
		return indexFromNumber(float64(typed))
	case uint:
		return indexFromNumber(float64(typed))
	case uint64:
		return indexFromNumber(float64(typed))
	case float64:
		return indexFromNumber(typed)
	case float32:
		return indexFromNumber(float64(typed))
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return indexFromNumber(parsed)
	case string:
		return coerceText(typed)
	default:
		return 0, false
	}
}

func indexFromNumber(value float64) (int, bool) {
	switch value {
	case 0:
		return TrueIndex, true
	case 1:
		return FalseIndex, true
	default:
		return 0, false
	}
}

func coerceText(value string) (int, bool) {
	normalized := Normalize(value)
	switch normalized {
	case "true", "t", "yes", "y", "correct", "right":
		return TrueIndex, true
	case "false", "f", "no", "n", "incorrect", "wrong":
		return FalseIndex, true
	}
	if parsed, err := strconv.ParseFloat(normalized, 64); err == nil {
		return indexFromNumber(parsed)
	}
	return 0, false
}
