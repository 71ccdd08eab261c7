package scoring

import (
	"fmt"
	"strings"
)

// Level is the difficulty mode of a practice run.
type Level string

const (
	// LevelPartialHint shows a masked first-letter hint for every word.
	LevelPartialHint Level = "partial-hint"

	// LevelPureRecall shows no hint at all.
	LevelPureRecall Level = "pure-recall"
)

// Levels lists every level in display order.
func Levels() []Level {
	return []Level{LevelPartialHint, LevelPureRecall}
}

// IsValid reports whether l is a recognised level.
func (l Level) IsValid() bool {
	return l == LevelPartialHint || l == LevelPureRecall
}

// DisplayName returns the human-readable level name.
func (l Level) DisplayName() string {
	switch l {
	case LevelPartialHint:
		return "Partial Hint"
	case LevelPureRecall:
		return "Pure Recall"
	default:
		return string(l)
	}
}

// Other returns the opposite level.
func (l Level) Other() Level {
	if l == LevelPureRecall {
		return LevelPartialHint
	}
	return LevelPureRecall
}

// ParseLevel accepts the canonical names plus the short forms "hint" and
// "recall".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "partial-hint", "partial", "hint":
		return LevelPartialHint, nil
	case "pure-recall", "pure", "recall":
		return LevelPureRecall, nil
	}
	return "", fmt.Errorf("invalid level %q: must be hint or recall", s)
}
