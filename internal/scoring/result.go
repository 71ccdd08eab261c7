package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/abhisek/reciter/internal/textmatch"
)

// ChunkResult is the scored outcome of one recited chunk. It is produced
// once by Finalize and never modified afterwards.
type ChunkResult struct {
	ChunkIndex int
	Expected   string
	Spoken     string   // Reviewed spoken words with the Sentinel left out
	Accuracy   int      // 0-100
	Missed     []string // Normalized missed words, first occurrence order
	Duration   time.Duration
	Level      Level
}

// Accuracy returns round(100 * matched / total), or 0 when there is
// nothing to score. Only a full match reports 100.
func Accuracy(matched, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(matched) / float64(total)))
	if pct == 100 && matched < total {
		return 99
	}
	return pct
}

// Finalize scores the reviewed items of a chunk, using whatever spoken
// values the learner left in place. A chunk where nothing at all was heard
// scores 0 without blaming individual words.
func Finalize(index int, expected string, items []ReviewItem, duration time.Duration, level Level) ChunkResult {
	matched, total := Grade(items)

	res := ChunkResult{
		ChunkIndex: index,
		Expected:   expected,
		Accuracy:   Accuracy(matched, total),
		Duration:   duration,
		Level:      level,
		Missed:     []string{},
	}

	var spoken []string
	seen := make(map[string]bool)
	silent := AllSilent(items)
	for _, it := range items {
		if !it.Silent() {
			spoken = append(spoken, it.Spoken)
		}
		if silent || it.Matched() {
			continue
		}
		w := textmatch.Normalize(it.Original)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		res.Missed = append(res.Missed, w)
	}
	res.Spoken = strings.Join(spoken, " ")
	return res
}
