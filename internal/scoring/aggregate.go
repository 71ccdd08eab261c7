package scoring

import (
	"math"
	"time"
)

// LevelSummary aggregates one completed run at a level.
type LevelSummary struct {
	Accuracy  int
	Duration  time.Duration
	Chunks    int
	Completed bool
}

// SummarizeLevel averages the accuracy and sums the duration of the
// results recorded at level. Completed is left for the caller to set.
func SummarizeLevel(results []ChunkResult, level Level) LevelSummary {
	var sum LevelSummary
	total := 0
	for _, r := range results {
		if r.Level != level {
			continue
		}
		sum.Chunks++
		sum.Duration += r.Duration
		total += r.Accuracy
	}
	if sum.Chunks > 0 {
		sum.Accuracy = int(math.Round(float64(total) / float64(sum.Chunks)))
	}
	return sum
}

// Aggregate summarizes every level that has at least one result.
func Aggregate(results []ChunkResult) map[Level]LevelSummary {
	out := make(map[Level]LevelSummary)
	for _, l := range Levels() {
		if s := SummarizeLevel(results, l); s.Chunks > 0 {
			out[l] = s
		}
	}
	return out
}

// SessionScore is the rounded mean accuracy of the completed levels.
// Levels without a completed run are left out rather than counted as 0.
// ok is false when no level has been completed.
func SessionScore(summaries map[Level]LevelSummary) (score int, ok bool) {
	total, n := 0, 0
	for _, l := range Levels() {
		s, found := summaries[l]
		if !found || !s.Completed || s.Chunks == 0 {
			continue
		}
		total += s.Accuracy
		n++
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(float64(total) / float64(n))), true
}
