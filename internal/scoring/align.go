package scoring

import "github.com/abhisek/reciter/internal/textmatch"

// Sentinel marks an expected word with no spoken counterpart.
const Sentinel = "..."

// ReviewItem pairs one expected word with the word heard at the same
// position. Spoken may be edited by the learner before the chunk is
// finalized.
type ReviewItem struct {
	Original string
	Spoken   string
	Editing  bool
}

// Matched reports whether the spoken word matches the expected word.
func (r ReviewItem) Matched() bool {
	return textmatch.IsMatch(r.Original, r.Spoken)
}

// Silent reports whether nothing was heard at this position.
func (r ReviewItem) Silent() bool {
	return r.Spoken == Sentinel
}

// Align pairs expected word tokens with spoken whitespace tokens strictly
// by position. Extra spoken words are dropped and missing ones become the
// Sentinel. No insertion or deletion alignment is attempted: a skipped
// word shifts every later word by one position and each counts as a miss.
func Align(expected, spoken string) []ReviewItem {
	want := textmatch.Words(expected)
	heard := textmatch.Fields(spoken)

	items := make([]ReviewItem, len(want))
	for i, w := range want {
		items[i] = ReviewItem{Original: w, Spoken: Sentinel}
		if i < len(heard) {
			items[i].Spoken = heard[i]
		}
	}
	return items
}

// AllSilent reports whether every item carries the Sentinel. An empty
// slice is not silent.
func AllSilent(items []ReviewItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.Silent() {
			return false
		}
	}
	return true
}

// Grade counts the matching items.
func Grade(items []ReviewItem) (matched, total int) {
	for _, it := range items {
		if it.Matched() {
			matched++
		}
	}
	return matched, len(items)
}

// Marks returns the per-item match flags, for hosts that color the review.
func Marks(items []ReviewItem) []bool {
	out := make([]bool, len(items))
	for i, it := range items {
		out[i] = it.Matched()
	}
	return out
}
