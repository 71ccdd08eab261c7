// Package segment splits a recitation text into speakable chunks.
package segment

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MaxWords is the soft word budget for a single chunk. A paragraph at or
// under the budget is emitted whole; longer paragraphs are packed sentence
// by sentence. A sentence is never split, so one sentence over the budget
// becomes its own part.
const MaxWords = 150

// readSeconds is the advertised reading time shown in every title.
const readSeconds = 90

var (
	paragraphBreak = regexp.MustCompile(`\n+`)

	// A sentence is any run ending in terminators, or the unterminated tail.
	sentencePattern = regexp.MustCompile(`[^.!?]*[.!?]+|[^.!?]+$`)
)

// Segment is one chunk of the source text with a human label.
type Segment struct {
	Title string
	Text  string
}

// Words returns the whitespace-delimited word count of the segment.
func (s Segment) Words() int {
	return WordCount(s.Text)
}

// Split divides text into ordered segments. Paragraphs are separated by
// runs of newlines; blank paragraphs are skipped and do not consume a
// paragraph number.
func Split(text string) []Segment {
	var out []Segment
	n := 0
	for _, block := range paragraphBreak.Split(text, -1) {
		para := strings.TrimSpace(block)
		words := WordCount(para)
		if words == 0 {
			continue
		}
		n++

		if words <= MaxWords {
			out = append(out, Segment{
				Title: fmt.Sprintf("Paragraph %d (%d words • ~%ds)", n, words, readSeconds),
				Text:  para,
			})
			continue
		}

		for i, part := range pack(sentences(para)) {
			out = append(out, Segment{
				Title: fmt.Sprintf("Paragraph %d (Part %s) (%d words • ~%ds)", n, PartLabel(i), WordCount(part), readSeconds),
				Text:  part,
			})
		}
	}
	return out
}

// sentences returns the trimmed sentence spans of a paragraph.
func sentences(para string) []string {
	spans := sentencePattern.FindAllString(para, -1)
	if len(spans) == 0 {
		return []string{para}
	}
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pack greedily groups sentences into parts that stay within MaxWords.
func pack(sents []string) []string {
	var (
		parts   []string
		current []string
		count   int
	)
	for _, s := range sents {
		w := WordCount(s)
		if count+w > MaxWords && count > 0 {
			parts = append(parts, strings.Join(current, " "))
			current, count = nil, 0
		}
		current = append(current, s)
		count += w
	}
	if count > 0 {
		parts = append(parts, strings.Join(current, " "))
	}
	return parts
}

// PartLabel returns the letter label for the i-th part: A..Z, then AA, AB...
func PartLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

// WordCount counts whitespace-delimited words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Select returns the texts of the chosen segments in original order.
// Out-of-range and duplicate indices are ignored.
func Select(segs []Segment, indices []int) []string {
	seen := make(map[int]bool, len(indices))
	picked := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(segs) || seen[i] {
			continue
		}
		seen[i] = true
		picked = append(picked, i)
	}
	sort.Ints(picked)

	out := make([]string, len(picked))
	for j, i := range picked {
		out[j] = segs[i].Text
	}
	return out
}
