package scoring

import (
	"strings"

	"github.com/abhisek/reciter/internal/textmatch"
)

// Rejection explains why a transcription was discarded before scoring.
type Rejection int

const (
	RejectNone      Rejection = iota // Transcription accepted
	RejectEmpty                      // Nothing but whitespace or punctuation
	RejectDenylist                   // Placeholder or refusal phrasing
	RejectNoOverlap                  // Not a single expected word was heard
)

func (r Rejection) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectEmpty:
		return "empty"
	case RejectDenylist:
		return "denylist"
	case RejectNoOverlap:
		return "no-overlap"
	default:
		return "unknown"
	}
}

// placeholders are outputs speech models emit for silent or unusable audio.
// They reject a transcription only when they make up the whole of it.
var placeholders = []string{
	"no speech",
	"no speech detected",
	"silence",
	"silent",
	"inaudible",
	"unintelligible",
	"blank_audio",
	"no audio",
	"music",
	"nothing",
	"empty",
	"thank you for watching",
	"thanks for watching",
}

// refusals reject a transcription wherever they appear.
var refusals = []string{
	"im sorry",
	"i cannot",
	"i cant transcribe",
	"unable to transcribe",
	"as an ai",
	"language model",
	"no speech detected",
	"there is no speech",
	"audio is silent",
	"audio does not contain",
	"audio contains no",
	"please provide",
}

// Check screens a raw transcription against the expected chunk text. It
// returns the trimmed transcription, or "" with the rejection reason when
// the output is a placeholder, a refusal, or shares no word with expected.
// Denylist phrases that occur in the expected text itself are not rejected.
func Check(raw, expected string) (string, Rejection) {
	text := strings.TrimSpace(raw)
	words := textmatch.Words(text)
	if len(words) == 0 {
		return "", RejectEmpty
	}

	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = textmatch.Normalize(w)
	}
	phrase := " " + strings.Join(normalized, " ") + " "
	source := normalizedPhrase(expected)
	for _, p := range placeholders {
		if phrase == " "+p+" " && !strings.Contains(source, " "+p+" ") {
			return "", RejectDenylist
		}
	}
	for _, p := range refusals {
		if strings.Contains(phrase, " "+p+" ") && !strings.Contains(source, " "+p+" ") {
			return "", RejectDenylist
		}
	}

	want := textmatch.NormalizedSet(expected)
	for _, w := range normalized {
		if _, ok := want[w]; ok {
			return text, RejectNone
		}
	}
	return "", RejectNoOverlap
}

// normalizedPhrase joins the normalized words of s with single spaces and
// pads both ends, so phrases can be matched on word boundaries.
func normalizedPhrase(s string) string {
	words := textmatch.Words(s)
	for i, w := range words {
		words[i] = textmatch.Normalize(w)
	}
	return " " + strings.Join(words, " ") + " "
}

// Filter is Check without the reason.
func Filter(raw, expected string) string {
	text, _ := Check(raw, expected)
	return text
}
