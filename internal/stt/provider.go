package stt

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// Provider is the core abstraction for speech-to-text. The session engine
// hands over one finished recording per call and receives plain text.
// Providers are treated as unreliable: callers screen the output before
// scoring it.
type Provider interface {
	// Transcribe converts a complete audio recording to text.
	Transcribe(ctx context.Context, req Request) (*Result, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one recording to transcribe.
type Request struct {
	// Audio is the encoded recording (WAV, MP3, FLAC, ...).
	Audio []byte

	// Filename carries the container format through its extension,
	// e.g. "chunk-3.wav". Defaults to "recording.wav".
	Filename string

	// Language is an ISO-639-1 hint such as "en". Empty lets the provider
	// detect it.
	Language string

	// Hint is the text the speaker is expected to recite. Providers that
	// accept a prompt use it to bias spelling of rare words.
	Hint string

	// Duration is the recorded length, when the caller knows it. Used for
	// cost accounting only.
	Duration time.Duration
}

// Result holds the provider's output.
type Result struct {
	// Text is the raw transcription. It may be empty.
	Text string

	// Language is the detected or requested language, if reported.
	Language string

	// Model is the model that served the request.
	Model string
}

// filename returns the request filename or the default.
func (r Request) filename() string {
	if r.Filename == "" {
		return "recording.wav"
	}
	return r.Filename
}

// audioMIMETypes maps recording extensions to MIME types understood by the
// providers.
var audioMIMETypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".webm": "audio/webm",
	".aac":  "audio/aac",
}

// MIMEType guesses the audio MIME type from a filename, defaulting to WAV.
func MIMEType(filename string) string {
	if t, ok := audioMIMETypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return "audio/wav"
}
