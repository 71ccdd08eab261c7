// Package audio captures one recording per chunk. A Device starts a
// Capture; the Capture is paused and resumed any number of times and then
// stopped exactly once to obtain the encoded bytes.
package audio

import (
	"bytes"
	"context"
	"errors"
)

// ErrPermissionDenied is returned when the microphone or recorder cannot
// be opened.
var ErrPermissionDenied = errors.New("audio: microphone permission denied")

// ErrExhausted is returned by scripted devices that have no recording left.
var ErrExhausted = errors.New("audio: no recordings left")

// ErrStopped is returned by Capture methods called after Stop or Close.
var ErrStopped = errors.New("audio: capture already stopped")

// Device begins new captures.
type Device interface {
	Begin(ctx context.Context) (Capture, error)
}

// Capture is one in-progress recording.
type Capture interface {
	Pause() error
	Resume() error
	// Stop ends the recording and returns the encoded audio.
	Stop() ([]byte, error)
	// Close releases the capture without producing audio. Safe to call
	// after Stop and more than once.
	Close() error
}

// Extension sniffs the container format of encoded audio and returns a
// file extension, defaulting to ".wav".
func Extension(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return ".wav"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return ".flac"
	case bytes.HasPrefix(data, []byte("OggS")):
		return ".ogg"
	case bytes.HasPrefix(data, []byte("ID3")), len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return ".mp3"
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return ".m4a"
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return ".webm"
	}
	return ".wav"
}
