package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is wrapped by every TransitionError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidSelection blocks Start when no chunk is selected.
	ErrInvalidSelection = errors.New("no chunks selected")

	// ErrInvalidLevel is returned by SetLevel for an unknown level.
	ErrInvalidLevel = errors.New("unknown practice level")

	// ErrBusy rejects a submission while another transcription is in flight.
	ErrBusy = errors.New("transcription already in progress")

	// ErrNotEditable is returned when editing a word that was heard correctly.
	ErrNotEditable = errors.New("word matched and is not editable")

	// ErrIndexOutOfRange is returned for a chunk or review index outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTranscription wraps provider failures. The engine is back in
	// practice for the same chunk when it is returned.
	ErrTranscription = errors.New("transcription failed")

	// ErrRecording is returned by Record when a capture is already open.
	ErrRecording = errors.New("already recording")

	// ErrNotRecording is returned by capture controls with no open capture.
	ErrNotRecording = errors.New("not recording")

	// ErrAbandoned is returned by Submit when the session was abandoned
	// while the transcription was in flight.
	ErrAbandoned = errors.New("session abandoned")
)

// TransitionError reports a command issued from a phase that does not
// accept it.
type TransitionError struct {
	Op    string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in %s phase", e.Op, e.Phase)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
