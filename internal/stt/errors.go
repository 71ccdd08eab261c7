package stt

import (
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider returned output that could not
// be read as a transcription.
type ErrInvalidResponse struct {
	Content []byte
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid transcription response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription provider unavailable: %v", e.Err)
	}
	return "transcription provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrAudioTooLarge indicates the recording exceeds the provider's upload
// limit. Retrying cannot help.
type ErrAudioTooLarge struct {
	Size  int
	Limit int
}

func (e *ErrAudioTooLarge) Error() string {
	return fmt.Sprintf("recording is %d bytes, provider limit is %d", e.Size, e.Limit)
}
