package practice

import "time"

// tickMsg refreshes the elapsed-time display once a second.
type tickMsg time.Time

// spinnerTickMsg animates the processing spinner.
type spinnerTickMsg time.Time

// transcribedMsg is sent when Submit returns.
type transcribedMsg struct {
	Err error
}
