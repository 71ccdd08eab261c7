// Package screens holds helpers shared by the terminal screens.
package screens

import (
	"fmt"

	"github.com/abhisek/reciter/internal/session"
)

// Status renders the header status for a snapshot: the practice level and
// the session score once a level has been completed.
func Status(snap session.Snapshot) string {
	s := snap.Session.Level.DisplayName()
	if snap.Scored {
		s += fmt.Sprintf("  ★ %d", snap.Score)
	}
	return s
}
