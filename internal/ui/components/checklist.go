package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/reciter/internal/ui/theme"
)

// Checklist is a cursor over a list of checkable rows. It owns only the
// cursor; the checked state is passed in at render time.
type Checklist struct {
	Labels []string
	Cursor int
}

// NewChecklist creates a checklist with the cursor on the first row.
func NewChecklist(labels []string) Checklist {
	return Checklist{Labels: labels}
}

// Update handles cursor movement.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Labels)-1 {
			c.Cursor++
		}
	case "home", "g":
		c.Cursor = 0
	case "end", "G":
		if len(c.Labels) > 0 {
			c.Cursor = len(c.Labels) - 1
		}
	}
	return c, nil
}

// View renders at most height rows around the cursor.
func (c Checklist) View(checked func(int) bool, height int) string {
	if len(c.Labels) == 0 {
		return ""
	}
	start, end := window(len(c.Labels), c.Cursor, height)

	var b strings.Builder
	for i := start; i < end; i++ {
		box := "[ ]"
		if checked(i) {
			box = "[x]"
		}
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == c.Cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(prefix + box + " " + c.Labels[i]))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// window returns the [start, end) range of n rows to show so that cursor
// stays visible within height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
