package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// WordInput wraps bubbles/textinput for correcting a single word.
type WordInput struct {
	Model    textinput.Model
	MaxWidth int
}

// NewWordInput creates a focused input prefilled with value.
func NewWordInput(placeholder, value string, maxWidth int) WordInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return WordInput{
		Model:    ti,
		MaxWidth: maxWidth,
	}
}

// Init returns the initial command.
func (w WordInput) Init() tea.Cmd {
	return w.Model.Focus()
}

// Update handles messages. Spaces are dropped so the value stays one word.
func (w WordInput) Update(msg tea.Msg) (WordInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "space" {
		return w, nil
	}

	var cmd tea.Cmd
	w.Model, cmd = w.Model.Update(msg)
	return w, cmd
}

// View renders the text input.
func (w WordInput) View() string {
	return w.Model.View()
}

// Value returns the trimmed input value.
func (w WordInput) Value() string {
	return strings.TrimSpace(w.Model.Value())
}
