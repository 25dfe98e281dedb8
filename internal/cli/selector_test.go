package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func newTestSelector() *SelectorModel {
	return NewSelectorModel(IntentOptions(), NoColorStyles())
}

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestIntentOptions(t *testing.T) {
	opts := IntentOptions()
	assert.Equal(t, []SelectorOption{
		{Label: "Provide Info", Shortcut: "p", ShortcutKey: 'p'},
		{Label: "Ask", Shortcut: "a", ShortcutKey: 'a'},
		{Label: "Generate Code", Shortcut: "g", ShortcutKey: 'g'},
	}, opts)
}

func TestSelector_InitialState(t *testing.T) {
	s := newTestSelector()
	assert.Equal(t, 0, s.Selected())
	assert.False(t, s.Confirmed())
	assert.False(t, s.Cancelled())
}

func TestSelector_MoveDownWraps(t *testing.T) {
	s := newTestSelector()

	done := s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.False(t, done)
	assert.Equal(t, 1, s.Selected())

	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, s.Selected())

	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, s.Selected())
}

func TestSelector_MoveUpWraps(t *testing.T) {
	s := newTestSelector()

	s.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, s.Selected())

	s.Update(runes('k'))
	assert.Equal(t, 1, s.Selected())

	s.Update(runes('j'))
	assert.Equal(t, 2, s.Selected())
}

func TestSelector_EnterConfirms(t *testing.T) {
	s := newTestSelector()
	s.Update(tea.KeyMsg{Type: tea.KeyDown})

	done := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
	assert.True(t, s.Confirmed())
	assert.Equal(t, 1, s.Selected())
}

func TestSelector_EscAndQCancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, runes('q')} {
		s := newTestSelector()
		assert.True(t, s.Update(msg))
		assert.True(t, s.Cancelled())
		assert.False(t, s.Confirmed())
	}
}

func TestSelector_NumberKeys(t *testing.T) {
	s := newTestSelector()
	assert.True(t, s.Update(runes('3')))
	assert.Equal(t, 2, s.Selected())

	s = newTestSelector()
	assert.False(t, s.Update(runes('9')))
	assert.False(t, s.Confirmed())
	assert.Equal(t, 0, s.Selected())
}

func TestSelector_ShortcutKeys(t *testing.T) {
	s := newTestSelector()
	assert.True(t, s.Update(runes('G')))
	assert.Equal(t, 2, s.Selected())

	s = newTestSelector()
	assert.False(t, s.Update(runes('z')))
	assert.False(t, s.Confirmed())
}

func TestSelector_View(t *testing.T) {
	s := newTestSelector()
	s.Update(tea.KeyMsg{Type: tea.KeyDown})

	lines := strings.Split(s.View(), "\n")
	assert.Len(t, lines, 3)
	assert.NotContains(t, lines[0], ">")
	assert.Contains(t, lines[0], "1. Provide Info (p)")
	assert.Contains(t, lines[1], "> 2. Ask (a)")
	assert.Contains(t, lines[2], "3. Generate Code (g)")
}

func TestSelector_EmptyOptions(t *testing.T) {
	s := NewSelectorModel(nil, NoColorStyles())
	assert.Equal(t, "", s.View())
	assert.False(t, s.Update(tea.KeyMsg{Type: tea.KeyDown}))
}
