package cli

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfateev/codeagent/internal/agent"
)

// SelectorOption is one entry of the selector.
type SelectorOption struct {
	Label       string // Display text, e.g. "Ask"
	Shortcut    string // Displayed shortcut hint, e.g. "a"
	ShortcutKey rune   // Matched against keypress, e.g. 'a'
}

// IntentOptions returns one selector option per agent intent, in menu order.
func IntentOptions() []SelectorOption {
	intents := agent.Intents()
	opts := make([]SelectorOption, 0, len(intents))
	for _, in := range intents {
		label := in.String()
		r := unicode.ToLower([]rune(label)[0])
		opts = append(opts, SelectorOption{Label: label, Shortcut: string(r), ShortcutKey: r})
	}
	return opts
}

// SelectorModel is a lightweight arrow-key navigable option list. It is
// embedded in the menu program rather than run on its own.
type SelectorModel struct {
	options   []SelectorOption
	cursor    int
	styles    Styles
	confirmed bool
	cancelled bool
}

// NewSelectorModel creates a new selector with the given options and styles.
func NewSelectorModel(options []SelectorOption, styles Styles) *SelectorModel {
	return &SelectorModel{
		options: options,
		styles:  styles,
	}
}

// Update processes a key message and returns whether the selector is done
// (confirmed or cancelled).
func (s *SelectorModel) Update(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyShiftTab:
		s.move(-1)
	case tea.KeyDown, tea.KeyTab:
		s.move(1)
	case tea.KeyEnter:
		s.confirmed = true
		return true
	case tea.KeyEsc:
		s.cancelled = true
		return true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return false
		}
		r := msg.Runes[0]
		switch {
		case r >= '1' && r <= '9':
			if idx := int(r - '1'); idx < len(s.options) {
				s.cursor = idx
				s.confirmed = true
				return true
			}
		case r == 'j':
			s.move(1)
		case r == 'k':
			s.move(-1)
		case r == 'q':
			s.cancelled = true
			return true
		default:
			lower := unicode.ToLower(r)
			for i, opt := range s.options {
				if opt.ShortcutKey != 0 && unicode.ToLower(opt.ShortcutKey) == lower {
					s.cursor = i
					s.confirmed = true
					return true
				}
			}
		}
	}
	return false
}

// View renders the options, one per line.
func (s *SelectorModel) View() string {
	var b strings.Builder
	for i, opt := range s.options {
		chevron := "   "
		label := fmt.Sprintf("%d. %s", i+1, opt.Label)
		if i == s.cursor {
			chevron = s.styles.SelectorChevron.Render(" > ")
			label = s.styles.SelectorSelected.Render(label)
		}

		var shortcut string
		if opt.Shortcut != "" {
			shortcut = " " + s.styles.SelectorShortcut.Render("("+opt.Shortcut+")")
		}

		b.WriteString(chevron + label + shortcut)
		if i < len(s.options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Selected returns the index of the highlighted option.
func (s *SelectorModel) Selected() int {
	return s.cursor
}

// Confirmed reports whether the user picked an option.
func (s *SelectorModel) Confirmed() bool {
	return s.confirmed
}

// Cancelled reports whether the user backed out (Esc or q).
func (s *SelectorModel) Cancelled() bool {
	return s.cancelled
}

func (s *SelectorModel) move(delta int) {
	if len(s.options) == 0 {
		return
	}
	s.cursor = (s.cursor + delta + len(s.options)) % len(s.options)
}
