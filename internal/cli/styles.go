package cli

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the terminal UI.
type Styles struct {
	// Menu and input titles
	Title lipgloss.Style
	// Key hints under inputs
	Help lipgloss.Style
	// Action bullet (• character)
	ActionBullet lipgloss.Style
	// Action verb (bold "Wrote", "Edited", "Ran")
	ActionVerb lipgloss.Style
	// Dimmed output text
	OutputDim lipgloss.Style
	// Dimmed output prefix (└)
	OutputPrefix lipgloss.Style
	// Failed action or turn error
	OutputFailure lipgloss.Style
	// Skipped action
	OutputWarning lipgloss.Style
	// Notices such as "Summary required"
	Notice lipgloss.Style
	// Spinner message
	SpinnerMessage lipgloss.Style
	// Selector chevron indicator
	SelectorChevron lipgloss.Style
	// Selector highlighted item
	SelectorSelected lipgloss.Style
	// Selector shortcut hint
	SelectorShortcut lipgloss.Style
}

// DefaultStyles returns styles with colors enabled.
func DefaultStyles() Styles {
	return Styles{
		Title:            lipgloss.NewStyle().Bold(true),
		Help:             lipgloss.NewStyle().Faint(true),
		ActionBullet:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		ActionVerb:       lipgloss.NewStyle().Bold(true),
		OutputDim:        lipgloss.NewStyle().Faint(true),
		OutputPrefix:     lipgloss.NewStyle().Faint(true),
		OutputFailure:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		OutputWarning:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // yellow
		Notice:           lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		SpinnerMessage:   lipgloss.NewStyle().Faint(true),
		SelectorChevron:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		SelectorSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		SelectorShortcut: lipgloss.NewStyle().Faint(true),
	}
}

// NoColorStyles returns styles with no colors (plain text).
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:            plain,
		Help:             plain,
		ActionBullet:     plain,
		ActionVerb:       plain,
		OutputDim:        plain,
		OutputPrefix:     plain,
		OutputFailure:    plain,
		OutputWarning:    plain,
		Notice:           plain,
		SpinnerMessage:   plain,
		SelectorChevron:  plain,
		SelectorSelected: plain,
		SelectorShortcut: plain,
	}
}
