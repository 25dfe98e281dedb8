package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfateev/codeagent/internal/agent"
)

// Prompter asks the user for the next request with a menu of intents and
// a payload input. It implements agent.Prompter.
type Prompter struct {
	in     io.Reader
	out    io.Writer
	styles Styles
	keys   KeyMap
	width  int
}

var _ agent.Prompter = (*Prompter)(nil)

// NewPrompter creates a prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer, noColor bool) *Prompter {
	styles := DefaultStyles()
	if noColor {
		styles = NoColorStyles()
	}
	return &Prompter{
		in:     in,
		out:    out,
		styles: styles,
		keys:   DefaultKeyMap(),
		width:  terminalWidth(0),
	}
}

// Next shows the menu and the payload prompt for the chosen intent. Esc in
// the payload prompt returns to the menu; Esc, q or Ctrl+C in the menu and
// Ctrl+C anywhere end the session with agent.ErrQuit.
func (p *Prompter) Next(ctx context.Context) (agent.Request, error) {
	for {
		final, err := p.run(ctx, newMenuModel(p.styles, p.keys))
		if err != nil {
			return agent.Request{}, err
		}
		menu := final.(menuModel)
		if menu.quit || menu.selector.Cancelled() {
			return agent.Request{}, agent.ErrQuit
		}
		intent := agent.Intents()[menu.selector.Selected()]

		final, err = p.run(ctx, newInputModel(intent, p.styles, p.keys, p.width))
		if err != nil {
			return agent.Request{}, err
		}
		input := final.(inputModel)
		switch {
		case input.quit:
			return agent.Request{}, agent.ErrQuit
		case input.back:
			continue
		}
		return agent.Request{Intent: intent, Text: input.value}, nil
	}
}

func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m,
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return final, nil
}

// menuModel is the intent menu program.
type menuModel struct {
	selector *SelectorModel
	styles   Styles
	keys     KeyMap
	quit     bool
	done     bool
}

func newMenuModel(styles Styles, keys KeyMap) menuModel {
	return menuModel{
		selector: NewSelectorModel(IntentOptions(), styles),
		styles:   styles,
		keys:     keys,
	}
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		m.quit = true
		m.done = true
		return m, tea.Quit
	}
	if m.selector.Update(keyMsg) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	title := m.styles.Title.Render("Choose an option:")
	if m.done {
		if m.selector.Confirmed() {
			return title + " " + IntentOptions()[m.selector.Selected()].Label + "\n"
		}
		return ""
	}
	return title + "\n" + m.selector.View() + "\n" +
		m.styles.Help.Render("↑/↓ move · enter select · esc quit") + "\n"
}

// inputModel reads the payload for one intent: a single line for questions
// and requirements, a multi-line editor for information.
type inputModel struct {
	intent     agent.Intent
	multiline  bool
	allowEmpty bool
	line       textinput.Model
	editor     textarea.Model
	styles     Styles
	keys       KeyMap

	value string
	hint  string
	back  bool
	quit  bool
	done  bool
}

func newInputModel(intent agent.Intent, styles Styles, keys KeyMap, width int) inputModel {
	m := inputModel{
		intent:     intent,
		multiline:  intent == agent.IntentProvideInfo,
		allowEmpty: intent == agent.IntentGenerateCode,
		styles:     styles,
		keys:       keys,
	}
	if m.multiline {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetWidth(width)
		ta.SetHeight(8)
		ta.Focus()
		m.editor = ta
	} else {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 0
		ti.Width = width - 4
		ti.Focus()
		m.line = ti
	}
	return m
}

func (m inputModel) title() string {
	switch m.intent {
	case agent.IntentProvideInfo:
		return "Provide information:"
	case agent.IntentAsk:
		return "Ask a question:"
	default:
		return "Provide additional requirements (optional):"
	}
}

func (m inputModel) Init() tea.Cmd {
	if m.multiline {
		return textarea.Blink
	}
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quit = true
			m.done = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Back):
			m.back = true
			m.done = true
			return m, tea.Quit
		case m.multiline && key.Matches(keyMsg, m.keys.SubmitEditor),
			!m.multiline && key.Matches(keyMsg, m.keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.multiline {
		m.editor, cmd = m.editor.Update(msg)
	} else {
		m.line, cmd = m.line.Update(msg)
	}
	return m, cmd
}

func (m inputModel) submit() (tea.Model, tea.Cmd) {
	raw := m.line.Value()
	if m.multiline {
		raw = m.editor.Value()
	}
	value := strings.TrimSpace(raw)
	if value == "" && !m.allowEmpty {
		m.hint = "Please enter some text, or esc to go back."
		return m, nil
	}
	m.value = value
	m.done = true
	return m, tea.Quit
}

func (m inputModel) View() string {
	title := m.styles.Title.Render(m.title())
	if m.done {
		if m.back || m.quit {
			return ""
		}
		return title + " " + m.styles.Help.Render(firstLine(m.value)) + "\n"
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	if m.multiline {
		b.WriteString(m.editor.View() + "\n")
		b.WriteString(m.styles.Help.Render("ctrl+d submit · esc back") + "\n")
	} else {
		b.WriteString(m.line.View() + "\n")
		b.WriteString(m.styles.Help.Render("enter submit · esc back") + "\n")
	}
	if m.hint != "" {
		b.WriteString(m.styles.Notice.Render(m.hint) + "\n")
	}
	return b.String()
}

func firstLine(s string) string {
	line, rest, found := strings.Cut(s, "\n")
	if found && rest != "" {
		return line + " …"
	}
	return line
}
