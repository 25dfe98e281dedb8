// Package cli implements the terminal front end of codeagent: the intent
// menu and input prompts, and the rendering of streamed turns.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/mfateev/codeagent/internal/actions"
	"github.com/mfateev/codeagent/internal/agent"
	"github.com/mfateev/codeagent/internal/models"
)

// outputLineLimit caps the command output lines shown per action.
const outputLineLimit = 10

// RendererOptions configures a Renderer.
type RendererOptions struct {
	Width      int // 0 = terminal width, falling back to 80
	NoColor    bool
	NoMarkdown bool
	NoSpinner  bool
}

// Renderer writes agent turns to a terminal. It implements agent.Reporter.
type Renderer struct {
	out        io.Writer
	styles     Styles
	spinner    *Spinner
	mdRenderer *glamour.TermRenderer
}

var _ agent.Reporter = (*Renderer)(nil)

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, opts RendererOptions) *Renderer {
	styles := DefaultStyles()
	if opts.NoColor {
		styles = NoColorStyles()
	}
	r := &Renderer{out: out, styles: styles}
	if !opts.NoSpinner {
		r.spinner = NewSpinner(out, styles)
	}
	if !opts.NoMarkdown {
		mdStyle := "dark"
		if opts.NoColor {
			mdStyle = "notty"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(mdStyle),
			glamour.WithWordWrap(terminalWidth(opts.Width)),
		)
		if err == nil {
			r.mdRenderer = md
		}
	}
	return r
}

func terminalWidth(w int) int {
	if w > 0 {
		return w
	}
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		return tw
	}
	return 80
}

// Phase shows or hides the spinner.
func (r *Renderer) Phase(p agent.Phase) {
	if msg := PhaseMessage(p); msg != "" {
		r.startSpinner(msg)
		return
	}
	r.stopSpinner()
}

// Delta writes a streamed fragment as-is.
func (r *Renderer) Delta(text string) {
	r.stopSpinner()
	fmt.Fprint(r.out, text)
}

// EndResponse terminates the streamed response line.
func (r *Renderer) EndResponse() {
	r.stopSpinner()
	fmt.Fprintln(r.out)
}

// Outcomes renders one block per executed action.
func (r *Renderer) Outcomes(outcomes []actions.Outcome) {
	r.stopSpinner()
	for _, o := range outcomes {
		fmt.Fprint(r.out, r.RenderOutcome(o))
	}
}

func (r *Renderer) Notice(msg string) {
	r.stopSpinner()
	fmt.Fprintln(r.out, r.styles.Notice.Render(msg))
}

func (r *Renderer) Summary(text string) {
	r.stopSpinner()
	fmt.Fprint(r.out, r.RenderSummary(text))
}

func (r *Renderer) Error(err error) {
	r.stopSpinner()
	fmt.Fprintln(r.out, r.styles.OutputFailure.Render("Error: "+err.Error()))
}

// RenderOutcome renders an action outcome in the form
//
//	• Ran echo hello
//	  └ stdout: hello
//	    stderr:
func (r *Renderer) RenderOutcome(o actions.Outcome) string {
	bullet := r.styles.ActionBullet.Render("•")
	bodyStyle := r.styles.OutputDim
	switch o.Status {
	case actions.StatusFailed:
		bullet = r.styles.OutputFailure.Render("•")
		bodyStyle = r.styles.OutputFailure
	case actions.StatusSkipped:
		bullet = r.styles.OutputWarning.Render("•")
		bodyStyle = r.styles.OutputWarning
	}

	var b strings.Builder
	b.WriteString(bullet + " " + r.styles.ActionVerb.Render(actionVerb(o)))
	if target := o.Action.Target(); target != "" {
		b.WriteString(" " + truncateString(target, 120))
	}
	b.WriteString("\n")

	if o.Status == actions.StatusSucceeded && o.Result == nil {
		return b.String()
	}

	var body []string
	for _, line := range actions.FormatOutcome(o) {
		body = append(body, strings.Split(strings.TrimRight(line, "\n"), "\n")...)
	}
	body, _ = truncateMiddle(body, outputLineLimit)
	if o.Result != nil && (o.Result.StdoutTruncated || o.Result.StderrTruncated) {
		body = append(body, "(output capped)")
	}

	for i, line := range body {
		prefix := r.styles.OutputPrefix.Render("    ")
		if i == 0 {
			prefix = r.styles.OutputPrefix.Render("  └ ")
		}
		b.WriteString(prefix + bodyStyle.Render(line) + "\n")
	}
	return b.String()
}

// RenderSummary renders a conversation summary, as markdown when enabled.
func (r *Renderer) RenderSummary(text string) string {
	title := r.styles.Notice.Render("Summary:")
	if r.mdRenderer != nil {
		if rendered, err := r.mdRenderer.Render(text); err == nil {
			return title + "\n" + rendered
		}
	}
	return title + " " + text + "\n"
}

func actionVerb(o actions.Outcome) string {
	if o.Status == actions.StatusSkipped {
		return "Skipped"
	}
	switch o.Action.Kind() {
	case models.ActionAddFile:
		return "Wrote"
	case models.ActionEditFile:
		return "Edited"
	case models.ActionRunCommand:
		return "Ran"
	default:
		return string(o.Action.Kind())
	}
}

func (r *Renderer) startSpinner(msg string) {
	if r.spinner != nil {
		r.spinner.Start(msg)
	}
}

func (r *Renderer) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
	}
}

// truncateMiddle returns at most limit lines. When the input exceeds the limit,
// it keeps the first 2 and last 2 lines with a "… +N lines" placeholder in between.
func truncateMiddle(lines []string, limit int) (result []string, omitted int) {
	if len(lines) <= limit {
		return lines, 0
	}
	head := 2
	tail := 2
	omitted = len(lines) - head - tail
	result = make([]string, 0, head+1+tail)
	result = append(result, lines[:head]...)
	result = append(result, fmt.Sprintf("… +%d lines", omitted))
	result = append(result, lines[len(lines)-tail:]...)
	return result, omitted
}

// truncateString truncates s to maxLen bytes, appending "…" if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "…"
}
