package agent

import (
	"fmt"
	"io"

	"github.com/mfateev/codeagent/internal/actions"
)

// Reporter receives everything the agent shows the user during a turn.
// Calls are made from the agent's goroutine only.
type Reporter interface {
	Phase(p Phase)
	// Delta is one streamed fragment of the model response.
	Delta(text string)
	// EndResponse is called once the stream is finished or abandoned.
	EndResponse()
	Outcomes(outcomes []actions.Outcome)
	Notice(msg string)
	Summary(text string)
	Error(err error)
}

// TextReporter writes plain text to a writer.
type TextReporter struct {
	out io.Writer
}

// NewTextReporter creates a reporter writing to out.
func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{out: out}
}

func (r *TextReporter) Phase(Phase) {}

func (r *TextReporter) Delta(text string) {
	fmt.Fprint(r.out, text)
}

func (r *TextReporter) EndResponse() {
	fmt.Fprintln(r.out)
}

func (r *TextReporter) Outcomes(outcomes []actions.Outcome) {
	for _, o := range outcomes {
		for _, line := range actions.FormatOutcome(o) {
			fmt.Fprintln(r.out, line)
		}
	}
}

func (r *TextReporter) Notice(msg string) {
	fmt.Fprintln(r.out, msg)
}

func (r *TextReporter) Summary(text string) {
	fmt.Fprintln(r.out, "Summary: ", text)
}

func (r *TextReporter) Error(err error) {
	fmt.Fprintf(r.out, "Error: %v\n", err)
}

// deltaWriter adapts a Reporter to the io.Writer echo of llm.Collect.
type deltaWriter struct {
	r Reporter
}

func (w deltaWriter) Write(p []byte) (int, error) {
	w.r.Delta(string(p))
	return len(p), nil
}
