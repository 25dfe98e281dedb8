package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/mfateev/codeagent/internal/agent"
)

// Spinner renders an animated status line while the agent waits on the
// model or on actions. It runs outside bubbletea since the turn output is
// plain scrollback.
type Spinner struct {
	out    io.Writer
	style  Styles
	kind   spinner.Spinner
	mu     sync.Mutex
	wg     sync.WaitGroup // tracks run() goroutine lifetime
	msg    string
	active bool
	stopCh chan struct{}
	frame  int
}

// NewSpinner creates a spinner that writes to out.
func NewSpinner(out io.Writer, styles Styles) *Spinner {
	return &Spinner{
		out:   out,
		style: styles,
		kind:  spinner.Dot,
	}
}

// Start begins the animation, or updates the message if already running.
func (sp *Spinner) Start(message string) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.msg = message
	if sp.active {
		return
	}
	sp.active = true
	sp.stopCh = make(chan struct{})
	sp.wg.Add(1)
	go sp.run(sp.stopCh)
}

// Active reports whether the spinner is running.
func (sp *Spinner) Active() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.active
}

// Stop stops the animation and clears the line. Safe to call when stopped.
func (sp *Spinner) Stop() {
	sp.mu.Lock()
	if !sp.active {
		sp.mu.Unlock()
		return
	}
	sp.active = false
	close(sp.stopCh)
	sp.mu.Unlock()

	sp.wg.Wait()
	fmt.Fprint(sp.out, "\r\033[K")
}

func (sp *Spinner) run(stop <-chan struct{}) {
	defer sp.wg.Done()
	ticker := newTicker(sp.kind.FPS)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sp.mu.Lock()
			frame := sp.kind.Frames[sp.frame%len(sp.kind.Frames)]
			msg := sp.style.SpinnerMessage.Render(sp.msg)
			sp.frame++
			sp.mu.Unlock()

			fmt.Fprintf(sp.out, "\r\033[K%s %s", frame, msg)
		}
	}
}

func newTicker(d time.Duration) *time.Ticker {
	if d <= 0 {
		d = 80 * time.Millisecond
	}
	return time.NewTicker(d)
}

// PhaseMessage returns the spinner text for a turn phase, or "" when no
// spinner should be shown.
func PhaseMessage(phase agent.Phase) string {
	switch phase {
	case agent.PhaseBuildingPrompt, agent.PhaseStreamingResponse:
		return "Thinking..."
	case agent.PhasePostProcessing:
		return "Applying actions..."
	default:
		return ""
	}
}
