package actions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mfateev/codeagent/internal/exec"
	"github.com/mfateev/codeagent/internal/logging"
	"github.com/mfateev/codeagent/internal/models"
)

// Status is the result category of one executed action.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusSkipped // unknown action kind
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to a single action.
type Outcome struct {
	Action models.Action
	Status Status
	// Command output, RunCommand only.
	Result *exec.Result
	// Err is an ActionExecutionError when Status is StatusFailed.
	Err error
}

// Executor applies actions to a working directory.
type Executor struct {
	dir    string
	env    []string // nil inherits the process environment
	logger *zap.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithEnvPolicy filters the environment of RunCommand actions. The
// environment is captured once, when the executor is built.
func WithEnvPolicy(p exec.EnvPolicy) ExecutorOption {
	return func(e *Executor) {
		e.env = p.Environ()
	}
}

// NewExecutor creates an executor rooted at dir. Relative action paths and
// commands resolve against dir; an empty dir means the process cwd.
func NewExecutor(dir string, logger *zap.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{dir: dir, logger: logging.OrNop(logger)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute applies actions strictly in order and returns exactly one Outcome
// per action. A failing action never prevents the next from running; each
// EditFile reads the file as left by the actions before it.
func (e *Executor) Execute(ctx context.Context, list []models.Action) []Outcome {
	outcomes := make([]Outcome, 0, len(list))
	for i, action := range list {
		outcome := e.executeOne(ctx, action)
		outcomes = append(outcomes, outcome)

		fields := []zap.Field{
			zap.Int("index", i),
			zap.String("action", string(action.Kind())),
			zap.String("target", action.Target()),
			zap.Stringer("status", outcome.Status),
		}
		switch outcome.Status {
		case StatusFailed:
			e.logger.Warn("Action failed", append(fields, zap.Error(outcome.Err))...)
		case StatusSkipped:
			e.logger.Warn("Unknown action, skipping", fields...)
		default:
			e.logger.Debug("Action applied", fields...)
		}
	}
	return outcomes
}

func (e *Executor) executeOne(ctx context.Context, action models.Action) Outcome {
	var err error
	outcome := Outcome{Action: action}

	switch a := action.(type) {
	case models.AddFile:
		err = e.addFile(a)
	case models.EditFile:
		err = e.editFile(a)
	case models.RunCommand:
		var res exec.Result
		res, err = exec.RunShell(ctx, e.dir, a.Command, e.env)
		if err == nil {
			outcome.Result = &res
		}
	default:
		outcome.Status = StatusSkipped
		return outcome
	}

	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = models.NewActionExecutionError(action.Kind(), action.Target(), err)
		return outcome
	}
	outcome.Status = StatusSucceeded
	return outcome
}

func (e *Executor) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("fileName is required")
	}
	if filepath.IsAbs(name) || e.dir == "" {
		return name, nil
	}
	return filepath.Join(e.dir, name), nil
}

// addFile replaces an existing file or creates it along with any missing
// parent directories. Either way the file ends up holding exactly Content.
func (e *Executor) addFile(a models.AddFile) error {
	path, err := e.resolve(a.FileName)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if err := os.Remove(path); err != nil {
			return err
		}
	} else if errors.Is(statErr, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	} else {
		return statErr
	}

	return os.WriteFile(path, []byte(a.Content), 0o644)
}

// editFile drops the 1-based RemoveLines and inserts Content as one line at
// the 1-based InsertLine, then rewrites the file.
func (e *Executor) editFile(a models.EditFile) error {
	path, err := e.resolve(a.FileName)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines := EditLines(strings.Split(string(data), "\n"), a.RemoveLines, a.InsertLine, a.Content)
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm())
}

// EditLines removes every line whose 1-based number is in remove, then
// inserts content so it becomes line insertAt (clamped to [1, len+1]).
func EditLines(lines []string, remove []int, insertAt int, content string) []string {
	drop := make(map[int]struct{}, len(remove))
	for _, n := range remove {
		drop[n] = struct{}{}
	}

	kept := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		if _, ok := drop[i+1]; ok {
			continue
		}
		kept = append(kept, line)
	}

	idx := insertAt - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(kept) {
		idx = len(kept)
	}
	kept = append(kept, "")
	copy(kept[idx+1:], kept[idx:])
	kept[idx] = content
	return kept
}

// Summary counts outcomes by status.
func Summary(outcomes []Outcome) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}

// FormatOutcome renders an outcome as the lines shown to the user. Command
// results always produce a stdout line and a stderr line.
func FormatOutcome(o Outcome) []string {
	head := fmt.Sprintf("%s %s", o.Action.Kind(), o.Action.Target())
	switch o.Status {
	case StatusSkipped:
		return []string{fmt.Sprintf("Unknown action %q, skipped", string(o.Action.Kind()))}
	case StatusFailed:
		return []string{fmt.Sprintf("%s failed: %v", head, unwrapCause(o.Err))}
	}

	if o.Result == nil {
		return []string{head}
	}
	lines := []string{
		"stdout: " + o.Result.Stdout,
		"stderr: " + o.Result.Stderr,
	}
	if o.Result.ExitCode != 0 {
		lines = append(lines, fmt.Sprintf("exit code: %d", o.Result.ExitCode))
	}
	return lines
}

func unwrapCause(err error) error {
	var agentErr *models.AgentError
	if errors.As(err, &agentErr) && agentErr.Cause != nil {
		return agentErr.Cause
	}
	return err
}
