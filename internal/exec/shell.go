package exec

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
)

// Result is the captured outcome of a shell command.
type Result struct {
	Stdout          string
	Stderr          string
	ExitCode        int
	StdoutTruncated bool
	StderrTruncated bool
}

// RunShell executes command with `bash -c` in dir and waits for it. A nil
// env inherits the process environment.
//
// A non-zero exit is not an error: it is reported through Result.ExitCode.
// The error is non-nil only when the command could not be started or the
// context ended it.
func RunShell(ctx context.Context, dir, command string, env []string) (Result, error) {
	if command == "" {
		return Result{}, errors.New("command cannot be empty")
	}

	stdout := NewCappedBuffer(OutputMaxBytes)
	stderr := NewCappedBuffer(OutputMaxBytes)

	cmd := osexec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	result := Result{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		StdoutTruncated: stdout.Truncated(),
		StderrTruncated: stderr.Truncated(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to run command: %w", err)
	}
	return result, nil
}
