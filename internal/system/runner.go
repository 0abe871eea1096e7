package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/muurk/autoinstall/internal/logging"
	"go.uber.org/zap"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError describes a command that exited unsuccessfully.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Name, strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a runner that reports each invocation to logger.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{logger: logger}
}

// Output runs name with args and returns what it wrote to standard output.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	logging.LogCommand(name, args, err)

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		r.logger.Debug("command output",
			zap.String("name", name),
			zap.Int("exit_code", exitCode),
			zap.String("stderr", stderr.String()),
		)
		return "", &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	return stdout.String(), nil
}
