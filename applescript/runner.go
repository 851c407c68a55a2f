package applescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultOsascriptPath is where macOS installs the AppleScript interpreter.
	DefaultOsascriptPath = "/usr/bin/osascript"

	// DefaultTimeout bounds a single script run. Mail can take a long time to
	// enumerate large mailboxes, so this is deliberately generous.
	DefaultTimeout = 60 * time.Second
)

// ScriptRunner executes AppleScript source and returns its trimmed stdout.
type ScriptRunner interface {
	Run(ctx context.Context, script string) (string, error)
}

// Runner executes scripts by piping them to osascript on stdin. Feeding
// source on stdin instead of -e arguments keeps user text out of argv.
type Runner struct {
	path    string
	timeout time.Duration
}

// NewRunner returns a Runner using the given interpreter path and per-script
// timeout. Zero values fall back to the defaults.
func NewRunner(path string, timeout time.Duration) *Runner {
	if path == "" {
		path = DefaultOsascriptPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{path: path, timeout: timeout}
}

// Run executes script and returns its stdout with surrounding whitespace
// trimmed. Non-zero exits are classified through the package error table;
// hitting the runner's deadline yields ErrTimeout, while cancellation of the
// caller's context propagates as that context's error.
func (r *Runner) Run(ctx context.Context, script string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.path, "-")
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("executing applescript", "script_prefix", scriptPrefix(script), "script_bytes", len(script))

	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String()), nil
	}

	if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		slog.Error("applescript timed out", "timeout", r.timeout)
		return "", fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		errText := strings.TrimSpace(stderr.String())
		slog.Error("applescript failed", "exit_code", exitErr.ExitCode(), "stderr", errText)
		return "", classifyStderr(errText, exitErr.ExitCode())
	}
	return "", fmt.Errorf("failed to run %s: %w", r.path, err)
}

func scriptPrefix(script string) string {
	const max = 200
	if len(script) <= max {
		return script
	}
	return script[:max] + "..."
}
