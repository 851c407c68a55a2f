package applescript

import (
	"errors"
	"fmt"
	"strings"
)

// Errors recognized from osascript stderr. Mail reports missing objects with
// stable "Can't get ..." phrases, which are the only machine-readable signal
// the scripting interface offers.
var (
	ErrAccountNotFound = errors.New("mail account not found")
	ErrMailboxNotFound = errors.New("mailbox not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrTimeout         = errors.New("script execution timed out")
)

// ScriptError is an osascript failure that matched no known pattern. The raw
// stderr text is kept for diagnosis and for whose-clause detection.
type ScriptError struct {
	Stderr   string
	ExitCode int
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("applescript error (exit %d): %s", e.ExitCode, e.Stderr)
}

// WhoseUnsupported reports whether the failure looks like the account's
// message store rejecting a whose-clause query. Exchange accounts fail with
// "Illegal comparison or logical (-1726)" or with a "Can't get items ...
// whose ..." complaint, depending on macOS version.
func (e *ScriptError) WhoseUnsupported() bool {
	if strings.Contains(e.Stderr, "Illegal comparison or logical") {
		return true
	}
	return strings.Contains(e.Stderr, "Can't get items") && strings.Contains(e.Stderr, "whose")
}

// classifyStderr maps osascript stderr text to the error table.
func classifyStderr(stderr string, exitCode int) error {
	msg := strings.TrimSpace(stderr)
	switch {
	case strings.Contains(msg, "Can't get account"):
		return fmt.Errorf("%w: %s", ErrAccountNotFound, msg)
	case strings.Contains(msg, "Can't get mailbox"):
		return fmt.Errorf("%w: %s", ErrMailboxNotFound, msg)
	case strings.Contains(msg, "Can't get message"):
		return fmt.Errorf("%w: %s", ErrMessageNotFound, msg)
	}
	return &ScriptError{Stderr: msg, ExitCode: exitCode}
}
