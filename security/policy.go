package security

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
)

// ErrNotConfirmed is returned when a guarded operation arrives without the
// caller's explicit confirmation.
var ErrNotConfirmed = errors.New("operation requires confirmation")

// MaxRecipients caps the total recipient count across to, cc, and bcc.
const MaxRecipients = 100

// Confirm gates operations that need explicit approval. Callers are
// expected to resubmit with confirmed set after surfacing the operation
// details to the user.
func Confirm(operation string, confirmed bool) error {
	if !confirmed {
		slog.Warn("confirmation required", "operation", operation)
		return fmt.Errorf("%w: %s", ErrNotConfirmed, operation)
	}
	return nil
}

// ValidateRecipients checks a send's address lists: at least one direct
// recipient, every address parseable, and the total under MaxRecipients.
func ValidateRecipients(to, cc, bcc []string) error {
	if len(to) == 0 {
		return errors.New("at least one 'to' recipient is required")
	}
	total := 0
	for _, group := range [][]string{to, cc, bcc} {
		for _, addr := range group {
			if _, err := mail.ParseAddress(addr); err != nil {
				return fmt.Errorf("invalid email address: %s", addr)
			}
			total++
		}
	}
	if total > MaxRecipients {
		return fmt.Errorf("too many recipients: %d (max %d)", total, MaxRecipients)
	}
	return nil
}

// SanitizeMailboxName strips path traversal sequences, characters mail
// hosts reject in mailbox names, and control characters. The result may be
// empty, which callers must treat as invalid.
func SanitizeMailboxName(name string) string {
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", "")
	}

	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			continue
		}
		switch r {
		case '/', '\\', '<', '>', ':', '"', '|', '?', '*':
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
