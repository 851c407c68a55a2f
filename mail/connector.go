package mail

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rgabriel/mcp-apple-mail/applescript"
	"github.com/rgabriel/mcp-apple-mail/security"
)

const (
	// DefaultScanLimit bounds how many messages the index-scan search path
	// fetches from a mailbox.
	DefaultScanLimit = 200

	// DefaultBulkDeleteLimit is the delete guard threshold.
	DefaultBulkDeleteLimit = 100
)

// Options configures a Connector. Zero values fall back to the defaults.
type Options struct {
	ScanLimit        int
	BulkDeleteLimit  int
	AttachmentPolicy security.AttachmentPolicy
}

// Connector drives the Mail application through the scripting bridge. A
// single Connector is safe for concurrent use; the per-account capability
// cache is the only mutable state it holds.
type Connector struct {
	runner           applescript.ScriptRunner
	scanLimit        int
	bulkDeleteLimit  int
	attachmentPolicy security.AttachmentPolicy

	// Accounts whose message store rejects whose-clause queries. Entries are
	// only ever added, and stay for the life of the process.
	mu               sync.Mutex
	whoseUnsupported map[string]struct{}
}

// NewConnector returns a Connector executing scripts through runner.
func NewConnector(runner applescript.ScriptRunner, opts Options) *Connector {
	scanLimit := opts.ScanLimit
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	bulkLimit := opts.BulkDeleteLimit
	if bulkLimit <= 0 {
		bulkLimit = DefaultBulkDeleteLimit
	}
	return &Connector{
		runner:           runner,
		scanLimit:        scanLimit,
		bulkDeleteLimit:  bulkLimit,
		attachmentPolicy: opts.AttachmentPolicy,
		whoseUnsupported: make(map[string]struct{}),
	}
}

// ListAccounts returns every configured mail account.
func (c *Connector) ListAccounts(ctx context.Context) ([]Account, error) {
	script := `tell application "Mail"
	set resultList to {}
	repeat with acc in accounts
		set addrList to email addresses of acc
		set AppleScript's text item delimiters to ","
		set addrText to addrList as text
		set AppleScript's text item delimiters to ""
		set end of resultList to (name of acc) & "|" & addrText
	end repeat
	set AppleScript's text item delimiters to linefeed
	set output to resultList as text
	set AppleScript's text item delimiters to ""
	return output
end tell`

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	return parseAccountRows(raw), nil
}

// ListMailboxes returns the mailboxes of one account with unread counts.
func (c *Connector) ListMailboxes(ctx context.Context, account string) ([]Mailbox, error) {
	script := fmt.Sprintf(`tell application "Mail"
	set accountRef to account %s
	set resultList to {}
	repeat with mb in mailboxes of accountRef
		set end of resultList to (name of mb) & "|" & (unread count of mb)
	end repeat
	set AppleScript's text item delimiters to linefeed
	set output to resultList as text
	set AppleScript's text item delimiters to ""
	return output
end tell`, applescript.Quote(account))

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	return parseMailboxRows(raw), nil
}

// GetMessage fetches full details for one message, searching every account
// and mailbox for the ID. Content is only retrieved when includeContent is
// set; otherwise the content field is empty.
func (c *Connector) GetMessage(ctx context.Context, messageID string, includeContent bool) (MessageDetail, error) {
	if err := validateMessageID(messageID); err != nil {
		return MessageDetail{}, err
	}

	contentClause := `set msgContent to ""`
	if includeContent {
		contentClause = "set msgContent to content of msg"
	}

	script := fmt.Sprintf(`tell application "Mail"
	repeat with acc in accounts
		repeat with mb in mailboxes of acc
			try
				set msg to first message of mb whose id is %s
				set msgId to id of msg as text
				set msgSubject to subject of msg
				set msgSender to sender of msg
				set msgDate to date received of msg as text
				set msgRead to read status of msg
				set msgFlagged to flagged status of msg
				%s
				return msgId & "|" & msgSubject & "|" & msgSender & "|" & msgDate & "|" & msgRead & "|" & msgFlagged & "|" & msgContent
			end try
		end repeat
	end repeat
	error "Message not found"
end tell`, messageID, contentClause)

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return MessageDetail{}, err
	}
	return parseMessageDetail(raw)
}

func (c *Connector) isWhoseUnsupported(account string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.whoseUnsupported[account]
	return ok
}

func (c *Connector) markWhoseUnsupported(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.whoseUnsupported[account] = struct{}{}
}

// validateMessageID rejects IDs that are not plain decimal text. Message IDs
// are host-assigned integers; anything else would be interpolated into
// script source as live syntax.
func validateMessageID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty message id", ErrValidation)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: invalid message id %q", ErrValidation, id)
		}
	}
	return nil
}

// joinIDs validates each ID and renders the comma-separated list embedded in
// mutation scripts.
func joinIDs(ids []string) (string, error) {
	for _, id := range ids {
		if err := validateMessageID(id); err != nil {
			return "", err
		}
	}
	return strings.Join(ids, ", "), nil
}
