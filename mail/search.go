package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rgabriel/mcp-apple-mail/applescript"
)

// SearchOptions filters a mailbox search. Absent filters match everything;
// ReadStatus is a tri-state (nil = either). Limit of 0 means unlimited.
// ScanLimit of 0 uses the connector default.
type SearchOptions struct {
	Account         string
	Mailbox         string
	SenderContains  string
	SubjectContains string
	ReadStatus      *bool
	Limit           int
	ScanLimit       int
}

// SearchMessages finds messages matching opts.
//
// Accounts start out on the whose path: filters are pushed into a single
// declarative query evaluated by the host. Some backends (Exchange) reject
// whose clauses; when the failure carries one of the known signatures the
// account is cached as scan-only for the life of the process and the same
// call falls through to the scan path. Cached accounts skip the probe
// entirely. Any other error propagates unchanged.
//
// The scan path fetches up to scanLimit most-recent messages by position and
// applies the filters locally, so matches outside that window are invisible
// to it. That truncation is silent; callers get no signal that the result
// set may be incomplete.
func (c *Connector) SearchMessages(ctx context.Context, opts SearchOptions) ([]Message, error) {
	if opts.Mailbox == "" {
		opts.Mailbox = "INBOX"
	}
	scanLimit := opts.ScanLimit
	if scanLimit <= 0 {
		scanLimit = c.scanLimit
	}

	if c.isWhoseUnsupported(opts.Account) {
		slog.Debug("account cached as whose-unsupported, using index scan", "account", opts.Account)
		return c.scanSearch(ctx, opts, scanLimit)
	}

	raw, err := c.runner.Run(ctx, buildWhoseSearchScript(opts))
	if err != nil {
		var scriptErr *applescript.ScriptError
		if errors.As(err, &scriptErr) && scriptErr.WhoseUnsupported() {
			slog.Info("account does not support whose queries, falling back to index scan",
				"account", opts.Account)
			c.markWhoseUnsupported(opts.Account)
			return c.scanSearch(ctx, opts, scanLimit)
		}
		return nil, err
	}
	return parseMessageRows(raw), nil
}

func (c *Connector) scanSearch(ctx context.Context, opts SearchOptions, scanLimit int) ([]Message, error) {
	raw, err := c.runner.Run(ctx, buildScanScript(opts.Account, opts.Mailbox, scanLimit))
	if err != nil {
		return nil, err
	}
	return filterMessages(parseMessageRows(raw), opts), nil
}

// buildWhoseSearchScript renders the declarative query. Conditions are
// ANDed; with no filters the predicate degenerates to "true". A result
// limit is pushed into the query itself.
func buildWhoseSearchScript(opts SearchOptions) string {
	var conditions []string
	if opts.SenderContains != "" {
		conditions = append(conditions, "sender contains "+applescript.Quote(opts.SenderContains))
	}
	if opts.SubjectContains != "" {
		conditions = append(conditions, "subject contains "+applescript.Quote(opts.SubjectContains))
	}
	if opts.ReadStatus != nil {
		conditions = append(conditions, fmt.Sprintf("read status is %t", *opts.ReadStatus))
	}
	whoseClause := "true"
	if len(conditions) > 0 {
		whoseClause = strings.Join(conditions, " and ")
	}
	limitClause := ""
	if opts.Limit > 0 {
		limitClause = fmt.Sprintf("items 1 thru %d of ", opts.Limit)
	}

	return fmt.Sprintf(`tell application "Mail"
	set accountRef to account %s
	set mailboxRef to mailbox %s of accountRef
	set matchedMessages to %s(messages of mailboxRef whose %s)
	set resultList to {}
	repeat with msg in matchedMessages
		set msgId to id of msg as text
		set msgSubject to subject of msg
		set msgSender to sender of msg
		set msgDate to date received of msg as text
		set msgRead to read status of msg
		set end of resultList to msgId & "|" & msgSubject & "|" & msgSender & "|" & msgDate & "|" & msgRead
	end repeat
	set AppleScript's text item delimiters to linefeed
	set output to resultList as text
	set AppleScript's text item delimiters to ""
	return output
end tell`, applescript.Quote(opts.Account), applescript.Quote(opts.Mailbox), limitClause, whoseClause)
}

// buildScanScript renders the positional fetch used for scan-only accounts:
// the scanLimit most-recent messages, unfiltered.
func buildScanScript(account, mailbox string, scanLimit int) string {
	return fmt.Sprintf(`tell application "Mail"
	set accountRef to account %s
	set mailboxRef to mailbox %s of accountRef
	set msgCount to count of messages of mailboxRef
	set fetchCount to msgCount
	if fetchCount > %d then set fetchCount to %d
	if fetchCount < 1 then return ""
	set recentMsgs to messages 1 thru fetchCount of mailboxRef
	set resultList to {}
	repeat with msg in recentMsgs
		set msgId to id of msg as text
		set msgSubject to subject of msg
		set msgSender to sender of msg
		set msgDate to date received of msg as text
		set msgRead to read status of msg
		set end of resultList to msgId & "|" & msgSubject & "|" & msgSender & "|" & msgDate & "|" & msgRead
	end repeat
	set AppleScript's text item delimiters to linefeed
	set output to resultList as text
	set AppleScript's text item delimiters to ""
	return output
end tell`, applescript.Quote(account), applescript.Quote(mailbox), scanLimit, scanLimit)
}

// filterMessages applies the search filters locally for the scan path:
// case-insensitive substring match for sender and subject, exact match for
// read status. The limit stops the scan as soon as it is reached.
func filterMessages(messages []Message, opts SearchOptions) []Message {
	filtered := []Message{}
	for _, msg := range messages {
		if opts.SenderContains != "" && !containsFold(msg.Sender, opts.SenderContains) {
			continue
		}
		if opts.SubjectContains != "" && !containsFold(msg.Subject, opts.SubjectContains) {
			continue
		}
		if opts.ReadStatus != nil && msg.ReadStatus != *opts.ReadStatus {
			continue
		}
		filtered = append(filtered, msg)
		if opts.Limit > 0 && len(filtered) >= opts.Limit {
			break
		}
	}
	return filtered
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
