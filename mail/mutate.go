package mail

import (
	"context"
	"fmt"

	"github.com/rgabriel/mcp-apple-mail/applescript"
	"github.com/rgabriel/mcp-apple-mail/security"
)

// flagIndexes maps flag color names to the host's flag index values.
// Setting "none" must also clear the flagged boolean.
var flagIndexes = map[string]int{
	"none":   -1,
	"orange": 0,
	"red":    1,
	"yellow": 2,
	"blue":   3,
	"green":  4,
	"purple": 5,
	"gray":   6,
}

// FlagColorNames lists the accepted flag colors in host index order.
var FlagColorNames = []string{"none", "orange", "red", "yellow", "blue", "green", "purple", "gray"}

// MarkRead sets the read status on each message. The script walks every
// account and mailbox per ID; IDs that match nothing are silently skipped,
// so the returned count is how many messages were actually updated rather
// than all-or-nothing. An empty ID list is a zero-count success with no
// bridge call.
func (c *Connector) MarkRead(ctx context.Context, messageIDs []string, read bool) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	idList, err := joinIDs(messageIDs)
	if err != nil {
		return 0, err
	}

	script := fmt.Sprintf(`tell application "Mail"
	set idList to {%s}
	set updateCount to 0
	repeat with msgId in idList
		repeat with acc in accounts
			repeat with mb in mailboxes of acc
				try
					set msg to first message of mb whose id is msgId
					set read status of msg to %t
					set updateCount to updateCount + 1
				end try
			end repeat
		end repeat
	end repeat
	return updateCount
end tell`, idList, read)

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return 0, err
	}
	return parseCount(raw), nil
}

// MoveMessages relocates each message into destinationMailbox of account.
// gmailMode switches from direct mailbox reassignment to duplicate-then-
// delete, which label-based backends need to keep their bookkeeping
// consistent. Returns the number of messages moved (per-ID misses are
// skipped, not errors).
func (c *Connector) MoveMessages(ctx context.Context, messageIDs []string, destinationMailbox, account string, gmailMode bool) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	idList, err := joinIDs(messageIDs)
	if err != nil {
		return 0, err
	}

	moveClause := "set mailbox of msg to destMailbox"
	if gmailMode {
		moveClause = `duplicate msg to destMailbox
					delete msg`
	}

	script := fmt.Sprintf(`tell application "Mail"
	set accountRef to account %s
	set destMailbox to mailbox %s of accountRef
	set idList to {%s}
	set moveCount to 0
	repeat with msgId in idList
		repeat with acc in accounts
			repeat with mb in mailboxes of acc
				try
					set msg to first message of mb whose id is msgId
					%s
					set moveCount to moveCount + 1
				end try
			end repeat
		end repeat
	end repeat
	return moveCount
end tell`, applescript.Quote(account), applescript.Quote(destinationMailbox), idList, moveClause)

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return 0, err
	}
	return parseCount(raw), nil
}

// FlagMessages sets the flag color on each message. Color "none" clears the
// flag index and the flagged boolean together; an unrecognized color is a
// validation error raised before any script runs. Returns the number of
// messages updated.
func (c *Connector) FlagMessages(ctx context.Context, messageIDs []string, flagColor string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	flagIndex, ok := flagIndexes[flagColor]
	if !ok {
		return 0, fmt.Errorf("%w: invalid flag color %q", ErrValidation, flagColor)
	}
	idList, err := joinIDs(messageIDs)
	if err != nil {
		return 0, err
	}

	script := fmt.Sprintf(`tell application "Mail"
	set idList to {%s}
	set flagCount to 0
	repeat with msgId in idList
		repeat with acc in accounts
			repeat with mb in mailboxes of acc
				try
					set msg to first message of mb whose id is msgId
					set flag index of msg to %d
					set flagged status of msg to %t
					set flagCount to flagCount + 1
				end try
			end repeat
		end repeat
	end repeat
	return flagCount
end tell`, idList, flagIndex, flagColor != "none")

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return 0, err
	}
	return parseCount(raw), nil
}

// DeleteMessages deletes each message through the host's delete command,
// which files it into the account's trash; permanent requests skipping the
// trash, though the host applies its own account-level deletion policy
// either way. Unless skipBulkCheck is set, more than the configured bulk
// limit of IDs is rejected before any script runs. Returns the number of
// messages deleted (per-ID misses are skipped, not errors).
func (c *Connector) DeleteMessages(ctx context.Context, messageIDs []string, permanent, skipBulkCheck bool) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	if !skipBulkCheck && len(messageIDs) > c.bulkDeleteLimit {
		return 0, fmt.Errorf("%w: too many messages for bulk delete (%d, maximum %d)",
			ErrValidation, len(messageIDs), c.bulkDeleteLimit)
	}
	idList, err := joinIDs(messageIDs)
	if err != nil {
		return 0, err
	}

	script := fmt.Sprintf(`tell application "Mail"
	set idList to {%s}
	set deleteCount to 0
	repeat with msgId in idList
		repeat with acc in accounts
			repeat with mb in mailboxes of acc
				try
					set msg to first message of mb whose id is msgId
					delete msg
					set deleteCount to deleteCount + 1
				end try
			end repeat
		end repeat
	end repeat
	return deleteCount
end tell`, idList)

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return 0, err
	}
	return parseCount(raw), nil
}

// CreateMailbox creates a mailbox in account, nested under parentMailbox
// when given. The name passes through sanitization first; a name that is
// empty after sanitizing is a validation error.
func (c *Connector) CreateMailbox(ctx context.Context, account, name, parentMailbox string) (bool, error) {
	sanitized := security.SanitizeMailboxName(name)
	if sanitized == "" {
		return false, fmt.Errorf("%w: invalid mailbox name %q", ErrValidation, name)
	}

	var script string
	if parentMailbox != "" {
		script = fmt.Sprintf(`tell application "Mail"
	set accountRef to account %s
	set parentMailbox to mailbox %s of accountRef
	make new mailbox at parentMailbox with properties {name:%s}
	return "success"
end tell`, applescript.Quote(account), applescript.Quote(parentMailbox), applescript.Quote(sanitized))
	} else {
		script = fmt.Sprintf(`tell application "Mail"
	set accountRef to account %s
	make new mailbox at accountRef with properties {name:%s}
	return "success"
end tell`, applescript.Quote(account), applescript.Quote(sanitized))
	}

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return false, err
	}
	return raw == "success", nil
}
