package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rgabriel/mcp-apple-mail/applescript"
)

// GetAttachments lists the attachments of one message, searching every
// account and mailbox for the ID.
func (c *Connector) GetAttachments(ctx context.Context, messageID string) ([]Attachment, error) {
	if err := validateMessageID(messageID); err != nil {
		return nil, err
	}

	script := fmt.Sprintf(`tell application "Mail"
	repeat with acc in accounts
		repeat with mb in mailboxes of acc
			try
				set msg to first message of mb whose id is %s
				set attList to mail attachments of msg
				set resultList to {}
				repeat with att in attList
					set attName to name of att
					set attType to MIME type of att
					set attSize to file size of att
					set attDownloaded to downloaded of att
					set end of resultList to attName & "|" & attType & "|" & attSize & "|" & attDownloaded
				end repeat
				set AppleScript's text item delimiters to linefeed
				set output to resultList as text
				set AppleScript's text item delimiters to ""
				return output
			end try
		end repeat
	end repeat
	error "Message not found"
end tell`, messageID)

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	return parseAttachmentRows(raw), nil
}

// SaveAttachments writes attachments of one message into saveDirectory,
// which must already exist. indices selects which attachments to save
// (0-based; nil saves all). Returns how many were saved; attachments the
// host fails to write are skipped, not errors.
func (c *Connector) SaveAttachments(ctx context.Context, messageID, saveDirectory string, indices []int) (int, error) {
	if err := validateMessageID(messageID); err != nil {
		return 0, err
	}

	info, err := os.Stat(saveDirectory)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: save directory does not exist: %s", ErrValidation, saveDirectory)
		}
		return 0, fmt.Errorf("failed to stat save directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: save path is not a directory: %s", ErrValidation, saveDirectory)
	}
	resolved, err := filepath.Abs(saveDirectory)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid save directory: %v", ErrValidation, err)
	}
	resolved = filepath.Clean(resolved)
	if strings.Contains(resolved, "..") {
		return 0, fmt.Errorf("%w: path traversal detected: %s", ErrValidation, saveDirectory)
	}

	// The host indexes attachments from 1.
	indexFilter := ""
	if indices != nil {
		oneBased := make([]string, len(indices))
		for i, idx := range indices {
			if idx < 0 {
				return 0, fmt.Errorf("%w: invalid attachment index %d", ErrValidation, idx)
			}
			oneBased[i] = strconv.Itoa(idx + 1)
		}
		indexFilter = fmt.Sprintf("items {%s} of ", strings.Join(oneBased, ", "))
	}

	script := fmt.Sprintf(`tell application "Mail"
	repeat with acc in accounts
		repeat with mb in mailboxes of acc
			try
				set msg to first message of mb whose id is %s
				set attList to %smail attachments of msg
				set saveCount to 0
				repeat with att in attList
					try
						set attName to name of att
						save att in (%s & "/" & attName)
						set saveCount to saveCount + 1
					end try
				end repeat
				return saveCount
			end try
		end repeat
	end repeat
	error "Message not found"
end tell`, messageID, indexFilter, applescript.Quote(resolved))

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return 0, err
	}
	return parseCount(raw), nil
}
