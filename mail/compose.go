package mail

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rgabriel/mcp-apple-mail/applescript"
)

// SendEmail composes and sends a message through the host application.
// Success is derived from the script's literal "sent" sentinel. Recipient
// address validation happens at the caller; the connector only renders the
// lists.
func (c *Connector) SendEmail(ctx context.Context, subject, body string, to, cc, bcc []string) (bool, error) {
	if len(to) == 0 {
		return false, fmt.Errorf("%w: at least one recipient required", ErrValidation)
	}

	script := fmt.Sprintf(`tell application "Mail"
	set theMessage to make new outgoing message with properties {subject:%s, content:%s, visible:false}
	tell theMessage
		repeat with addr in %s
			make new to recipient with properties {address:addr}
		end repeat
		repeat with addr in %s
			make new cc recipient with properties {address:addr}
		end repeat
		repeat with addr in %s
			make new bcc recipient with properties {address:addr}
		end repeat
		send
	end tell
	return "sent"
end tell`, applescript.Quote(subject), applescript.Quote(body),
		applescript.FormatList(to), applescript.FormatList(cc), applescript.FormatList(bcc))

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return false, err
	}
	return raw == "sent", nil
}

// SendEmailWithAttachments sends a message with files attached. Every path
// must name an existing regular file that passes the attachment policy
// (size ceiling, executable-extension denylist unless allowExecutables);
// any rejection happens before the bridge is touched.
func (c *Connector) SendEmailWithAttachments(ctx context.Context, subject, body string, to, cc, bcc, attachments []string, allowExecutables bool) (bool, error) {
	if len(to) == 0 {
		return false, fmt.Errorf("%w: at least one recipient required", ErrValidation)
	}

	fileRefs := make([]string, 0, len(attachments))
	for _, path := range attachments {
		if err := c.attachmentPolicy.Validate(path, allowExecutables); err != nil {
			return false, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return false, fmt.Errorf("%w: invalid attachment path %q", ErrValidation, path)
		}
		fileRefs = append(fileRefs, fmt.Sprintf("POSIX file %s", applescript.Quote(abs)))
	}

	script := fmt.Sprintf(`tell application "Mail"
	set theMessage to make new outgoing message with properties {subject:%s, content:%s, visible:false}
	tell theMessage
		repeat with addr in %s
			make new to recipient with properties {address:addr}
		end repeat
		repeat with addr in %s
			make new cc recipient with properties {address:addr}
		end repeat
		repeat with addr in %s
			make new bcc recipient with properties {address:addr}
		end repeat
		repeat with filePath in {%s}
			make new attachment with properties {file name:filePath} at after last paragraph
		end repeat
		send
	end tell
	return "sent"
end tell`, applescript.Quote(subject), applescript.Quote(body),
		applescript.FormatList(to), applescript.FormatList(cc), applescript.FormatList(bcc),
		strings.Join(fileRefs, ", "))

	raw, err := c.runner.Run(ctx, script)
	if err != nil {
		return false, err
	}
	return raw == "sent", nil
}

// ReplyToMessage creates a reply to the message with the given ID, replaces
// its body with the caller's text, sends it, and returns the new message's
// ID. replyAll addresses every original recipient instead of just the
// sender. Quoting of the original content is left entirely to the host's
// native reply behavior; quoteOriginal is advisory.
func (c *Connector) ReplyToMessage(ctx context.Context, messageID, body string, replyAll, quoteOriginal bool) (string, error) {
	if err := validateMessageID(messageID); err != nil {
		return "", err
	}

	replyVerb := "reply"
	if replyAll {
		replyVerb = "reply to all"
	}

	script := fmt.Sprintf(`tell application "Mail"
	repeat with acc in accounts
		repeat with mb in mailboxes of acc
			try
				set origMsg to first message of mb whose id is %s
				set replyMsg to %s origMsg
				set content of replyMsg to %s
				set replyId to id of replyMsg
				send replyMsg
				return replyId
			end try
		end repeat
	end repeat
	error "Message not found"
end tell`, messageID, replyVerb, applescript.Quote(body))

	return c.runner.Run(ctx, script)
}

// ForwardMessage forwards the message with the given ID, optionally
// prepending body text above the forwarded content, and returns the new
// message's ID. Original attachments ride along through the host's native
// forward behavior; includeAttachments is advisory, not enforced.
func (c *Connector) ForwardMessage(ctx context.Context, messageID string, to []string, body string, cc, bcc []string, includeAttachments bool) (string, error) {
	if err := validateMessageID(messageID); err != nil {
		return "", err
	}
	if len(to) == 0 {
		return "", fmt.Errorf("%w: at least one recipient required", ErrValidation)
	}

	ccList := `""`
	if len(cc) > 0 {
		ccList = applescript.FormatList(cc)
	}
	bccList := `""`
	if len(bcc) > 0 {
		bccList = applescript.FormatList(bcc)
	}
	bodyLiteral := applescript.Quote(body)

	script := fmt.Sprintf(`tell application "Mail"
	repeat with acc in accounts
		repeat with mb in mailboxes of acc
			try
				set origMsg to first message of mb whose id is %s
				set fwdMsg to forward origMsg
				if %s is not "" then
					set origContent to content of fwdMsg
					set content of fwdMsg to %s & return & return & origContent
				end if
				repeat with recipientAddr in %s
					make new to recipient at end of to recipients of fwdMsg with properties {address:recipientAddr}
				end repeat
				if %s is not "" then
					repeat with recipientAddr in %s
						make new cc recipient at end of cc recipients of fwdMsg with properties {address:recipientAddr}
					end repeat
				end if
				if %s is not "" then
					repeat with recipientAddr in %s
						make new bcc recipient at end of bcc recipients of fwdMsg with properties {address:recipientAddr}
					end repeat
				end if
				set fwdId to id of fwdMsg
				send fwdMsg
				return fwdId
			end try
		end repeat
	end repeat
	error "Message not found"
end tell`, messageID, bodyLiteral, bodyLiteral, applescript.FormatList(to),
		ccList, ccList, bccList, bccList)

	return c.runner.Run(ctx, script)
}
