package mail

import (
	"fmt"
	"strings"

	"github.com/rgabriel/mcp-apple-mail/applescript"
)

// The scripts emit one record per line, pipe-separated, in a fixed field
// order. Decoding is purely positional; rows with too few fields are
// dropped rather than failing the whole batch.

// parseMessageRows decodes id|subject|sender|date_received|read_status rows.
func parseMessageRows(raw string) []Message {
	messages := []Message{}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 5 {
			continue
		}
		messages = append(messages, Message{
			ID:           parts[0],
			Subject:      parts[1],
			Sender:       parts[2],
			DateReceived: parts[3],
			ReadStatus:   strings.EqualFold(parts[4], "true"),
		})
	}
	return messages
}

// parseMessageDetail decodes a single
// id|subject|sender|date_received|read_status|flagged|content record. The
// split is capped at seven fields so pipes inside the content survive. A
// record with fewer than six fields is indistinguishable from the message
// not existing and is reported as such.
func parseMessageDetail(raw string) (MessageDetail, error) {
	parts := strings.SplitN(raw, "|", 7)
	if len(parts) < 6 {
		return MessageDetail{}, fmt.Errorf("%w: unparseable message record", applescript.ErrMessageNotFound)
	}
	detail := MessageDetail{
		Message: Message{
			ID:           parts[0],
			Subject:      parts[1],
			Sender:       parts[2],
			DateReceived: parts[3],
			ReadStatus:   strings.EqualFold(parts[4], "true"),
		},
		Flagged: strings.EqualFold(parts[5], "true"),
	}
	if len(parts) > 6 {
		detail.Content = parts[6]
	}
	return detail, nil
}

// parseAttachmentRows decodes name|mime_type|size|downloaded rows.
func parseAttachmentRows(raw string) []Attachment {
	attachments := []Attachment{}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		attachments = append(attachments, Attachment{
			Name:       parts[0],
			MIMEType:   parts[1],
			Size:       parseSize(parts[2]),
			Downloaded: strings.EqualFold(parts[3], "true"),
		})
	}
	return attachments
}

// parseMailboxRows decodes name|unread_count rows.
func parseMailboxRows(raw string) []Mailbox {
	mailboxes := []Mailbox{}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		mailboxes = append(mailboxes, Mailbox{
			Name:        parts[0],
			UnreadCount: parseCount(parts[1]),
		})
	}
	return mailboxes
}

// parseAccountRows decodes name|addr,addr,... rows.
func parseAccountRows(raw string) []Account {
	accounts := []Account{}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		account := Account{Name: parts[0], EmailAddresses: []string{}}
		for _, addr := range strings.Split(parts[1], ",") {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				account.EmailAddresses = append(account.EmailAddresses, addr)
			}
		}
		accounts = append(accounts, account)
	}
	return accounts
}

// parseCount interprets a bare decimal count. Anything that is not all
// digits (including sign characters) maps to 0.
func parseCount(raw string) int {
	return int(parseSize(raw))
}

func parseSize(raw string) int64 {
	if raw == "" {
		return 0
	}
	var n int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int64(r-'0')
		if n < 0 {
			return 0
		}
	}
	return n
}
