package mail

import "errors"

// ErrValidation marks input rejected before any script is dispatched. Wrap
// it with fmt.Errorf("%w: ...") so callers can classify with errors.Is.
var ErrValidation = errors.New("validation error")

// Message is one message row as reported by the host application. The date
// is passed through as the host's own text rendering, not parsed.
type Message struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Sender       string `json:"sender"`
	DateReceived string `json:"date_received"`
	ReadStatus   bool   `json:"read_status"`
}

// MessageDetail is a full single-message fetch, extending the row shape with
// flag state and (optionally) the body content.
type MessageDetail struct {
	Message
	Flagged bool   `json:"flagged"`
	Content string `json:"content"`
}

// Attachment describes one attachment on a message.
type Attachment struct {
	Name       string `json:"name"`
	MIMEType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	Downloaded bool   `json:"downloaded"`
}

// Mailbox is a mailbox within an account.
type Mailbox struct {
	Name        string `json:"name"`
	UnreadCount int    `json:"unread_count"`
}

// Account is a configured mail account.
type Account struct {
	Name           string   `json:"name"`
	EmailAddresses []string `json:"email_addresses"`
}
