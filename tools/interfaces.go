package tools

import (
	"context"

	"github.com/rgabriel/mcp-apple-mail/mail"
)

// MailReader defines read-only bridge operations.
type MailReader interface {
	ListAccounts(ctx context.Context) ([]mail.Account, error)
	ListMailboxes(ctx context.Context, account string) ([]mail.Mailbox, error)
	SearchMessages(ctx context.Context, opts mail.SearchOptions) ([]mail.Message, error)
	GetMessage(ctx context.Context, messageID string, includeContent bool) (mail.MessageDetail, error)
	GetAttachments(ctx context.Context, messageID string) ([]mail.Attachment, error)
}

// MailWriter defines mutating bridge operations.
type MailWriter interface {
	MarkRead(ctx context.Context, messageIDs []string, read bool) (int, error)
	MoveMessages(ctx context.Context, messageIDs []string, destinationMailbox, account string, gmailMode bool) (int, error)
	FlagMessages(ctx context.Context, messageIDs []string, flagColor string) (int, error)
	DeleteMessages(ctx context.Context, messageIDs []string, permanent, skipBulkCheck bool) (int, error)
	CreateMailbox(ctx context.Context, account, name, parentMailbox string) (bool, error)
	SaveAttachments(ctx context.Context, messageID, saveDirectory string, indices []int) (int, error)
}

// MailSender defines outbound compose operations.
type MailSender interface {
	SendEmail(ctx context.Context, subject, body string, to, cc, bcc []string) (bool, error)
	SendEmailWithAttachments(ctx context.Context, subject, body string, to, cc, bcc, attachments []string, allowExecutables bool) (bool, error)
	ReplyToMessage(ctx context.Context, messageID, body string, replyAll, quoteOriginal bool) (string, error)
	ForwardMessage(ctx context.Context, messageID string, to []string, body string, cc, bcc []string, includeAttachments bool) (string, error)
}

// MailService combines all bridge operations. The concrete *mail.Connector
// satisfies this.
type MailService interface {
	MailReader
	MailWriter
	MailSender
}
