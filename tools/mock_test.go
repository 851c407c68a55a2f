package tools

import (
	"context"
	"fmt"

	"github.com/rgabriel/mcp-apple-mail/mail"
)

// MockMailService implements MailService for testing.
type MockMailService struct {
	// Return values
	Accounts    []mail.Account
	Mailboxes   []mail.Mailbox
	Messages    []mail.Message
	Detail      mail.MessageDetail
	Attachments []mail.Attachment
	Count       int
	Created     bool
	Sent        bool
	ReplyID     string
	ForwardID   string

	// Error injection
	Err error

	// Call tracking
	LastMethod             string
	LastAccount            string
	LastSearchOpts         mail.SearchOptions
	LastMessageID          string
	LastIncludeContent     bool
	LastMessageIDs         []string
	LastRead               bool
	LastDestination        string
	LastGmailMode          bool
	LastFlagColor          string
	LastPermanent          bool
	LastSkipBulkCheck      bool
	LastName               string
	LastParent             string
	LastSaveDir            string
	LastIndices            []int
	LastSubject            string
	LastBody               string
	LastTo                 []string
	LastCc                 []string
	LastBcc                []string
	LastAttachments        []string
	LastAllowExecutables   bool
	LastReplyAll           bool
	LastQuoteOriginal      bool
	LastIncludeAttachments bool
	CallCount              int
}

func (m *MockMailService) ListAccounts(ctx context.Context) ([]mail.Account, error) {
	m.LastMethod = "ListAccounts"
	m.CallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Accounts, nil
}

func (m *MockMailService) ListMailboxes(ctx context.Context, account string) ([]mail.Mailbox, error) {
	m.LastMethod = "ListMailboxes"
	m.LastAccount = account
	m.CallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Mailboxes, nil
}

func (m *MockMailService) SearchMessages(ctx context.Context, opts mail.SearchOptions) ([]mail.Message, error) {
	m.LastMethod = "SearchMessages"
	m.LastSearchOpts = opts
	m.CallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Messages, nil
}

func (m *MockMailService) GetMessage(ctx context.Context, messageID string, includeContent bool) (mail.MessageDetail, error) {
	m.LastMethod = "GetMessage"
	m.LastMessageID = messageID
	m.LastIncludeContent = includeContent
	m.CallCount++
	if m.Err != nil {
		return mail.MessageDetail{}, m.Err
	}
	return m.Detail, nil
}

func (m *MockMailService) GetAttachments(ctx context.Context, messageID string) ([]mail.Attachment, error) {
	m.LastMethod = "GetAttachments"
	m.LastMessageID = messageID
	m.CallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Attachments, nil
}

func (m *MockMailService) MarkRead(ctx context.Context, messageIDs []string, read bool) (int, error) {
	m.LastMethod = "MarkRead"
	m.LastMessageIDs = messageIDs
	m.LastRead = read
	m.CallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Count, nil
}

func (m *MockMailService) MoveMessages(ctx context.Context, messageIDs []string, destinationMailbox, account string, gmailMode bool) (int, error) {
	m.LastMethod = "MoveMessages"
	m.LastMessageIDs = messageIDs
	m.LastDestination = destinationMailbox
	m.LastAccount = account
	m.LastGmailMode = gmailMode
	m.CallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Count, nil
}

func (m *MockMailService) FlagMessages(ctx context.Context, messageIDs []string, flagColor string) (int, error) {
	m.LastMethod = "FlagMessages"
	m.LastMessageIDs = messageIDs
	m.LastFlagColor = flagColor
	m.CallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Count, nil
}

func (m *MockMailService) DeleteMessages(ctx context.Context, messageIDs []string, permanent, skipBulkCheck bool) (int, error) {
	m.LastMethod = "DeleteMessages"
	m.LastMessageIDs = messageIDs
	m.LastPermanent = permanent
	m.LastSkipBulkCheck = skipBulkCheck
	m.CallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Count, nil
}

func (m *MockMailService) CreateMailbox(ctx context.Context, account, name, parentMailbox string) (bool, error) {
	m.LastMethod = "CreateMailbox"
	m.LastAccount = account
	m.LastName = name
	m.LastParent = parentMailbox
	m.CallCount++
	if m.Err != nil {
		return false, m.Err
	}
	return m.Created, nil
}

func (m *MockMailService) SaveAttachments(ctx context.Context, messageID, saveDirectory string, indices []int) (int, error) {
	m.LastMethod = "SaveAttachments"
	m.LastMessageID = messageID
	m.LastSaveDir = saveDirectory
	m.LastIndices = indices
	m.CallCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Count, nil
}

func (m *MockMailService) SendEmail(ctx context.Context, subject, body string, to, cc, bcc []string) (bool, error) {
	m.LastMethod = "SendEmail"
	m.LastSubject = subject
	m.LastBody = body
	m.LastTo = to
	m.LastCc = cc
	m.LastBcc = bcc
	m.CallCount++
	if m.Err != nil {
		return false, m.Err
	}
	return m.Sent, nil
}

func (m *MockMailService) SendEmailWithAttachments(ctx context.Context, subject, body string, to, cc, bcc, attachments []string, allowExecutables bool) (bool, error) {
	m.LastMethod = "SendEmailWithAttachments"
	m.LastSubject = subject
	m.LastBody = body
	m.LastTo = to
	m.LastCc = cc
	m.LastBcc = bcc
	m.LastAttachments = attachments
	m.LastAllowExecutables = allowExecutables
	m.CallCount++
	if m.Err != nil {
		return false, m.Err
	}
	return m.Sent, nil
}

func (m *MockMailService) ReplyToMessage(ctx context.Context, messageID, body string, replyAll, quoteOriginal bool) (string, error) {
	m.LastMethod = "ReplyToMessage"
	m.LastMessageID = messageID
	m.LastBody = body
	m.LastReplyAll = replyAll
	m.LastQuoteOriginal = quoteOriginal
	m.CallCount++
	if m.Err != nil {
		return "", m.Err
	}
	return m.ReplyID, nil
}

func (m *MockMailService) ForwardMessage(ctx context.Context, messageID string, to []string, body string, cc, bcc []string, includeAttachments bool) (string, error) {
	m.LastMethod = "ForwardMessage"
	m.LastMessageID = messageID
	m.LastTo = to
	m.LastBody = body
	m.LastCc = cc
	m.LastBcc = bcc
	m.LastIncludeAttachments = includeAttachments
	m.CallCount++
	if m.Err != nil {
		return "", m.Err
	}
	return m.ForwardID, nil
}

// newErrMock returns a mock with an error pre-configured
func newErrMock(msg string) *MockMailService {
	return &MockMailService{Err: fmt.Errorf("%s", msg)}
}
