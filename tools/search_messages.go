package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/mail"
	"github.com/rgabriel/mcp-apple-mail/security"
)

// SearchMessagesHandler creates a handler for searching a mailbox with
// optional sender/subject/read filters
func SearchMessagesHandler(client MailReader, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		account := stringArg(args, "account")
		mailbox := stringArg(args, "mailbox")
		if mailbox == "" {
			mailbox = "INBOX"
		}
		params := map[string]interface{}{"account": account, "mailbox": mailbox}
		if account == "" {
			audit.Record("search_messages", params, security.OutcomeFailure)
			return validationResult("account is required"), nil
		}

		opts := mail.SearchOptions{
			Account:         account,
			Mailbox:         mailbox,
			SenderContains:  stringArg(args, "sender_contains"),
			SubjectContains: stringArg(args, "subject_contains"),
			ReadStatus:      optionalBoolArg(args, "read_status"),
			Limit:           intArg(args, "limit", 50),
			ScanLimit:       intArg(args, "scan_limit", 0),
		}

		messages, err := client.SearchMessages(ctx, opts)
		if err != nil {
			audit.Record("search_messages", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("search_messages", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":  true,
			"account":  account,
			"mailbox":  mailbox,
			"count":    len(messages),
			"messages": messages,
		}), nil
	}
}
