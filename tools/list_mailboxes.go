package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// ListMailboxesHandler creates a handler for listing the mailboxes of one
// account with their unread counts
func ListMailboxesHandler(client MailReader, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		account := stringArg(args, "account")
		params := map[string]interface{}{"account": account}
		if account == "" {
			audit.Record("list_mailboxes", params, security.OutcomeFailure)
			return validationResult("account is required"), nil
		}

		mailboxes, err := client.ListMailboxes(ctx, account)
		if err != nil {
			audit.Record("list_mailboxes", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("list_mailboxes", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":   true,
			"account":   account,
			"count":     len(mailboxes),
			"mailboxes": mailboxes,
		}), nil
	}
}
