package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// CreateMailboxHandler creates a handler for creating a mailbox, optionally
// nested under a parent
func CreateMailboxHandler(client MailWriter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		account := stringArg(args, "account")
		name := stringArg(args, "name")
		parent := stringArg(args, "parent_mailbox")

		params := map[string]interface{}{"account": account, "name": name, "parent_mailbox": parent}
		if account == "" {
			audit.Record("create_mailbox", params, security.OutcomeFailure)
			return validationResult("account is required"), nil
		}
		if name == "" {
			audit.Record("create_mailbox", params, security.OutcomeFailure)
			return validationResult("name is required"), nil
		}

		created, err := client.CreateMailbox(ctx, account, name, parent)
		if err != nil {
			audit.Record("create_mailbox", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("create_mailbox", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success": created,
			"account": account,
			"mailbox": name,
		}), nil
	}
}
