package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// ListAccountsHandler creates a handler for listing configured mail accounts
func ListAccountsHandler(client MailReader, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		accounts, err := client.ListAccounts(ctx)
		if err != nil {
			audit.Record("list_accounts", nil, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("list_accounts", nil, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":  true,
			"count":    len(accounts),
			"accounts": accounts,
		}), nil
	}
}
