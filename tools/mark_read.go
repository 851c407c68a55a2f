package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// MarkAsReadHandler creates a handler for setting read status on a batch of
// messages
func MarkAsReadHandler(client MailWriter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageIDs, err := stringListArg(args, "message_ids")
		read := boolArg(args, "read", true)
		params := map[string]interface{}{"message_ids": len(messageIDs), "read": read}
		if err != nil {
			audit.Record("mark_as_read", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if len(messageIDs) == 0 {
			audit.Record("mark_as_read", params, security.OutcomeFailure)
			return validationResult("message_ids is required"), nil
		}

		count, err := client.MarkRead(ctx, messageIDs, read)
		if err != nil {
			audit.Record("mark_as_read", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("mark_as_read", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success": true,
			"updated": count,
			"read":    read,
		}), nil
	}
}
