package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// DeleteMessagesHandler creates a handler for deleting a batch of messages.
// The connector's bulk guard is always enforced here; there is no waiver at
// the tool surface.
func DeleteMessagesHandler(client MailWriter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageIDs, err := stringListArg(args, "message_ids")
		permanent := boolArg(args, "permanent", false)
		params := map[string]interface{}{"message_ids": len(messageIDs), "permanent": permanent}
		if err != nil {
			audit.Record("delete_messages", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if len(messageIDs) == 0 {
			audit.Record("delete_messages", params, security.OutcomeFailure)
			return validationResult("message_ids is required"), nil
		}

		count, err := client.DeleteMessages(ctx, messageIDs, permanent, false)
		if err != nil {
			audit.Record("delete_messages", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("delete_messages", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":   true,
			"deleted":   count,
			"permanent": permanent,
		}), nil
	}
}
