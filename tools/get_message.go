package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// GetMessageHandler creates a handler for fetching one message's details
func GetMessageHandler(client MailReader, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageID := stringArg(args, "message_id")
		params := map[string]interface{}{"message_id": messageID}
		if messageID == "" {
			audit.Record("get_message", params, security.OutcomeFailure)
			return validationResult("message_id is required"), nil
		}

		includeContent := boolArg(args, "include_content", true)

		detail, err := client.GetMessage(ctx, messageID, includeContent)
		if err != nil {
			audit.Record("get_message", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("get_message", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success": true,
			"message": detail,
		}), nil
	}
}
