package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// GetAttachmentsHandler creates a handler for listing a message's attachments
func GetAttachmentsHandler(client MailReader, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageID := stringArg(args, "message_id")
		params := map[string]interface{}{"message_id": messageID}
		if messageID == "" {
			audit.Record("get_attachments", params, security.OutcomeFailure)
			return validationResult("message_id is required"), nil
		}

		attachments, err := client.GetAttachments(ctx, messageID)
		if err != nil {
			audit.Record("get_attachments", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("get_attachments", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":     true,
			"count":       len(attachments),
			"attachments": attachments,
		}), nil
	}
}
