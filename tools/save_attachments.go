package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// SaveAttachmentsHandler creates a handler for saving a message's
// attachments into a directory, all of them or a 0-based selection
func SaveAttachmentsHandler(client MailWriter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageID := stringArg(args, "message_id")
		saveDirectory := stringArg(args, "save_directory")
		params := map[string]interface{}{"message_id": messageID, "save_directory": saveDirectory}
		if messageID == "" {
			audit.Record("save_attachments", params, security.OutcomeFailure)
			return validationResult("message_id is required"), nil
		}
		if saveDirectory == "" {
			audit.Record("save_attachments", params, security.OutcomeFailure)
			return validationResult("save_directory is required"), nil
		}

		indices, err := intListArg(args, "attachment_indices")
		if err != nil {
			audit.Record("save_attachments", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}

		count, err := client.SaveAttachments(ctx, messageID, saveDirectory, indices)
		if err != nil {
			audit.Record("save_attachments", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("save_attachments", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":        true,
			"saved":          count,
			"save_directory": saveDirectory,
		}), nil
	}
}
