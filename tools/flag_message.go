package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// FlagMessageHandler creates a handler for setting the flag color on a batch
// of messages; color "none" clears the flag
func FlagMessageHandler(client MailWriter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageIDs, err := stringListArg(args, "message_ids")
		flagColor := stringArg(args, "flag_color")
		params := map[string]interface{}{"message_ids": len(messageIDs), "flag_color": flagColor}
		if err != nil {
			audit.Record("flag_message", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if len(messageIDs) == 0 {
			audit.Record("flag_message", params, security.OutcomeFailure)
			return validationResult("message_ids is required"), nil
		}
		if flagColor == "" {
			audit.Record("flag_message", params, security.OutcomeFailure)
			return validationResult("flag_color is required"), nil
		}

		count, err := client.FlagMessages(ctx, messageIDs, flagColor)
		if err != nil {
			audit.Record("flag_message", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("flag_message", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":    true,
			"flagged":    count,
			"flag_color": flagColor,
		}), nil
	}
}
