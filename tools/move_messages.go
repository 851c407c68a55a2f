package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// MoveMessagesHandler creates a handler for moving a batch of messages into
// another mailbox. gmail_mode switches to the duplicate-then-delete sequence
// label-based backends need.
func MoveMessagesHandler(client MailWriter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageIDs, err := stringListArg(args, "message_ids")
		destination := stringArg(args, "destination_mailbox")
		account := stringArg(args, "account")
		gmailMode := boolArg(args, "gmail_mode", false)

		params := map[string]interface{}{
			"message_ids": len(messageIDs), "destination_mailbox": destination, "account": account,
		}
		if err != nil {
			audit.Record("move_messages", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if len(messageIDs) == 0 {
			audit.Record("move_messages", params, security.OutcomeFailure)
			return validationResult("message_ids is required"), nil
		}
		if destination == "" {
			audit.Record("move_messages", params, security.OutcomeFailure)
			return validationResult("destination_mailbox is required"), nil
		}
		if account == "" {
			audit.Record("move_messages", params, security.OutcomeFailure)
			return validationResult("account is required"), nil
		}

		count, err := client.MoveMessages(ctx, messageIDs, destination, account, gmailMode)
		if err != nil {
			audit.Record("move_messages", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("move_messages", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":             true,
			"moved":               count,
			"destination_mailbox": destination,
		}), nil
	}
}
