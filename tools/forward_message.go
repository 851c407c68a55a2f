package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// ForwardMessageHandler creates a handler for forwarding a message to new
// recipients. Forwards count against the outbound rate limiter.
func ForwardMessageHandler(client MailSender, limiter *security.SendLimiter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageID := stringArg(args, "message_id")
		body := stringArg(args, "body")
		includeAttachments := boolArg(args, "include_attachments", true)

		to, cc, bcc, err := recipientLists(args)
		params := map[string]interface{}{"message_id": messageID, "to": len(to)}
		if err != nil {
			audit.Record("forward_message", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if messageID == "" {
			audit.Record("forward_message", params, security.OutcomeFailure)
			return validationResult("message_id is required"), nil
		}
		if err := security.ValidateRecipients(to, cc, bcc); err != nil {
			audit.Record("forward_message", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if !limiter.Allow() {
			audit.Record("forward_message", params, security.OutcomeFailure)
			return rateLimitedResult("forward_message"), nil
		}

		forwardID, err := client.ForwardMessage(ctx, messageID, to, body, cc, bcc, includeAttachments)
		if err != nil {
			audit.Record("forward_message", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("forward_message", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":    true,
			"forward_id": forwardID,
		}), nil
	}
}
