package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// ReplyToMessageHandler creates a handler for replying to a message. Replies
// count against the outbound rate limiter.
func ReplyToMessageHandler(client MailSender, limiter *security.SendLimiter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		messageID := stringArg(args, "message_id")
		body := stringArg(args, "body")
		replyAll := boolArg(args, "reply_all", false)
		quoteOriginal := boolArg(args, "quote_original", true)

		params := map[string]interface{}{"message_id": messageID, "reply_all": replyAll}
		if messageID == "" {
			audit.Record("reply_to_message", params, security.OutcomeFailure)
			return validationResult("message_id is required"), nil
		}
		if body == "" {
			audit.Record("reply_to_message", params, security.OutcomeFailure)
			return validationResult("body is required"), nil
		}
		if !limiter.Allow() {
			audit.Record("reply_to_message", params, security.OutcomeFailure)
			return rateLimitedResult("reply_to_message"), nil
		}

		replyID, err := client.ReplyToMessage(ctx, messageID, body, replyAll, quoteOriginal)
		if err != nil {
			audit.Record("reply_to_message", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("reply_to_message", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":  true,
			"reply_id": replyID,
		}), nil
	}
}
