package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// SendEmailHandler creates a handler for composing and sending a message.
// The call must carry confirmed=true and pass the outbound rate limiter
// before the bridge is touched.
func SendEmailHandler(client MailSender, limiter *security.SendLimiter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		subject := stringArg(args, "subject")
		body := stringArg(args, "body")

		to, cc, bcc, err := recipientLists(args)
		params := map[string]interface{}{
			"subject": subject, "to": len(to), "cc": len(cc), "bcc": len(bcc),
		}
		if err != nil {
			audit.Record("send_email", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if err := security.ValidateRecipients(to, cc, bcc); err != nil {
			audit.Record("send_email", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if err := security.Confirm("send_email", boolArg(args, "confirmed", false)); err != nil {
			audit.Record("send_email", params, security.OutcomeCancelled)
			return failureResult(err), nil
		}
		if !limiter.Allow() {
			audit.Record("send_email", params, security.OutcomeFailure)
			return rateLimitedResult("send_email"), nil
		}

		sent, err := client.SendEmail(ctx, subject, body, to, cc, bcc)
		if err != nil {
			audit.Record("send_email", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("send_email", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success": sent,
			"message": "Email sent successfully",
		}), nil
	}
}
