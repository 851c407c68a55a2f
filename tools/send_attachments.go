package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// SendEmailWithAttachmentsHandler creates a handler for sending a message
// with files attached. Attachment paths are screened by the connector's
// policy; the confirmation gate and rate limiter apply as for send_email.
func SendEmailWithAttachmentsHandler(client MailSender, limiter *security.SendLimiter, audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		subject := stringArg(args, "subject")
		body := stringArg(args, "body")

		to, cc, bcc, err := recipientLists(args)
		params := map[string]interface{}{
			"subject": subject, "to": len(to), "cc": len(cc), "bcc": len(bcc),
		}
		if err != nil {
			audit.Record("send_email_with_attachments", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}

		attachments, err := stringListArg(args, "attachments")
		if err != nil {
			audit.Record("send_email_with_attachments", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		params["attachments"] = len(attachments)
		if len(attachments) == 0 {
			audit.Record("send_email_with_attachments", params, security.OutcomeFailure)
			return validationResult("attachments is required (use send_email for plain messages)"), nil
		}

		if err := security.ValidateRecipients(to, cc, bcc); err != nil {
			audit.Record("send_email_with_attachments", params, security.OutcomeFailure)
			return validationResult(err.Error()), nil
		}
		if err := security.Confirm("send_email_with_attachments", boolArg(args, "confirmed", false)); err != nil {
			audit.Record("send_email_with_attachments", params, security.OutcomeCancelled)
			return failureResult(err), nil
		}
		if !limiter.Allow() {
			audit.Record("send_email_with_attachments", params, security.OutcomeFailure)
			return rateLimitedResult("send_email_with_attachments"), nil
		}

		allowExecutables := boolArg(args, "allow_executables", false)

		sent, err := client.SendEmailWithAttachments(ctx, subject, body, to, cc, bcc, attachments, allowExecutables)
		if err != nil {
			audit.Record("send_email_with_attachments", params, security.OutcomeFailure)
			return failureResult(err), nil
		}

		audit.Record("send_email_with_attachments", params, security.OutcomeSuccess)
		return jsonResult(map[string]interface{}{
			"success":     sent,
			"message":     "Email sent successfully",
			"attachments": len(attachments),
		}), nil
	}
}
