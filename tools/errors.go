package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/applescript"
	"github.com/rgabriel/mcp-apple-mail/mail"
	"github.com/rgabriel/mcp-apple-mail/security"
)

// errorTag maps an error to the coarse outward error_type tag clients branch
// on.
func errorTag(err error) string {
	var scriptErr *applescript.ScriptError
	switch {
	case errors.Is(err, applescript.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, applescript.ErrMailboxNotFound):
		return "mailbox_not_found"
	case errors.Is(err, applescript.ErrMessageNotFound):
		return "message_not_found"
	case errors.Is(err, applescript.ErrTimeout):
		return "timeout"
	case errors.Is(err, mail.ErrValidation):
		return "validation_error"
	case errors.Is(err, security.ErrNotConfirmed):
		return "confirmation_required"
	case errors.As(err, &scriptErr):
		return "script_error"
	default:
		return "unknown"
	}
}

// failureResult renders err as the structured failure payload carried in an
// error tool result. Handlers never return Go errors to the MCP runtime.
func failureResult(err error) *mcp.CallToolResult {
	return errorResult(err.Error(), errorTag(err))
}

// validationResult is a failure payload for argument problems caught before
// any bridge call.
func validationResult(message string) *mcp.CallToolResult {
	return errorResult(message, "validation_error")
}

// rateLimitedResult is the denial payload for over-limit send operations.
func rateLimitedResult(operation string) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("%s denied: send rate limit exceeded, retry later", operation), "rate_limited")
}

func errorResult(message, tag string) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"success":    false,
		"error":      message,
		"error_type": tag,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(message)
	}
	return mcp.NewToolResultError(string(data))
}

// jsonResult renders a success payload as indented JSON text.
func jsonResult(payload map[string]interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format response: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}
