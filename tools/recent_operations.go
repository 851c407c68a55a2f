package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rgabriel/mcp-apple-mail/security"
)

// RecentOperationsHandler creates a handler for querying the audit trail of
// recent tool operations
func RecentOperationsHandler(audit *security.OperationLog) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		limit := intArg(args, "limit", 10)
		if limit < 0 {
			audit.Record("recent_operations", map[string]interface{}{"limit": limit}, security.OutcomeFailure)
			return validationResult("limit must not be negative"), nil
		}

		// Snapshot before recording so the query does not list itself.
		operations := audit.Recent(limit)
		audit.Record("recent_operations", map[string]interface{}{"limit": limit}, security.OutcomeSuccess)

		return jsonResult(map[string]interface{}{
			"success":    true,
			"count":      len(operations),
			"operations": operations,
		}), nil
	}
}
