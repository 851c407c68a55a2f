package main

import (
	"context"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// timeoutMiddleware wraps each tool handler with a context deadline. The
// deadline must outlive the script runner's own timeout so handlers get to
// report script timeouts as structured payloads instead of being cut off.
func timeoutMiddleware(timeout time.Duration) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, req)
		}
	}
}

// loggingMiddleware logs each tool call with a unique request ID, tool name,
// argument count, duration, and outcome. Argument values stay out of the log;
// they can hold message bodies and recipient addresses.
func loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			requestID := uuid.New().String()
			logger := slog.With("request_id", requestID, "tool", req.Params.Name)

			logger.Debug("tool call started", "args", len(req.GetArguments()))
			start := time.Now()

			result, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.Error("tool call failed", "duration_ms", duration.Milliseconds(), "error", err)
			} else if result != nil && result.IsError {
				logger.Warn("tool call returned error", "duration_ms", duration.Milliseconds())
			} else {
				logger.Info("tool call completed", "duration_ms", duration.Milliseconds())
			}

			return result, err
		}
	}
}
