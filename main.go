package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rgabriel/mcp-apple-mail/applescript"
	"github.com/rgabriel/mcp-apple-mail/config"
	"github.com/rgabriel/mcp-apple-mail/mail"
	"github.com/rgabriel/mcp-apple-mail/security"
	"github.com/rgabriel/mcp-apple-mail/tools"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	// Initialize structured logging
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelInfo)
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		switch strings.ToUpper(lvl) {
		case "DEBUG":
			logLevel.Set(slog.LevelDebug)
		case "WARN":
			logLevel.Set(slog.LevelWarn)
		case "ERROR":
			logLevel.Set(slog.LevelError)
		}
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// The interpreter is only invoked per tool call, so a missing binary is
	// not fatal here; warn so the operator sees it before the first failure.
	if _, err := os.Stat(cfg.OsascriptPath); err != nil {
		slog.Warn("osascript not found, tool calls will fail", "path", cfg.OsascriptPath, "error", err)
	}

	// Wire the bridge
	runner := applescript.NewRunner(cfg.OsascriptPath, cfg.ScriptTimeout())
	connector := mail.NewConnector(runner, mail.Options{
		ScanLimit:       cfg.DefaultScanLimit,
		BulkDeleteLimit: cfg.BulkDeleteLimit,
		AttachmentPolicy: security.AttachmentPolicy{
			MaxBytes:         cfg.MaxAttachmentBytes,
			AllowExecutables: cfg.AllowExecutables,
		},
	})
	audit := security.NewOperationLog(cfg.AuditLogSize)
	limiter := security.NewSendLimiter(cfg.SendRatePerMinute, cfg.SendBurst)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	// Create MCP server with middleware (applied in reverse: logging wraps
	// timeout wraps handler)
	s := server.NewMCPServer(
		"Apple Mail Server",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(timeoutMiddleware(cfg.ScriptTimeout()+15*time.Second)),
		server.WithToolHandlerMiddleware(loggingMiddleware()),
	)

	// Register list_accounts tool
	listAccountsTool := mcp.NewTool("list_accounts",
		mcp.WithDescription("List all mail accounts configured in Apple Mail. Returns each account's name and email addresses. Account names are used as the 'account' parameter in other tools."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
	s.AddTool(listAccountsTool, tools.ListAccountsHandler(connector, audit))

	// Register list_mailboxes tool
	listMailboxesTool := mcp.NewTool("list_mailboxes",
		mcp.WithDescription("List the mailboxes of one account with unread counts. Use list_accounts first to discover account names. Mailbox names are used as the 'mailbox' parameter in search_messages."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("account",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Account name (from list_accounts)."),
		),
	)
	s.AddTool(listMailboxesTool, tools.ListMailboxesHandler(connector, audit))

	// Register search_messages tool
	searchMessagesTool := mcp.NewTool("search_messages",
		mcp.WithDescription("Search a mailbox with optional sender, subject, and read-status filters. Returns each message's id (use with get_message), subject, sender, date, and read status. Newest messages come first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("account",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Account name (from list_accounts)."),
		),
		mcp.WithString("mailbox",
			mcp.Description("Mailbox to search in. Use list_mailboxes to discover valid names."),
			mcp.DefaultString("INBOX"),
		),
		mcp.WithString("sender_contains",
			mcp.Description("Only messages whose sender contains this text."),
		),
		mcp.WithString("subject_contains",
			mcp.Description("Only messages whose subject contains this text."),
		),
		mcp.WithBoolean("read_status",
			mcp.Description("true for read messages only, false for unread only. Omit for both."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return."),
			mcp.DefaultNumber(50),
			mcp.Min(1),
		),
		mcp.WithNumber("scan_limit",
			mcp.Description("Cap on messages inspected when the account does not support server-side filtering. Omit for the configured default."),
			mcp.Min(1),
		),
	)
	s.AddTool(searchMessagesTool, tools.SearchMessagesHandler(connector, audit))

	// Register get_message tool
	getMessageTool := mcp.NewTool("get_message",
		mcp.WithDescription("Fetch one message's full details by ID. Use search_messages first to find message IDs. Returns subject, sender, date, read status, flagged status, and the plain text content."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID from search_messages results."),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include the message body. Set false for headers only; large bodies can be slow to fetch."),
			mcp.DefaultBool(true),
		),
	)
	s.AddTool(getMessageTool, tools.GetMessageHandler(connector, audit))

	// Register get_attachments tool
	getAttachmentsTool := mcp.NewTool("get_attachments",
		mcp.WithDescription("List a message's attachments with name, MIME type, size, and whether the content has been downloaded. Use save_attachments to write them to disk."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID from search_messages results."),
		),
	)
	s.AddTool(getAttachmentsTool, tools.GetAttachmentsHandler(connector, audit))

	// Register save_attachments tool
	saveAttachmentsTool := mcp.NewTool("save_attachments",
		mcp.WithDescription("Save a message's attachments into a directory that must already exist. By default saves all attachments; pass attachment_indices to select some. Use get_attachments first to see what is available."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID from search_messages results."),
		),
		mcp.WithString("save_directory",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Absolute path of an existing directory to save into."),
		),
		mcp.WithArray("attachment_indices",
			mcp.Description("0-based indices into the get_attachments list (e.g. [0, 2]). Omit to save all."),
		),
	)
	s.AddTool(saveAttachmentsTool, tools.SaveAttachmentsHandler(connector, audit))

	// Register mark_as_read tool
	markAsReadTool := mcp.NewTool("mark_as_read",
		mcp.WithDescription("Mark a batch of messages as read or unread. Use search_messages to find message IDs."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID (string) or JSON array of IDs (from search_messages)."),
		),
		mcp.WithBoolean("read",
			mcp.Description("true to mark as read, false to mark as unread."),
			mcp.DefaultBool(true),
		),
	)
	s.AddTool(markAsReadTool, tools.MarkAsReadHandler(connector, audit))

	// Register move_messages tool
	moveMessagesTool := mcp.NewTool("move_messages",
		mcp.WithDescription("Move a batch of messages into another mailbox of the same account. Use list_mailboxes to discover destination names. Set gmail_mode=true for Gmail accounts, whose label store ignores direct moves."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID (string) or JSON array of IDs (from search_messages)."),
		),
		mcp.WithString("destination_mailbox",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Destination mailbox name (from list_mailboxes)."),
		),
		mcp.WithString("account",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Account owning the destination mailbox."),
		),
		mcp.WithBoolean("gmail_mode",
			mcp.Description("Copy then delete instead of reassigning the mailbox. Required for Gmail accounts."),
			mcp.DefaultBool(false),
		),
	)
	s.AddTool(moveMessagesTool, tools.MoveMessagesHandler(connector, audit))

	// Register flag_message tool
	flagMessageTool := mcp.NewTool("flag_message",
		mcp.WithDescription("Set the flag color on a batch of messages, or clear it with 'none'. Use search_messages to find message IDs."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID (string) or JSON array of IDs (from search_messages)."),
		),
		mcp.WithString("flag_color",
			mcp.Required(),
			mcp.Enum(mail.FlagColorNames...),
			mcp.Description("Flag color to set. Use 'none' to clear the flag."),
		),
	)
	s.AddTool(flagMessageTool, tools.FlagMessageHandler(connector, audit))

	// Register delete_messages tool
	deleteMessagesTool := mcp.NewTool("delete_messages",
		mcp.WithDescription("Delete a batch of messages. By default messages move to the account's trash; permanent=true removes them immediately and cannot be undone. Batches over the configured limit are refused."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID (string) or JSON array of IDs (from search_messages)."),
		),
		mcp.WithBoolean("permanent",
			mcp.Description("Permanently delete instead of moving to trash. This cannot be undone."),
			mcp.DefaultBool(false),
		),
	)
	s.AddTool(deleteMessagesTool, tools.DeleteMessagesHandler(connector, audit))

	// Register create_mailbox tool
	createMailboxTool := mcp.NewTool("create_mailbox",
		mcp.WithDescription("Create a new mailbox in an account, optionally nested under a parent mailbox. Calling twice with the same name fails if the mailbox already exists."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithString("account",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Account to create the mailbox in (from list_accounts)."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Name of the new mailbox. Path separators and control characters are stripped."),
		),
		mcp.WithString("parent_mailbox",
			mcp.Description("Parent mailbox to nest under (from list_mailboxes). Omit for top level."),
		),
	)
	s.AddTool(createMailboxTool, tools.CreateMailboxHandler(connector, audit))

	// Register send_email tool
	sendEmailTool := mcp.NewTool("send_email",
		mcp.WithDescription("Compose and send a new email through Apple Mail. Requires confirmed=true; without it the call returns confirmation_required and nothing is sent. Calling twice sends duplicate emails."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithString("to",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Recipient email address (string) or JSON array of addresses."),
		),
		mcp.WithString("subject",
			mcp.Description("Email subject line."),
		),
		mcp.WithString("body",
			mcp.Description("Plain text email body."),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address (string) or JSON array of addresses."),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address (string) or JSON array of addresses."),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description("Must be true to actually send. Serves as the explicit go-ahead for outbound mail."),
			mcp.DefaultBool(false),
		),
	)
	s.AddTool(sendEmailTool, tools.SendEmailHandler(connector, limiter, audit))

	// Register send_email_with_attachments tool
	sendEmailWithAttachmentsTool := mcp.NewTool("send_email_with_attachments",
		mcp.WithDescription("Compose and send an email with files attached. Attachments must exist, fit the size limit, and not be executable types unless allow_executables=true. Requires confirmed=true like send_email."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithString("to",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Recipient email address (string) or JSON array of addresses."),
		),
		mcp.WithString("subject",
			mcp.Description("Email subject line."),
		),
		mcp.WithString("body",
			mcp.Description("Plain text email body."),
		),
		mcp.WithString("attachments",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Absolute file path (string) or JSON array of paths to attach."),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address (string) or JSON array of addresses."),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address (string) or JSON array of addresses."),
		),
		mcp.WithBoolean("allow_executables",
			mcp.Description("Permit executable file types (.exe, .sh, .app, ...) as attachments."),
			mcp.DefaultBool(false),
		),
		mcp.WithBoolean("confirmed",
			mcp.Description("Must be true to actually send."),
			mcp.DefaultBool(false),
		),
	)
	s.AddTool(sendEmailWithAttachmentsTool, tools.SendEmailWithAttachmentsHandler(connector, limiter, audit))

	// Register reply_to_message tool
	replyToMessageTool := mcp.NewTool("reply_to_message",
		mcp.WithDescription("Reply to an existing message. Use get_message first to read the original. The original text is quoted below the reply unless quote_original=false. Calling twice sends duplicate replies."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID of the original (from search_messages)."),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Reply body text."),
		),
		mcp.WithBoolean("reply_all",
			mcp.Description("Reply to all original recipients instead of just the sender."),
			mcp.DefaultBool(false),
		),
		mcp.WithBoolean("quote_original",
			mcp.Description("Quote the original message below the reply."),
			mcp.DefaultBool(true),
		),
	)
	s.AddTool(replyToMessageTool, tools.ReplyToMessageHandler(connector, limiter, audit))

	// Register forward_message tool
	forwardMessageTool := mcp.NewTool("forward_message",
		mcp.WithDescription("Forward an existing message to new recipients, keeping its attachments unless include_attachments=false. Calling twice sends duplicate forwards."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Message ID of the original (from search_messages)."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Recipient email address (string) or JSON array of addresses."),
		),
		mcp.WithString("body",
			mcp.Description("Introductory text placed above the forwarded content."),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address (string) or JSON array of addresses."),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address (string) or JSON array of addresses."),
		),
		mcp.WithBoolean("include_attachments",
			mcp.Description("Keep the original's attachments on the forward."),
			mcp.DefaultBool(true),
		),
	)
	s.AddTool(forwardMessageTool, tools.ForwardMessageHandler(connector, limiter, audit))

	// Register recent_operations tool
	recentOperationsTool := mcp.NewTool("recent_operations",
		mcp.WithDescription("List the most recent tool operations from the in-memory audit trail: operation name, timestamp, parameter summary, and outcome (success, failure, or cancelled)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return, newest last."),
			mcp.DefaultNumber(10),
			mcp.Min(1),
		),
	)
	s.AddTool(recentOperationsTool, tools.RecentOperationsHandler(audit))

	// Log startup
	slog.Info("server starting",
		"version", version,
		"osascript", cfg.OsascriptPath,
		"script_timeout", cfg.ScriptTimeout().String(),
		"send_rate_per_minute", cfg.SendRatePerMinute,
	)

	// Start the stdio server with cancellable context
	stdioServer := server.NewStdioServer(s)
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
