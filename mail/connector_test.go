package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rgabriel/mcp-apple-mail/applescript"
)

// --- fakeRunner ---

type fakeRunner struct {
	// Configurable return values
	Output string
	Err    error

	// Multi-call support: each Run call pops from this slice. When empty,
	// falls back to Output/Err.
	CallResults []struct {
		Output string
		Err    error
	}

	// Call tracking
	RunCalls int

	// Captured arguments
	Scripts []string
}

func (f *fakeRunner) Run(_ context.Context, script string) (string, error) {
	f.RunCalls++
	f.Scripts = append(f.Scripts, script)
	if len(f.CallResults) > 0 {
		result := f.CallResults[0]
		f.CallResults = f.CallResults[1:]
		return result.Output, result.Err
	}
	return f.Output, f.Err
}

func (f *fakeRunner) LastScript() string {
	if len(f.Scripts) == 0 {
		return ""
	}
	return f.Scripts[len(f.Scripts)-1]
}

func newTestConnector(runner *fakeRunner) *Connector {
	return NewConnector(runner, Options{})
}

func TestListAccounts(t *testing.T) {
	t.Run("parses account rows", func(t *testing.T) {
		runner := &fakeRunner{Output: "iCloud|alice@icloud.com,alice@me.com\nWork|alice@work.example"}
		c := newTestConnector(runner)

		got, err := c.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts() error = %v", err)
		}

		want := []Account{
			{Name: "iCloud", EmailAddresses: []string{"alice@icloud.com", "alice@me.com"}},
			{Name: "Work", EmailAddresses: []string{"alice@work.example"}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("accounts mismatch (-want +got):\n%s", diff)
		}

		if !strings.Contains(runner.LastScript(), "repeat with acc in accounts") {
			t.Error("script does not iterate accounts")
		}
		if !strings.Contains(runner.LastScript(), "email addresses of acc") {
			t.Error("script does not collect email addresses")
		}
	})

	t.Run("no accounts", func(t *testing.T) {
		runner := &fakeRunner{Output: ""}
		c := newTestConnector(runner)

		got, err := c.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d accounts, want 0", len(got))
		}
	})

	t.Run("runner error propagates", func(t *testing.T) {
		runner := &fakeRunner{Err: errors.New("osascript exploded")}
		c := newTestConnector(runner)

		if _, err := c.ListAccounts(context.Background()); err == nil {
			t.Fatal("ListAccounts() error = nil, want error")
		}
	})
}

func TestListMailboxes(t *testing.T) {
	t.Run("parses mailbox rows", func(t *testing.T) {
		runner := &fakeRunner{Output: "INBOX|3\nArchive|0\nReceipts/2026|12"}
		c := newTestConnector(runner)

		got, err := c.ListMailboxes(context.Background(), "iCloud")
		if err != nil {
			t.Fatalf("ListMailboxes() error = %v", err)
		}

		want := []Mailbox{
			{Name: "INBOX", UnreadCount: 3},
			{Name: "Archive", UnreadCount: 0},
			{Name: "Receipts/2026", UnreadCount: 12},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mailboxes mismatch (-want +got):\n%s", diff)
		}

		if !strings.Contains(runner.LastScript(), `account "iCloud"`) {
			t.Error("script does not target the requested account")
		}
		if !strings.Contains(runner.LastScript(), "unread count of mb") {
			t.Error("script does not collect unread counts")
		}
	})

	t.Run("account name is escaped", func(t *testing.T) {
		runner := &fakeRunner{Output: ""}
		c := newTestConnector(runner)

		if _, err := c.ListMailboxes(context.Background(), `Eve" & (do shell script "true") & "`); err != nil {
			t.Fatalf("ListMailboxes() error = %v", err)
		}
		if strings.Contains(runner.LastScript(), `Eve" &`) {
			t.Error("account name was interpolated unescaped")
		}
		if !strings.Contains(runner.LastScript(), `Eve\"`) {
			t.Error("quotes in account name were not escaped")
		}
	})

	t.Run("missing account propagates", func(t *testing.T) {
		runner := &fakeRunner{Err: applescript.ErrAccountNotFound}
		c := newTestConnector(runner)

		_, err := c.ListMailboxes(context.Background(), "Nope")
		if !errors.Is(err, applescript.ErrAccountNotFound) {
			t.Fatalf("error = %v, want ErrAccountNotFound", err)
		}
	})
}

func TestGetMessage(t *testing.T) {
	const detailRow = "12345|Lunch plans|Bob <bob@example.com>|Monday, January 5, 2026 at 9:14:02 AM|true|false|Are we still on for noon?"

	t.Run("with content", func(t *testing.T) {
		runner := &fakeRunner{Output: detailRow}
		c := newTestConnector(runner)

		got, err := c.GetMessage(context.Background(), "12345", true)
		if err != nil {
			t.Fatalf("GetMessage() error = %v", err)
		}

		want := MessageDetail{
			Message: Message{
				ID:           "12345",
				Subject:      "Lunch plans",
				Sender:       "Bob <bob@example.com>",
				DateReceived: "Monday, January 5, 2026 at 9:14:02 AM",
				ReadStatus:   true,
			},
			Flagged: false,
			Content: "Are we still on for noon?",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("detail mismatch (-want +got):\n%s", diff)
		}

		script := runner.LastScript()
		if !strings.Contains(script, "whose id is 12345") {
			t.Error("script does not search for the message ID")
		}
		if !strings.Contains(script, "set msgContent to content of msg") {
			t.Error("script does not fetch content")
		}
	})

	t.Run("without content", func(t *testing.T) {
		runner := &fakeRunner{Output: "12345|Lunch plans|Bob <bob@example.com>|Monday|false|true|"}
		c := newTestConnector(runner)

		got, err := c.GetMessage(context.Background(), "12345", false)
		if err != nil {
			t.Fatalf("GetMessage() error = %v", err)
		}
		if got.Content != "" {
			t.Errorf("Content = %q, want empty", got.Content)
		}
		if !got.Flagged {
			t.Error("Flagged = false, want true")
		}
		if !strings.Contains(runner.LastScript(), `set msgContent to ""`) {
			t.Error("script should stub out content retrieval")
		}
		if strings.Contains(runner.LastScript(), "set msgContent to content of msg") {
			t.Error("script fetches content despite includeContent=false")
		}
	})

	t.Run("invalid id rejected before bridge", func(t *testing.T) {
		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.GetMessage(context.Background(), `123" & quit`, true)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})

	t.Run("not found propagates", func(t *testing.T) {
		runner := &fakeRunner{Err: applescript.ErrMessageNotFound}
		c := newTestConnector(runner)

		_, err := c.GetMessage(context.Background(), "99999", true)
		if !errors.Is(err, applescript.ErrMessageNotFound) {
			t.Fatalf("error = %v, want ErrMessageNotFound", err)
		}
	})

	t.Run("unparseable record reads as not found", func(t *testing.T) {
		runner := &fakeRunner{Output: "garbage with no fields"}
		c := newTestConnector(runner)

		_, err := c.GetMessage(context.Background(), "12345", true)
		if !errors.Is(err, applescript.ErrMessageNotFound) {
			t.Fatalf("error = %v, want ErrMessageNotFound", err)
		}
	})
}

func TestValidateMessageID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"plain decimal", "12345", false},
		{"single digit", "7", false},
		{"empty", "", true},
		{"alphabetic", "abc", true},
		{"embedded space", "12 34", true},
		{"negative", "-5", true},
		{"script fragment", `1" & quit & "`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMessageID(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("validateMessageID(%q) error = %v, want ErrValidation", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Errorf("validateMessageID(%q) error = %v", tt.id, err)
			}
		})
	}
}
