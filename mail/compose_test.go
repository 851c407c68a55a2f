package mail

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgabriel/mcp-apple-mail/security"
)

func TestSendEmail(t *testing.T) {
	t.Run("sends to all recipient lists", func(t *testing.T) {
		runner := &fakeRunner{Output: "sent"}
		c := newTestConnector(runner)

		ok, err := c.SendEmail(context.Background(), "Quarterly report", "Attached below.",
			[]string{"alice@example.com"}, []string{"bob@example.com"}, []string{"carol@example.com"})
		if err != nil {
			t.Fatalf("SendEmail() error = %v", err)
		}
		if !ok {
			t.Error("ok = false, want true")
		}

		script := runner.LastScript()
		for _, wantPart := range []string{
			`subject:"Quarterly report"`,
			`content:"Attached below."`,
			"visible:false",
			`repeat with addr in {"alice@example.com"}`,
			"make new to recipient with properties {address:addr}",
			`repeat with addr in {"bob@example.com"}`,
			"make new cc recipient with properties {address:addr}",
			`repeat with addr in {"carol@example.com"}`,
			"make new bcc recipient with properties {address:addr}",
			"send",
		} {
			if !strings.Contains(script, wantPart) {
				t.Errorf("script missing %q", wantPart)
			}
		}
	})

	t.Run("subject and body are escaped", func(t *testing.T) {
		runner := &fakeRunner{Output: "sent"}
		c := newTestConnector(runner)

		if _, err := c.SendEmail(context.Background(), `Re: "urgent"`, "say \"hi\"",
			[]string{"alice@example.com"}, nil, nil); err != nil {
			t.Fatalf("SendEmail() error = %v", err)
		}
		if !strings.Contains(runner.LastScript(), `subject:"Re: \"urgent\""`) {
			t.Error("subject quotes were not escaped")
		}
	})

	t.Run("no recipients rejected", func(t *testing.T) {
		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.SendEmail(context.Background(), "Subject", "Body", nil, []string{"cc@example.com"}, nil)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})

	t.Run("unexpected sentinel means not sent", func(t *testing.T) {
		runner := &fakeRunner{Output: "maybe"}
		c := newTestConnector(runner)

		ok, err := c.SendEmail(context.Background(), "Subject", "Body", []string{"alice@example.com"}, nil, nil)
		if err != nil {
			t.Fatalf("SendEmail() error = %v", err)
		}
		if ok {
			t.Error("ok = true, want false")
		}
	})
}

func TestSendEmailWithAttachments(t *testing.T) {
	t.Run("attaches files as POSIX paths", func(t *testing.T) {
		dir := t.TempDir()
		doc := writeComposeFile(t, dir, "report.pdf")

		runner := &fakeRunner{Output: "sent"}
		c := newTestConnector(runner)

		ok, err := c.SendEmailWithAttachments(context.Background(), "Report", "Attached.",
			[]string{"alice@example.com"}, nil, nil, []string{doc}, false)
		if err != nil {
			t.Fatalf("SendEmailWithAttachments() error = %v", err)
		}
		if !ok {
			t.Error("ok = false, want true")
		}

		script := runner.LastScript()
		if !strings.Contains(script, "POSIX file ") {
			t.Error("script missing POSIX file reference")
		}
		if !strings.Contains(script, "report.pdf") {
			t.Error("script missing the attachment path")
		}
		if !strings.Contains(script, "make new attachment with properties {file name:filePath} at after last paragraph") {
			t.Error("script missing the attachment clause")
		}
	})

	t.Run("policy rejects executables", func(t *testing.T) {
		dir := t.TempDir()
		exe := writeComposeFile(t, dir, "setup.exe")

		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.SendEmailWithAttachments(context.Background(), "Installer", "Run me.",
			[]string{"alice@example.com"}, nil, nil, []string{exe}, false)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})

	t.Run("executables allowed on request", func(t *testing.T) {
		dir := t.TempDir()
		exe := writeComposeFile(t, dir, "setup.exe")

		runner := &fakeRunner{Output: "sent"}
		c := newTestConnector(runner)

		ok, err := c.SendEmailWithAttachments(context.Background(), "Installer", "Run me.",
			[]string{"alice@example.com"}, nil, nil, []string{exe}, true)
		if err != nil {
			t.Fatalf("SendEmailWithAttachments() error = %v", err)
		}
		if !ok {
			t.Error("ok = false, want true")
		}
	})

	t.Run("missing attachment rejected", func(t *testing.T) {
		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.SendEmailWithAttachments(context.Background(), "Report", "Attached.",
			[]string{"alice@example.com"}, nil, nil, []string{"/nonexistent/report.pdf"}, false)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})

	t.Run("oversize attachment rejected", func(t *testing.T) {
		dir := t.TempDir()
		big := filepath.Join(dir, "dump.bin")
		if err := os.WriteFile(big, make([]byte, 4096), 0o644); err != nil {
			t.Fatal(err)
		}

		runner := &fakeRunner{}
		c := NewConnector(runner, Options{AttachmentPolicy: security.AttachmentPolicy{MaxBytes: 1024}})

		_, err := c.SendEmailWithAttachments(context.Background(), "Dump", "Big one.",
			[]string{"alice@example.com"}, nil, nil, []string{big}, false)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
	})
}

func TestReplyToMessage(t *testing.T) {
	t.Run("reply to sender", func(t *testing.T) {
		runner := &fakeRunner{Output: "90001"}
		c := newTestConnector(runner)

		id, err := c.ReplyToMessage(context.Background(), "12345", "Sounds good.", false, true)
		if err != nil {
			t.Fatalf("ReplyToMessage() error = %v", err)
		}
		if id != "90001" {
			t.Errorf("id = %q, want %q", id, "90001")
		}

		script := runner.LastScript()
		if !strings.Contains(script, "set replyMsg to reply origMsg") {
			t.Error("script does not reply to the original")
		}
		if strings.Contains(script, "reply to all") {
			t.Error("plain reply should not address all recipients")
		}
		if !strings.Contains(script, `set content of replyMsg to "Sounds good."`) {
			t.Error("script does not set the reply body")
		}
	})

	t.Run("reply to all", func(t *testing.T) {
		runner := &fakeRunner{Output: "90002"}
		c := newTestConnector(runner)

		if _, err := c.ReplyToMessage(context.Background(), "12345", "Thanks all.", true, true); err != nil {
			t.Fatalf("ReplyToMessage() error = %v", err)
		}
		if !strings.Contains(runner.LastScript(), "set replyMsg to reply to all origMsg") {
			t.Error("script does not reply to all")
		}
	})

	t.Run("invalid id rejected before bridge", func(t *testing.T) {
		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.ReplyToMessage(context.Background(), "junk id", "Body", false, true)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})
}

func TestForwardMessage(t *testing.T) {
	t.Run("forwards with prologue", func(t *testing.T) {
		runner := &fakeRunner{Output: "90010"}
		c := newTestConnector(runner)

		id, err := c.ForwardMessage(context.Background(), "12345", []string{"dave@example.com"},
			"FYI, see below.", []string{"eve@example.com"}, nil, true)
		if err != nil {
			t.Fatalf("ForwardMessage() error = %v", err)
		}
		if id != "90010" {
			t.Errorf("id = %q, want %q", id, "90010")
		}

		script := runner.LastScript()
		for _, wantPart := range []string{
			"set fwdMsg to forward origMsg",
			`"FYI, see below." & return & return & origContent`,
			`repeat with recipientAddr in {"dave@example.com"}`,
			"make new to recipient at end of to recipients of fwdMsg",
			`repeat with recipientAddr in {"eve@example.com"}`,
			"make new cc recipient at end of cc recipients of fwdMsg",
		} {
			if !strings.Contains(script, wantPart) {
				t.Errorf("script missing %q", wantPart)
			}
		}
	})

	t.Run("no recipients rejected", func(t *testing.T) {
		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.ForwardMessage(context.Background(), "12345", nil, "", nil, nil, true)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})

	t.Run("invalid id rejected before bridge", func(t *testing.T) {
		runner := &fakeRunner{}
		c := newTestConnector(runner)

		_, err := c.ForwardMessage(context.Background(), "12345; quit", []string{"dave@example.com"}, "", nil, nil, true)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want ErrValidation", err)
		}
		if runner.RunCalls != 0 {
			t.Errorf("RunCalls = %d, want 0", runner.RunCalls)
		}
	})
}

func writeComposeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
