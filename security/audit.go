package security

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultAuditLogSize bounds how many operation entries are retained.
const DefaultAuditLogSize = 1000

// Outcome values recorded per operation.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
)

// Entry is one recorded operation.
type Entry struct {
	Timestamp  time.Time              `json:"timestamp"`
	Operation  string                 `json:"operation"`
	Parameters map[string]interface{} `json:"parameters"`
	Result     string                 `json:"result"`
}

// OperationLog is a bounded append-only audit trail of tool operations.
// Every tool call records exactly one entry. Safe for concurrent use.
type OperationLog struct {
	mu      sync.Mutex
	entries []Entry
	size    int
}

// NewOperationLog returns a log retaining at most size entries; older
// entries are evicted as new ones arrive. Non-positive size uses
// DefaultAuditLogSize.
func NewOperationLog(size int) *OperationLog {
	if size <= 0 {
		size = DefaultAuditLogSize
	}
	return &OperationLog{size: size}
}

// Record appends one entry with the current time.
func (l *OperationLog) Record(operation string, parameters map[string]interface{}, result string) {
	l.mu.Lock()
	l.entries = append(l.entries, Entry{
		Timestamp:  time.Now(),
		Operation:  operation,
		Parameters: parameters,
		Result:     result,
	})
	if len(l.entries) > l.size {
		l.entries = l.entries[len(l.entries)-l.size:]
	}
	l.mu.Unlock()

	slog.Info("operation logged", "operation", operation, "result", result)
}

// Recent returns the n most recent entries, oldest first. n <= 0 returns
// everything retained. The result is a copy.
func (l *OperationLog) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := 0
	if n > 0 && n < len(l.entries) {
		start = len(l.entries) - n
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Len reports how many entries are currently retained.
func (l *OperationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
