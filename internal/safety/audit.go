package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nvqpham/tally/internal/model"
)

// AuditEntry is one durable record of an orchestrated request. Entries
// exist for audit, not for replay.
type AuditEntry struct {
	Timestamp string         `json:"timestamp"`
	UserText  string         `json:"user_text"`
	Actions   []model.Action `json:"actions"`
}

// AuditLog appends one JSON line per request to a log file. Writes happen
// before execution so a crash mid-batch still leaves a record of intent.
type AuditLog struct {
	path string
	now  func() time.Time
}

// NewAuditLog creates an audit log writing to the given file path.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path, now: time.Now}
}

// Append durably records a request. Each record is a single JSON line.
func (l *AuditLog) Append(userText string, actions []model.Action) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	entry := AuditEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		UserText:  userText,
		Actions:   actions,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return f.Sync()
}

// Recent returns up to max of the most recent audit entries, oldest
// first. A missing log file yields no entries.
func (l *AuditLog) Recent(max int) ([]AuditEntry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []AuditEntry
	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}
		var entry AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			// Tolerate torn writes at the tail
			continue
		}
		entries = append(entries, entry)
	}

	if max > 0 && len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	return entries, nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
