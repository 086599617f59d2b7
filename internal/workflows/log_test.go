package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PolarWolf314/idresign/internal/audit"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
)

// seedAuditLog writes one entry per op, one minute apart, oldest first.
func seedAuditLog(t *testing.T, ops ...string) {
	t.Helper()
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, op := range ops {
		entry := audit.NewEntry(op)
		entry.Timestamp = base.Add(time.Duration(i) * time.Minute).Format(audit.TimestampFormat)
		entry.Title = testTitle
		if i%2 == 1 {
			entry.Title = "MANCUBUS"
		}
		if op == "decrypt" {
			entry.Error = "authentication failed"
		}
		audit.Log(entry)
	}
}

func TestLogNoAuditLog(t *testing.T) {
	useTempSettings(t)

	_, err := Log(context.Background(), LogOptions{})
	if !errors.Is(err, kerrors.ErrNoAuditLog) {
		t.Fatalf("Expected ErrNoAuditLog, got %v", err)
	}
}

func TestLogAllEntries(t *testing.T) {
	useTempSettings(t)
	seedAuditLog(t, "resign", "decrypt", "encrypt")

	result, err := Log(context.Background(), LogOptions{})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if result.TotalEntriesBeforeFilter != 3 || len(result.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d of %d", len(result.Entries), result.TotalEntriesBeforeFilter)
	}
	if result.Entries[0].Operation != "resign" {
		t.Errorf("Expected oldest first, got %s", result.Entries[0].Operation)
	}
}

func TestLogFilters(t *testing.T) {
	useTempSettings(t)
	seedAuditLog(t, "resign", "decrypt", "encrypt", "resign")

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{"mode", LogOptions{Modes: "resign"}, []string{"resign", "resign"}},
		{"modes", LogOptions{Modes: "decrypt, encrypt"}, []string{"decrypt", "encrypt"}},
		{"title", LogOptions{Title: "mancubus"}, []string{"decrypt", "resign"}},
		{"failed", LogOptions{FailedOnly: true}, []string{"decrypt"}},
		{"limit keeps most recent", LogOptions{Limit: 2}, []string{"encrypt", "resign"}},
		{"reverse", LogOptions{Reverse: true}, []string{"resign", "encrypt", "decrypt", "resign"}},
		{"reverse with limit", LogOptions{Reverse: true, Limit: 1}, []string{"resign"}},
		{"since", LogOptions{Since: "2025-01-12"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Log(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if len(result.Entries) != len(tt.want) {
				t.Fatalf("Expected %d entries, got %d", len(tt.want), len(result.Entries))
			}
			for i, e := range result.Entries {
				if e.Operation != tt.want[i] {
					t.Errorf("Entry %d: expected %s, got %s", i, tt.want[i], e.Operation)
				}
			}
		})
	}
}

func TestLogInvalidOptions(t *testing.T) {
	useTempSettings(t)
	seedAuditLog(t, "resign")

	if _, err := Log(context.Background(), LogOptions{Modes: "shred"}); err == nil {
		t.Error("Expected error for unknown mode")
	}
	if _, err := Log(context.Background(), LogOptions{Since: "10/01/2025"}); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestFormatHelpers(t *testing.T) {
	maskedOld, maskedNew := audit.MaskIdentity(oldID), audit.MaskIdentity(newID)
	resign := audit.Entry{Operation: "resign", OldIdentity: maskedOld, NewIdentity: maskedNew, FilesCount: 3, SkippedCount: 1}
	if got := FormatIdentities(resign); got != maskedOld+" -> "+maskedNew {
		t.Errorf("FormatIdentities = %q", got)
	}
	if got := FormatDetails(resign); got != "3 files, 1 skipped" {
		t.Errorf("FormatDetails = %q", got)
	}

	failed := audit.Entry{Operation: "decrypt", Identity: maskedOld, Error: "authentication failed"}
	if got := FormatIdentities(failed); got != maskedOld {
		t.Errorf("FormatIdentities = %q", got)
	}
	if got := FormatDetails(failed); got != "0 files, failed: authentication failed" {
		t.Errorf("FormatDetails = %q", got)
	}

	ts := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	entry := audit.Entry{Timestamp: ts.Format(audit.TimestampFormat)}
	if got := FormatDateTime(entry); got != ts.Local().Format(SummaryTimeFormat) {
		t.Errorf("FormatDateTime = %q", got)
	}
	if got := FormatDateTime(audit.Entry{Timestamp: "garbage"}); got != "garbage" {
		t.Errorf("FormatDateTime of bad timestamp = %q", got)
	}
}
