package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/idresign/internal/audit"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/saves"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Modes filters entries by operation (comma-separated, e.g. "resign,decrypt").
	Modes string

	// Title filters entries by title code.
	Title string

	// FailedOnly keeps only runs that ended in an error.
	FailedOnly bool

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log.
//
// Returns ErrNoAuditLog if no run has been recorded.
// Returns an error for an unknown mode or a malformed --since date.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	data, err := os.ReadFile(audit.LogPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, kerrors.ErrNoAuditLog
	}
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	entries := audit.ParseEntries(data)
	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	filtered := entries

	if opts.Modes != "" {
		var modes []string
		for _, m := range strings.Split(opts.Modes, ",") {
			mode, err := saves.ParseMode(strings.TrimSpace(m))
			if err != nil {
				return nil, fmt.Errorf("--mode: %w", err)
			}
			modes = append(modes, mode.String())
		}
		filtered = filter(filtered, func(e audit.Entry) bool {
			for _, m := range modes {
				if e.Operation == m {
					return true
				}
			}
			return false
		})
	}

	if opts.Title != "" {
		filtered = filter(filtered, func(e audit.Entry) bool {
			return strings.EqualFold(e.Title, opts.Title)
		})
	}

	if opts.FailedOnly {
		filtered = filter(filtered, func(e audit.Entry) bool {
			return e.Error != ""
		})
	}

	if opts.Since != "" {
		since, err := time.ParseInLocation("2006-01-02", opts.Since, time.Local)
		if err != nil {
			return nil, fmt.Errorf("--since date format invalid, use YYYY-MM-DD: %w", err)
		}
		filtered = filter(filtered, func(e audit.Entry) bool {
			return !e.Time().Before(since)
		})
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// Reversed: the first N are the most recent.
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func filter(entries []audit.Entry, keep func(audit.Entry) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// FormatDateTime formats an entry timestamp as local YYYY-MM-DD HH:MM:SS.
func FormatDateTime(e audit.Entry) string {
	t := e.Time()
	if t.IsZero() {
		if len(e.Timestamp) >= 19 {
			return e.Timestamp[:19]
		}
		return e.Timestamp
	}
	return t.Local().Format(SummaryTimeFormat)
}

// FormatIdentities returns "A -> B" for a resign and the identity otherwise.
// Identities are shown as stored, which is masked.
func FormatIdentities(e audit.Entry) string {
	if e.Operation == saves.ModeResign.String() {
		return e.OldIdentity + " -> " + e.NewIdentity
	}
	return e.Identity
}

// FormatDetails summarizes the files and outcome of an entry.
func FormatDetails(e audit.Entry) string {
	details := fmt.Sprintf("%d files", e.FilesCount)
	if e.SkippedCount > 0 {
		details += fmt.Sprintf(", %d skipped", e.SkippedCount)
	}
	if e.Error != "" {
		details += ", failed: " + e.Error
	}
	return details
}
