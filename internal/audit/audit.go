package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PolarWolf314/idresign/internal/configs"

	"github.com/google/uuid"
)

// TimestampFormat is RFC3339 with microseconds, always UTC.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry, one per finished run.
type Entry struct {
	Timestamp string `json:"ts"`
	RunID     string `json:"run_id"`
	Operation string `json:"op"` // resign, decrypt or encrypt.
	Title     string `json:"title"`

	// Identities are stored masked, see MaskIdentity.
	Identity    string `json:"identity,omitempty"` // For decrypt/encrypt.
	OldIdentity string `json:"old,omitempty"`      // For resign.
	NewIdentity string `json:"new,omitempty"`      // For resign.

	Input        string `json:"input"`
	Output       string `json:"output"`
	FilesCount   int    `json:"files_count"`
	SkippedCount int    `json:"skipped_count,omitempty"`
	Error        string `json:"error,omitempty"` // Set when the run failed.
}

// NewEntry returns an entry for op with a fresh run ID.
func NewEntry(op string) Entry {
	return Entry{
		RunID:     uuid.New().String(),
		Operation: op,
	}
}

// maskedDigits is how many trailing characters of an identity stay visible.
const maskedDigits = 4

// MaskIdentity hides all but the last four characters of id. Masking an
// already masked value returns it unchanged.
func MaskIdentity(id string) string {
	if len(id) <= maskedDigits {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-maskedDigits) + id[len(id)-maskedDigits:]
}

// Log appends an entry to the audit log. It is best-effort: a run never
// fails because its audit entry could not be written. Identities are
// masked before the entry is written.
func Log(entry Entry) {
	entry.Identity = MaskIdentity(entry.Identity)
	entry.OldIdentity = MaskIdentity(entry.OldIdentity)
	entry.NewIdentity = MaskIdentity(entry.NewIdentity)
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.RunID == "" {
		entry.RunID = uuid.New().String()
	}

	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.AuditLogPath()
}

// ReadEntries reads all entries from the audit log.
// Returns nil if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines data into entries. Malformed lines, such
// as a partial write, are skipped.
func ParseEntries(data []byte) []Entry {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Time parses the entry timestamp. The zero time is returned for entries
// with an unparsable timestamp.
func (e Entry) Time() time.Time {
	t, err := time.Parse(TimestampFormat, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
