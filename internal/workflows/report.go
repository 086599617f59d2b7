package workflows

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PolarWolf314/idresign/internal/saves"
)

// SummaryTimeFormat formats the "Processing completed at" line.
const SummaryTimeFormat = "2006-01-02 15:04:05"

// Report accumulates the per-file log of a run and renders INFO.txt.
type Report struct {
	job     Job
	lines   []string
	files   int
	skipped int
}

func newReport(job Job, skipped int) *Report {
	return &Report{job: job, skipped: skipped}
}

// begin records that name is about to be processed.
func (r *Report) begin(name string) {
	r.lines = append(r.lines, fmt.Sprintf("%s %s...", progressive(r.job.Mode), name))
}

// done records that the last begun file was written.
func (r *Report) done() {
	r.files++
}

// Summary returns the one-line description of the run.
func (r *Report) Summary() string {
	switch r.job.Mode {
	case saves.ModeResign:
		return fmt.Sprintf("Resigned %d files from SteamID %s to SteamID %s", r.files, r.job.OldIdentity, r.job.NewIdentity)
	case saves.ModeDecrypt:
		return fmt.Sprintf("Decrypted %d files from SteamID %s", r.files, r.job.Identity)
	default:
		return fmt.Sprintf("Encrypted %d files for SteamID %s", r.files, r.job.Identity)
	}
}

// Render returns the INFO.txt contents for a run that finished at t.
func (r *Report) Render(t time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processing completed at: %s\n\n", t.Format(SummaryTimeFormat))
	b.WriteString(r.Summary())
	b.WriteString("\n\n")
	for _, line := range r.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if r.skipped > 0 {
		fmt.Fprintf(&b, "\nSkipped %d unsupported files\n", r.skipped)
	}
	return b.String()
}

// write saves the rendered report to <dir>/INFO.txt and returns its path.
func (r *Report) write(dir string, t time.Time) (string, error) {
	path := filepath.Join(dir, SummaryFileName)
	if err := os.WriteFile(path, []byte(r.Render(t)), 0644); err != nil {
		return "", err
	}
	return path, nil
}
