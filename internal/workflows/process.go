package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/idresign/internal/audit"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/saves"
	"github.com/PolarWolf314/idresign/internal/utils"
)

// Result contains the outcome of a completed batch.
type Result struct {
	// Mode is the transform that was applied.
	Mode saves.Mode

	// InputRoot and OutputRoot are the roots the batch ran between.
	InputRoot  string
	OutputRoot string

	// Written lists the output files, in processing order.
	Written []string

	// Skipped lists files under InputRoot with unrecognized extensions.
	Skipped []string

	// SummaryPath is the INFO.txt that was written.
	SummaryPath string

	// Message is the user-facing success line.
	Message string
}

// Process runs a batch synchronously.
//
// Files are processed in collection order and the batch stops at the first
// failure. Outputs already written are left in place. Every run that gets
// past validation is recorded in the audit log, whether it succeeds or not.
//
// Returns an identity or ErrUnknownTitle error if the job is invalid.
// Returns ErrPathNotFound or ErrNotADirectory for a bad input root.
// Returns ErrNoSupportedFiles if nothing under the input can be processed.
// Returns a *kerrors.FileError wrapping ErrIOFailure, ErrMalformedInput or
// ErrAuthenticationFailed when a file fails.
// Returns ErrSummaryWriteFailure if INFO.txt cannot be written.
func Process(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	result, err := process(ctx, job)
	recordRun(job, result, err)
	return result, err
}

func process(_ context.Context, job Job) (*Result, error) {
	info, err := os.Stat(job.InputRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrPathNotFound, job.InputRoot)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotADirectory, job.InputRoot)
	}

	if insideDir(job.InputRoot, job.OutputRoot) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrOutputOverlapsInput, job.OutputRoot)
	}

	if err := os.MkdirAll(job.OutputRoot, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %v", kerrors.ErrIOFailure, err)
	}

	collected, err := saves.Collect(job.InputRoot, job.Include)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mode:       job.Mode,
		InputRoot:  job.InputRoot,
		OutputRoot: job.OutputRoot,
		Skipped:    collected.Skipped,
	}
	report := newReport(job, len(collected.Skipped))
	ids := job.Identities()
	total := len(collected.Files)

	for i, path := range collected.Files {
		name := filepath.Base(path)
		job.progress(i, total, name)
		report.begin(name)

		data, err := os.ReadFile(path)
		if err != nil {
			return result, &kerrors.FileError{Op: "read", File: name, Err: fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)}
		}

		out, err := saves.Apply(job.Mode, data, name, job.TitleCode, ids)
		if err != nil {
			return result, &kerrors.FileError{Op: job.Mode.String(), File: name, Err: err}
		}

		dst, err := utils.MirrorPath(collected.Root, job.OutputRoot, path)
		if err != nil {
			return result, &kerrors.FileError{Op: "write", File: name, Err: fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)}
		}
		if err := utils.WriteFileAll(dst, out); err != nil {
			return result, &kerrors.FileError{Op: "write", File: name, Err: fmt.Errorf("%w: %v", kerrors.ErrIOFailure, err)}
		}

		result.Written = append(result.Written, dst)
		report.done()
	}

	summaryPath, err := report.write(job.OutputRoot, job.now())
	if err != nil {
		return result, fmt.Errorf("%w: %v", kerrors.ErrSummaryWriteFailure, err)
	}
	result.SummaryPath = summaryPath
	result.Message = fmt.Sprintf("Successfully %s %d files", pastTense(job.Mode), len(result.Written))

	return result, nil
}

// insideDir reports whether path is root or lies somewhere under it.
func insideDir(root, path string) bool {
	absRoot, errRoot := filepath.Abs(root)
	absPath, errPath := filepath.Abs(path)
	if errRoot != nil || errPath != nil {
		absRoot, absPath = filepath.Clean(root), filepath.Clean(path)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// recordRun appends the audit entry for a finished run.
func recordRun(job Job, result *Result, runErr error) {
	entry := audit.NewEntry(job.Mode.String())
	entry.Title = job.TitleCode
	entry.Input = job.InputRoot
	entry.Output = job.OutputRoot
	if job.Mode == saves.ModeResign {
		entry.OldIdentity = audit.MaskIdentity(job.OldIdentity)
		entry.NewIdentity = audit.MaskIdentity(job.NewIdentity)
	} else {
		entry.Identity = audit.MaskIdentity(job.Identity)
	}
	if result != nil {
		entry.FilesCount = len(result.Written)
		entry.SkippedCount = len(result.Skipped)
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	audit.Log(entry)
}
