// Package workflows provides the batch orchestration behind idresign's
// save commands.
//
// A Job names a transform (resign, decrypt or encrypt), an input directory,
// an output directory, a title and the identities involved. Process runs a
// job synchronously: it collects the recognized save files under the input,
// transforms each one in order, mirrors the results under the output root
// and writes an INFO.txt summary. The first failure ends the batch; outputs
// written before it stay on disk.
//
// Runner wraps Process in a small state machine for callers that want the
// work off their own goroutine:
//
//	Idle -> (AwaitingConfirmation) -> Running -> Completed | Failed
//
// Start validates the job before any I/O. An encrypt job whose first file
// already looks like ciphertext stops at AwaitingConfirmation until Confirm
// or Cancel is called. The worker posts a single Outcome to a one-slot
// mailbox which Poll reads without blocking:
//
//	r := workflows.NewRunner(job, workflows.WithProgress(update))
//	if _, err := r.Start(ctx); err != nil {
//	    return err
//	}
//	outcome, err := r.Wait(ctx)
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Per-file
// failures are wrapped in *errors.FileError, so both the file name and the
// cause are available:
//
//	var fileErr *kerrors.FileError
//	if errors.As(err, &fileErr) && errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // wrong identity or title for fileErr.File
//	}
//
// # Audit
//
// Every run that passes validation is appended to the audit log, whether it
// completes or fails. Log reads the history back with filtering.
package workflows
