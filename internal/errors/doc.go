// Package errors provides typed error values for idresign.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Validation errors: rejected before any I/O (ErrInvalidIdentity and its
//     reasons, ErrIdenticalIdentities, ErrUnknownTitle)
//   - Path errors: input/output problems (ErrPathNotFound, ErrNotADirectory,
//     ErrNoSupportedFiles, ErrOutputOverlapsInput, ErrIOFailure,
//     ErrSummaryWriteFailure)
//   - Crypto errors: ErrMalformedInput, ErrAuthenticationFailed
//   - Runner errors: ErrConfirmationRequired, ErrInvalidState
//   - History errors: ErrNoAuditLog
//
// Each identity reason wraps ErrInvalidIdentity, so both checks work:
//
//	errors.Is(err, kerrors.ErrIdentityPrefix)   // the precise reason
//	errors.Is(err, kerrors.ErrInvalidIdentity)  // any identity problem
//
// # Per-file errors
//
// Errors raised while processing a specific save file are wrapped in a
// *FileError so the CLI can name the file:
//
//	var fe *kerrors.FileError
//	if errors.As(err, &fe) && errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // "Failed to decrypt slot0.bin: check the SteamID and title"
//	}
package errors
