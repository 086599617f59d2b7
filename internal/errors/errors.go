package errors

import (
	"errors"
	"fmt"
)

// Validation errors are returned before any file I/O happens.
var (
	// ErrInvalidIdentity indicates the identity is not a valid Steam64 ID.
	// Every specific identity error below wraps it.
	ErrInvalidIdentity = errors.New("invalid SteamID")

	// ErrIdentityEmpty indicates no identity was given.
	ErrIdentityEmpty = fmt.Errorf("%w: SteamID cannot be empty", ErrInvalidIdentity)

	// ErrIdentityLength indicates the identity is not exactly 17 characters.
	ErrIdentityLength = fmt.Errorf("%w: SteamID must be exactly 17 digits long", ErrInvalidIdentity)

	// ErrIdentityNotNumeric indicates the identity contains non-digit characters.
	ErrIdentityNotNumeric = fmt.Errorf("%w: SteamID must contain only numbers", ErrInvalidIdentity)

	// ErrIdentityPrefix indicates the identity is outside the Steam64 individual namespace.
	ErrIdentityPrefix = fmt.Errorf("%w: SteamID must start with 7656119 (Steam64 format)", ErrInvalidIdentity)

	// ErrIdentityTooSmall indicates the identity is below the first Steam64 account.
	ErrIdentityTooSmall = fmt.Errorf("%w: SteamID appears to be invalid (too small for Steam64 format)", ErrInvalidIdentity)

	// ErrIdentityTooLarge indicates the identity is above the Steam64 range.
	ErrIdentityTooLarge = fmt.Errorf("%w: SteamID appears to be invalid (too large for Steam64 format)", ErrInvalidIdentity)

	// ErrIdenticalIdentities indicates a resign was requested to the same identity.
	ErrIdenticalIdentities = errors.New("old and new SteamIDs cannot be the same")

	// ErrUnknownTitle indicates the title code is not in the registered list.
	ErrUnknownTitle = errors.New("unknown title code")
)

// Path errors indicate problems with the input or output locations.
var (
	// ErrPathNotFound indicates the input path does not exist.
	ErrPathNotFound = errors.New("input path does not exist")

	// ErrNotADirectory indicates a batch was started on a single file.
	ErrNotADirectory = errors.New("input path must be a directory, not a file")

	// ErrNoSupportedFiles indicates the input contains no recognized save files.
	ErrNoSupportedFiles = errors.New("no supported save files (.bin, .dat, .details, .details-backup, .dat-backup) found")

	// ErrOutputOverlapsInput indicates the output root is the input root or
	// lies inside it, which would overwrite the source saves.
	ErrOutputOverlapsInput = errors.New("output directory must be outside the input directory")

	// ErrIOFailure indicates a read or write failed during a batch.
	ErrIOFailure = errors.New("file I/O failed")

	// ErrSummaryWriteFailure indicates INFO.txt could not be written.
	ErrSummaryWriteFailure = errors.New("failed to write run summary")
)

// Cryptographic errors indicate failures while transforming a save file.
var (
	// ErrMalformedInput indicates the data is too short to hold a nonce and tag.
	ErrMalformedInput = errors.New("input data too short")

	// ErrAuthenticationFailed indicates the AEAD tag did not verify.
	// This is deliberately not broken down further.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Runner errors indicate misuse of the batch runner state machine.
var (
	// ErrConfirmationRequired indicates an encrypt run is waiting for the caller to confirm.
	ErrConfirmationRequired = errors.New("input looks already encrypted, confirmation required")

	// ErrInvalidState indicates a runner operation was called in the wrong state.
	ErrInvalidState = errors.New("operation not valid in current runner state")
)

// History errors relate to the audit log.
var (
	// ErrNoAuditLog indicates no run has been recorded yet.
	ErrNoAuditLog = errors.New("no audit log found")
)

// FileError records which file a batch failed on and the operation in progress.
type FileError struct {
	Op   string // "read", "write", "resign", "decrypt", "encrypt"
	File string // base name of the file
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
