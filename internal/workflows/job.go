package workflows

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PolarWolf314/idresign/internal/identity"
	"github.com/PolarWolf314/idresign/internal/saves"
	"github.com/PolarWolf314/idresign/internal/titles"
)

// SummaryFileName is written at the top of every output root.
const SummaryFileName = "INFO.txt"

// ProgressFunc is called before each file is processed. index is zero-based.
type ProgressFunc func(index, total int, name string)

// Job describes one batch run.
type Job struct {
	// Mode selects resign, decrypt or encrypt.
	Mode saves.Mode

	// InputRoot is the directory of saves to process.
	InputRoot string

	// OutputRoot receives the mirrored tree and INFO.txt.
	OutputRoot string

	// TitleCode is a registered title code, e.g. "SUKHOTHAI".
	TitleCode string

	// Identity is the SteamID used by decrypt and encrypt.
	Identity string

	// OldIdentity and NewIdentity are used by resign.
	OldIdentity string
	NewIdentity string

	// Include restricts collection to files matching any of these
	// doublestar patterns, relative to InputRoot. Empty means all.
	Include []string

	// Progress is optional.
	Progress ProgressFunc

	// Now returns the summary timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Validate checks the identities and title without touching the filesystem.
func (j Job) Validate() error {
	switch j.Mode {
	case saves.ModeResign:
		if err := identity.ValidatePair(j.OldIdentity, j.NewIdentity); err != nil {
			return err
		}
	case saves.ModeDecrypt, saves.ModeEncrypt:
		if err := identity.Validate(j.Identity); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %d", int(j.Mode))
	}

	if _, err := titles.Lookup(j.TitleCode); err != nil {
		return err
	}
	return nil
}

// Identities returns the identity pair passed to the transform.
func (j Job) Identities() saves.Identities {
	if j.Mode == saves.ModeResign {
		return saves.Identities{Old: j.OldIdentity, New: j.NewIdentity}
	}
	return saves.Identities{Old: j.Identity, New: j.Identity}
}

func (j Job) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j Job) progress(index, total int, name string) {
	if j.Progress != nil {
		j.Progress(index, total, name)
	}
}

// OutputSuffix returns the suffix appended to the input name for the
// default output root.
func OutputSuffix(mode saves.Mode) string {
	return "_" + pastTense(mode)
}

// DefaultOutputRoot returns <parent>/<base(input)><suffix>, where parent is
// configuredDir when set and the parent of input otherwise.
func DefaultOutputRoot(mode saves.Mode, input, configuredDir string) string {
	input = filepath.Clean(input)
	parent := configuredDir
	if parent == "" {
		parent = filepath.Dir(input)
	}
	return filepath.Join(parent, filepath.Base(input)+OutputSuffix(mode))
}

// pastTense returns "resigned", "decrypted" or "encrypted".
func pastTense(mode saves.Mode) string {
	return mode.String() + "ed"
}

// progressive returns "Resigning", "Decrypting" or "Encrypting".
func progressive(mode saves.Mode) string {
	s := mode.String()
	return strings.ToUpper(s[:1]) + s[1:] + "ing"
}
