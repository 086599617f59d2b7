// Package identity validates Steam64 account identifiers.
//
// An identity is the 17-digit decimal form of a Steam64 ID. It is used
// verbatim as key-derivation input and associated data, so it is only
// checked, never normalized.
package identity

import (
	"fmt"
	"strconv"
	"strings"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"
)

const (
	// Length is the number of decimal digits in a Steam64 ID.
	Length = 17

	// Prefix is the leading digits shared by all individual Steam64 accounts.
	Prefix = "7656119"

	// Min is the first individual Steam64 account.
	Min uint64 = 76561197960265728

	// Max is the highest value accepted as an individual Steam64 account.
	Max uint64 = 76561999999999999
)

// Validate checks id and returns the first failing reason, which wraps
// kerrors.ErrInvalidIdentity.
func Validate(id string) error {
	if id == "" {
		return kerrors.ErrIdentityEmpty
	}
	if len(id) != Length {
		return kerrors.ErrIdentityLength
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return kerrors.ErrIdentityNotNumeric
		}
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return kerrors.ErrIdentityNotNumeric
	}
	if !strings.HasPrefix(id, Prefix) {
		return kerrors.ErrIdentityPrefix
	}
	if n < Min {
		return kerrors.ErrIdentityTooSmall
	}
	if n > Max {
		return kerrors.ErrIdentityTooLarge
	}
	return nil
}

// ValidatePair validates the identities of a resign. Errors name the role
// ("old" or "new") of the offending identity.
func ValidatePair(oldID, newID string) error {
	if err := Validate(oldID); err != nil {
		return fmt.Errorf("old %w", err)
	}
	if err := Validate(newID); err != nil {
		return fmt.Errorf("new %w", err)
	}
	if oldID == newID {
		return kerrors.ErrIdenticalIdentities
	}
	return nil
}
