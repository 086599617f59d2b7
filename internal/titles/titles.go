// Package titles holds the closed list of supported games.
//
// A title's Code is mixed into every key and associated-data string, so it
// must match what the game itself uses. Codes are not guessable from the
// game's name; add a title here only once its code is known.
package titles

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"
)

// Title is a supported game.
type Title struct {
	Name string
	Code string
}

var registered = []Title{
	{Name: "DOOM Eternal & The Dark Ages", Code: "MANCUBUS"},
	{Name: "Indiana Jones and the Great Circle", Code: "SUKHOTHAI"},
}

// All returns the registered titles in display order.
func All() []Title {
	out := make([]Title, len(registered))
	copy(out, registered)
	return out
}

// Default returns the first registered title.
func Default() Title {
	return registered[0]
}

// Lookup returns the title with the given code. Codes are case-sensitive
// because they are used verbatim as key material.
func Lookup(code string) (Title, error) {
	for _, t := range registered {
		if t.Code == code {
			return t, nil
		}
	}
	return Title{}, fmt.Errorf("%w: %q (known: %s)", kerrors.ErrUnknownTitle, code, strings.Join(Codes(), ", "))
}

// Codes returns the registered title codes.
func Codes() []string {
	codes := make([]string, 0, len(registered))
	for _, t := range registered {
		codes = append(codes, t.Code)
	}
	return codes
}

func (t Title) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Code)
}
