package saves

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"
)

const (
	NonceSize = 12
	TagSize   = 16

	// MinBlobSize is the size of an encrypted empty file.
	MinBlobSize = NonceSize + TagSize
)

// Mode selects the transform applied to each file in a batch.
type Mode int

const (
	ModeResign Mode = iota
	ModeDecrypt
	ModeEncrypt
)

func (m Mode) String() string {
	switch m {
	case ModeResign:
		return "resign"
	case ModeDecrypt:
		return "decrypt"
	case ModeEncrypt:
		return "encrypt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "resign":
		return ModeResign, nil
	case "decrypt":
		return ModeDecrypt, nil
	case "encrypt":
		return ModeEncrypt, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Identities carries the identity arguments for a transform. Resign uses
// Old and New; Decrypt and Encrypt use Old only.
type Identities struct {
	Old string
	New string
}

// Apply runs the transform selected by mode.
func Apply(mode Mode, data []byte, fileName, titleCode string, ids Identities) ([]byte, error) {
	switch mode {
	case ModeResign:
		return Resign(data, fileName, titleCode, ids.Old, ids.New)
	case ModeDecrypt:
		return Decrypt(data, fileName, titleCode, ids.Old)
	case ModeEncrypt:
		return Encrypt(data, fileName, titleCode, ids.Old)
	}
	return nil, fmt.Errorf("unsupported mode %v", mode)
}

func newGCM(identity, titleCode, fileName string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(identity, titleCode, fileName))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}

// Encrypt seals plaintext for identity and returns nonce || ciphertext || tag.
func Encrypt(plaintext []byte, fileName, titleCode, identity string) ([]byte, error) {
	aead, err := newGCM(identity, titleCode, fileName)
	if err != nil {
		return nil, err
	}

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aead.Seal(out, out[:NonceSize], plaintext, AssociatedData(identity, titleCode, fileName)), nil
}

// Decrypt opens a blob produced by Encrypt. Every verification failure is
// reported as ErrAuthenticationFailed, whatever the cause.
func Decrypt(blob []byte, fileName, titleCode, identity string) ([]byte, error) {
	if len(blob) < MinBlobSize {
		return nil, kerrors.ErrMalformedInput
	}

	aead, err := newGCM(identity, titleCode, fileName)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], AssociatedData(identity, titleCode, fileName))
	if err != nil {
		return nil, kerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Resign decrypts blob as oldID and re-encrypts the plaintext for newID.
// Nothing is returned unless both steps succeed.
func Resign(blob []byte, fileName, titleCode, oldID, newID string) ([]byte, error) {
	plaintext, err := Decrypt(blob, fileName, titleCode, oldID)
	if err != nil {
		return nil, err
	}
	return Encrypt(plaintext, fileName, titleCode, newID)
}
