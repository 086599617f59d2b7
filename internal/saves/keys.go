package saves

import "crypto/sha256"

// KeySize is the AES-128 key length taken from the SHA-256 digest.
const KeySize = 16

// bindingString is identity || titleCode || fileName with no separators.
// It is both the hash input for the key and the associated data.
func bindingString(identity, titleCode, fileName string) []byte {
	b := make([]byte, 0, len(identity)+len(titleCode)+len(fileName))
	b = append(b, identity...)
	b = append(b, titleCode...)
	b = append(b, fileName...)
	return b
}

// DeriveKey returns the first 16 bytes of SHA-256(identity || titleCode || fileName).
// fileName must be a base name; moving a file does not change its key.
func DeriveKey(identity, titleCode, fileName string) []byte {
	sum := sha256.Sum256(bindingString(identity, titleCode, fileName))
	key := make([]byte, KeySize)
	copy(key, sum[:KeySize])
	return key
}

// AssociatedData returns the AAD bound to a save file.
func AssociatedData(identity, titleCode, fileName string) []byte {
	return bindingString(identity, titleCode, fileName)
}
