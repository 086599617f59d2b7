// Package saves implements the save file transform for idresign.
//
// # Encryption Scheme
//
// Each save file is protected with AES-128-GCM under a key that is unique
// to the (identity, title, file name) triple:
//
//	key = SHA-256(identity || titleCode || fileName)[:16]
//	aad = identity || titleCode || fileName
//
// The strings are concatenated without separators. fileName is always the
// base name, so moving a file between folders keeps its key.
//
// # Blob Format
//
// Encrypted files are laid out as
//
//	nonce (12 bytes) || ciphertext (len(plaintext)) || tag (16 bytes)
//
// with a fresh random nonce per encryption. Anything shorter than 28 bytes
// is rejected as ErrMalformedInput. Any other decryption failure, whether
// a wrong identity, wrong title, renamed file or corrupted data, is
// ErrAuthenticationFailed and nothing more specific.
//
// Resigning decrypts under the old identity and encrypts under the new
// one; the plaintext never leaves memory.
//
// # Detecting Ciphertext
//
// LooksEncrypted is an entropy heuristic used to warn before encrypting a
// file that already appears encrypted. It is advisory: buffers under 16
// bytes and buffers starting with valid UTF-8 are always treated as
// plaintext, and the threshold (6 bits/byte) favors missed warnings over
// false alarms.
//
// # Collecting Files
//
// Collect walks an input tree and keeps files ending in .bin, .dat,
// .details, .details-backup or .dat-backup (any case). Other files are
// listed in CollectResult.Skipped and never cause an error on their own.
package saves
