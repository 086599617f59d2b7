package saves

import (
	"math"
	"unicode/utf8"
)

const (
	// heuristicMinSize is the smallest buffer the heuristic will judge.
	heuristicMinSize = 16

	// HeuristicWindow bounds how much of the buffer feeds the histogram.
	// Callers may read only this much of a file.
	HeuristicWindow = 1024

	// EntropyThreshold is in bits per byte. Ciphertext sits near 8.
	EntropyThreshold = 6.0
)

// LooksEncrypted guesses whether buf is already ciphertext. It is only used
// to ask for confirmation before an encrypt run, so errs towards false.
func LooksEncrypted(buf []byte) bool {
	if len(buf) < heuristicMinSize {
		return false
	}
	if utf8.Valid(buf[:heuristicMinSize]) {
		return false
	}
	return Entropy(buf) > EntropyThreshold
}

// Entropy returns the Shannon entropy, in bits per byte, of at most the
// first 1024 bytes of buf. An empty buffer has zero entropy.
func Entropy(buf []byte) float64 {
	if len(buf) > HeuristicWindow {
		buf = buf[:HeuristicWindow]
	}
	if len(buf) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range buf {
		counts[b]++
	}

	n := float64(len(buf))
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}
