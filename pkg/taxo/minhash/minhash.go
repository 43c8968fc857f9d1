// Package minhash estimates Jaccard similarity between token sets
// through fixed-length signatures.
package minhash

import (
	"math"

	"github.com/dchest/siphash"
)

// DefaultNumPerm is the signature length used across the module.
const DefaultNumPerm = 128

// Hasher produces MinHash signatures of a fixed length. Signatures
// from different Hasher sizes are not comparable.
type Hasher struct {
	seeds [][2]uint64
}

// New builds a Hasher with numPerm hash permutations. Seeds derive
// from the permutation index, so every Hasher of the same size is
// interchangeable.
func New(numPerm int) *Hasher {
	seeds := make([][2]uint64, numPerm)
	for i := range seeds {
		seeds[i][0] = uint64(i)*6364136223846793005 + 1
		seeds[i][1] = uint64(i)*1442695040888963407 + 7
	}
	return &Hasher{seeds: seeds}
}

// NewDefault builds a Hasher with DefaultNumPerm permutations.
func NewDefault() *Hasher {
	return New(DefaultNumPerm)
}

// NumPerm reports the signature length.
func (h *Hasher) NumPerm() int {
	return len(h.seeds)
}

// Signature computes the MinHash signature of a token set: position i
// holds the minimum SipHash of any token under seed pair i. An empty
// set yields all-MaxUint64.
func (h *Hasher) Signature(tokens []string) []uint64 {
	sig := make([]uint64, len(h.seeds))
	for i := range sig {
		sig[i] = math.MaxUint64
	}
	for _, tok := range tokens {
		data := []byte(tok)
		for i, seed := range h.seeds {
			if v := siphash.Hash(seed[0], seed[1], data); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// Jaccard estimates set similarity as the fraction of signature
// positions that agree. Signatures of different lengths are not
// comparable and score 0.
func Jaccard(a, b []uint64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}
