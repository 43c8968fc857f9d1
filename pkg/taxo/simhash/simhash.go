// Package simhash computes 64-bit similarity-preserving fingerprints.
// Near-identical token multisets map to fingerprints within a small
// Hamming distance of each other.
package simhash

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/dchest/siphash"
)

// Fixed SipHash-2-4 key. Changing it changes every fingerprint ever
// produced, so it is part of the wire format.
const (
	hashKey0 = 0x7468655f6b657931
	hashKey1 = 0x7468655f6b657932
)

const fingerprintBits = 64

// Hash fingerprints a token sequence with every token weighted 1.
func Hash(tokens []string) uint64 {
	return WeightedHash(tokens, nil)
}

// WeightedHash fingerprints a token sequence using per-token weights.
// Tokens absent from weights count as weight 1. Each occurrence of a
// token contributes independently, so the result depends on the token
// multiset but not its order.
func WeightedHash(tokens []string, weights map[string]float64) uint64 {
	var acc [fingerprintBits]float64
	for _, tok := range tokens {
		w, ok := weights[tok]
		if !ok {
			w = 1.0
		}
		h := siphash.Hash(hashKey0, hashKey1, []byte(tok))
		for i := 0; i < fingerprintBits; i++ {
			if (h>>i)&1 == 1 {
				acc[i] += w
			} else {
				acc[i] -= w
			}
		}
	}

	var fp uint64
	for i := 0; i < fingerprintBits; i++ {
		if acc[i] > 0 {
			fp |= 1 << i
		}
	}
	return fp
}

// HammingDistance counts differing bit positions.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// IsNearDuplicate reports whether two fingerprints lie within the
// given Hamming distance.
func IsNearDuplicate(a, b uint64, threshold int) bool {
	return HammingDistance(a, b) <= threshold
}

// ToHex renders a fingerprint as 16 lowercase hex digits.
func ToHex(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// FromHex parses a fingerprint rendered by ToHex. The second return is
// false when s is not valid hex.
func FromHex(s string) (uint64, bool) {
	fp, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return fp, true
}
