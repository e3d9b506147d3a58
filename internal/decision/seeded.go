package decision

import (
	"crypto/sha256"
	"encoding/binary"
)

// SeededFloat maps a seed string onto [0, 1) deterministically: SHA-256 of
// the seed, first four bytes as a big-endian uint32, normalized by 2^32.
// Identical seeds always yield identical values, which is what makes the
// no-network fallback path reproducible.
func SeededFloat(seed string) float64 {
	sum := sha256.Sum256([]byte(seed))
	n := binary.BigEndian.Uint32(sum[:4])
	return float64(n) / (1 << 32)
}

// SeededIndex maps a seed string onto [0, n) for deterministic shuffling.
func SeededIndex(seed string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(SeededFloat(seed) * float64(n))
}
