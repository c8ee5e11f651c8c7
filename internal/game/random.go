package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// seededRNG derives an independent stream per subsystem from one game seed,
// so crew generation and DNA mutation never shift each other's sequences.
func seededRNG(seed int64, stream string) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, stream+":a"), seedWord(seed, stream+":b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
