package sampling

import "math/rand/v2"

// streamSalt derives the second PCG word from the seed.
const streamSalt = 0x9e3779b97f4a7c15

// New returns a generator fully determined by seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt))
}
