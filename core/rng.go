package core

import (
	erand "golang.org/x/exp/rand"
)

// splitMix64 mixes a seed into a well-distributed 64-bit value. Used to
// derive member seeds so that neighboring base seeds do not produce
// correlated streams.
func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// MemberSeed derives the seed of batch member i from the simulation seed.
// The derivation is deterministic, so member i of a batch run can be
// reproduced in isolation by seeding a single-member run with the same value.
func MemberSeed(seed uint64, member int) uint64 {
	return splitMix64(seed ^ (0x9e3779b97f4a7c15 * uint64(member+1)))
}

// Streams holds one independent random stream per batch member. Every draw a
// policy makes on behalf of member i comes from stream i and nowhere else;
// this is what keeps batch members statistically isolated from each other.
type Streams struct {
	rngs []*erand.Rand
}

// NewStreams creates batch independent streams derived from seed.
func NewStreams(seed uint64, batch int) *Streams {
	rngs := make([]*erand.Rand, batch)
	for i := range rngs {
		rngs[i] = erand.New(erand.NewSource(MemberSeed(seed, i)))
	}
	return &Streams{rngs: rngs}
}

// NewStreamsFromSeeds creates one stream per explicit seed, bypassing the
// member derivation. Used to reproduce a single batch member standalone.
func NewStreamsFromSeeds(seeds []uint64) *Streams {
	rngs := make([]*erand.Rand, len(seeds))
	for i, s := range seeds {
		rngs[i] = erand.New(erand.NewSource(s))
	}
	return &Streams{rngs: rngs}
}

func (s *Streams) Batch() int {
	return len(s.rngs)
}

func (s *Streams) Member(i int) *erand.Rand {
	return s.rngs[i]
}
