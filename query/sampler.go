// Package query samples random source-target queries over a node range.
package query

import (
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/justapithecus/pathbench/types"
)

// denseEnumerationLimit caps the pair domain that may be enumerated in
// memory. Above it, sampling always uses rejection.
const denseEnumerationLimit = 1 << 20

// Sampler draws query sets from a seeded PCG source.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	seed uint64
	rng  *rand.Rand
}

// NewSampler returns a sampler seeded with seed. A zero seed is replaced by
// a random non-zero one; Seed reports the value actually used.
func NewSampler(seed uint64) *Sampler {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return &Sampler{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the effective seed.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// Sample returns exactly count distinct ordered pairs (u, v) with u != v,
// both drawn uniformly from [1, nodeCount], in generation order.
func (s *Sampler) Sample(nodeCount int64, count int) (types.QuerySet, error) {
	if count < 0 {
		return nil, fmt.Errorf("query count must be >= 0, got %d", count)
	}
	if nodeCount < 2 {
		return nil, &InsufficientDomainError{NodeCount: nodeCount, Requested: count}
	}

	domain, overflow := pairDomain(nodeCount)
	if !overflow && uint64(count) > domain {
		return nil, &InsufficientDomainError{NodeCount: nodeCount, Requested: count}
	}

	// Rejection degrades to coupon collecting when most of the domain is
	// requested; a shuffled enumeration has the same distribution.
	if !overflow && domain <= denseEnumerationLimit && uint64(count)*2 > domain {
		return s.sampleDense(nodeCount, count), nil
	}
	return s.sampleRejection(nodeCount, count), nil
}

func (s *Sampler) sampleRejection(nodeCount int64, count int) types.QuerySet {
	out := make(types.QuerySet, 0, count)
	seen := make(map[types.Query]struct{}, count)
	for len(out) < count {
		q := types.Query{
			Source: s.rng.Int64N(nodeCount) + 1,
			Target: s.rng.Int64N(nodeCount) + 1,
		}
		if q.Source == q.Target {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// sampleDense runs a partial Fisher-Yates shuffle over the enumerated
// pair domain and keeps the first count entries.
func (s *Sampler) sampleDense(nodeCount int64, count int) types.QuerySet {
	all := make(types.QuerySet, 0, nodeCount*(nodeCount-1))
	for u := int64(1); u <= nodeCount; u++ {
		for v := int64(1); v <= nodeCount; v++ {
			if u != v {
				all = append(all, types.Query{Source: u, Target: v})
			}
		}
	}
	for i := range count {
		j := i + s.rng.IntN(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:count:count]
}

// pairDomain returns n*(n-1) and whether it overflowed uint64.
func pairDomain(n int64) (uint64, bool) {
	hi, lo := bits.Mul64(uint64(n), uint64(n-1))
	return lo, hi != 0
}
