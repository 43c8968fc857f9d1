// Package sample draws deterministic index samples from record batches.
// All strategies run on a seeded generator: the same (population, size,
// seed, strategy) always yields the same indices, in ascending order.
package sample

import (
	"math"
	"sort"
	"strings"
)

// Strategy selects a sampling scheme.
type Strategy string

const (
	StrategyRandom     Strategy = "random"
	StrategyStratified Strategy = "stratified"
	StrategySystematic Strategy = "systematic"
	StrategyReservoir  Strategy = "reservoir"
)

// ParseStrategy resolves a strategy name case-insensitively.
// The second return is false for unknown names.
func ParseStrategy(s string) (Strategy, bool) {
	switch strings.ToLower(s) {
	case "random":
		return StrategyRandom, true
	case "stratified":
		return StrategyStratified, true
	case "systematic":
		return StrategySystematic, true
	case "reservoir":
		return StrategyReservoir, true
	}
	return "", false
}

// AllStrategies lists every strategy name.
func AllStrategies() []Strategy {
	return []Strategy{StrategyRandom, StrategyStratified, StrategySystematic, StrategyReservoir}
}

// Rand is a 64-bit linear congruential generator using the Numerical
// Recipes constants. It exists so that every seeded computation in the
// module shares one reproducible source; it is not suitable for
// anything security-sensitive.
type Rand struct {
	state uint64
}

// NewRand seeds a generator. Distinct seeds give distinct streams.
func NewRand(seed uint64) *Rand {
	return &Rand{state: seed + 1}
}

// Next advances the generator and returns the new 64-bit state.
func (r *Rand) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Float64 returns the next value scaled into [0,1].
func (r *Rand) Float64() float64 {
	return float64(r.Next()) / float64(math.MaxUint64)
}

// Random draws size distinct indices from [0,total) via a partial
// Fisher-Yates shuffle. size >= total returns the whole population.
func Random(total, size int, seed uint64) []int {
	if size >= total {
		return sequence(total)
	}
	indices := sequence(total)
	rng := NewRand(seed)
	for i := 0; i < size; i++ {
		j := i + int(rng.Next()%uint64(total-i))
		indices[i], indices[j] = indices[j], indices[i]
	}
	indices = indices[:size]
	sort.Ints(indices)
	return indices
}

// Systematic picks every (total/size)-th index starting from a seeded
// fractional offset. The result can fall one short of size when the
// offset lands the final pick past the population end.
func Systematic(total, size int, seed uint64) []int {
	if size >= total {
		return sequence(total)
	}
	step := float64(total) / float64(size)
	rng := NewRand(seed)
	start := rng.Float64() * step
	indices := make([]int, 0, size)
	for i := 0; i < size; i++ {
		idx := int(start + float64(i)*step)
		if idx < total {
			indices = append(indices, idx)
		}
	}
	return indices
}

// Reservoir selects size indices from [0,total) in a single pass
// (Algorithm R).
func Reservoir(total, size int, seed uint64) []int {
	if size >= total {
		return sequence(total)
	}
	reservoir := sequence(size)
	rng := NewRand(seed)
	for i := size; i < total; i++ {
		j := int(rng.Next() % uint64(i+1))
		if j < size {
			reservoir[j] = i
		}
	}
	sort.Ints(reservoir)
	return reservoir
}

// Stratified allocates the requested size across strata proportionally
// by largest remainder, then samples each stratum independently with a
// per-stratum seed. When size covers at least one slot per stratum,
// every stratum contributes at least one member. strata maps a stratum
// key to the population indices it owns.
func Stratified(strata map[string][]int, size int, seed uint64) []int {
	keys := make([]string, 0, len(strata))
	total := 0
	for k, members := range strata {
		keys = append(keys, k)
		total += len(members)
	}
	sort.Strings(keys)

	if size >= total {
		all := make([]int, 0, total)
		for _, k := range keys {
			all = append(all, strata[k]...)
		}
		sort.Ints(all)
		return all
	}

	counts := make([]int, len(keys))
	for i, k := range keys {
		counts[i] = len(strata[k])
	}
	alloc := allocate(counts, size)

	result := make([]int, 0, size)
	for i, k := range keys {
		members := strata[k]
		for _, j := range Random(len(members), alloc[i], seed+uint64(i)) {
			result = append(result, members[j])
		}
	}
	sort.Ints(result)
	return result
}

// allocate apportions size slots over the stratum counts: floor of each
// proportional quota, a floor of one per stratum when size permits,
// leftovers by largest fractional remainder (ties to the lower index).
func allocate(counts []int, size int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	oneEach := size >= len(counts)

	type remainder struct {
		index int
		frac  float64
	}
	alloc := make([]int, len(counts))
	remainders := make([]remainder, len(counts))
	assigned := 0
	for i, c := range counts {
		quota := float64(size) * float64(c) / float64(total)
		a := int(quota)
		if oneEach && a == 0 {
			a = 1
		}
		if a > c {
			a = c
		}
		alloc[i] = a
		assigned += a
		remainders[i] = remainder{index: i, frac: quota - math.Floor(quota)}
	}

	if assigned < size {
		sort.SliceStable(remainders, func(x, y int) bool {
			if remainders[x].frac != remainders[y].frac {
				return remainders[x].frac > remainders[y].frac
			}
			return remainders[x].index < remainders[y].index
		})
		for assigned < size {
			grew := false
			for _, r := range remainders {
				if assigned == size {
					break
				}
				if alloc[r.index] < counts[r.index] {
					alloc[r.index]++
					assigned++
					grew = true
				}
			}
			if !grew {
				break
			}
		}
	}

	// The one-per-stratum floor can overshoot; shrink the largest
	// allocations back down without dropping anyone to zero.
	floor := 0
	if oneEach {
		floor = 1
	}
	for assigned > size {
		largest := -1
		for i := range alloc {
			if alloc[i] > floor && (largest == -1 || alloc[i] > alloc[largest]) {
				largest = i
			}
		}
		if largest == -1 {
			break
		}
		alloc[largest]--
		assigned--
	}
	return alloc
}

func sequence(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
