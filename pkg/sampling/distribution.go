package sampling

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// ErrZeroDistribution is returned when every weight of a non-empty pool
// resolves to zero.
var ErrZeroDistribution = fmt.Errorf("%w: distribution weights are all zero", tagspec.ErrConfig)

// ResolveDistribution resizes declared weights to a pool of n strings and
// normalizes them so they sum to 1.
//
// A nil declaration is uniform. Extra weights are ignored. When the declared
// weights sum to more than 1 they are rescaled and the missing slots get zero
// weight; otherwise the remaining mass is shared evenly by the missing slots.
func ResolveDistribution(declared []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, nil
	}

	var d []float64
	if declared == nil {
		d = make([]float64, n)
		for i := range d {
			d[i] = 1 / float64(n)
		}
		return d, nil
	}

	d = slices.Clone(declared[:min(len(declared), n)])
	if s := sum(d); s > 1 {
		for i := range d {
			d[i] /= s
		}
		for len(d) < n {
			d = append(d, 0)
		}
	} else if missing := n - len(d); missing > 0 {
		rest := (1 - s) / float64(missing)
		for range missing {
			d = append(d, rest)
		}
	}

	total := sum(d)
	if total <= 0 {
		return nil, ErrZeroDistribution
	}
	for i := range d {
		d[i] /= total
	}
	return d, nil
}

// DrawWithoutReplacement picks up to k distinct indices weighted by weights.
// Drawing stops early when the remaining weight is zero. The returned
// indices are sorted in ascending order.
func DrawWithoutReplacement(rng *rand.Rand, weights []float64, k int) []int {
	w := slices.Clone(weights)
	k = min(k, len(w))

	chosen := make([]int, 0, k)
	for range k {
		total := sum(w)
		if total <= 0 {
			break
		}

		r := rng.Float64() * total
		idx := -1
		for i, x := range w {
			if x <= 0 {
				continue
			}
			idx = i
			if r < x {
				break
			}
			r -= x
		}

		chosen = append(chosen, idx)
		w[idx] = 0
	}

	slices.Sort(chosen)
	return chosen
}

// drawCount resolves a Number against the true pool length.
func drawCount(rng *rand.Rand, num tagspec.Number, poolLen int) int {
	if !num.Ranged {
		return min(num.Min, poolLen)
	}
	hi := min(num.Max, poolLen)
	if hi <= num.Min {
		return min(num.Min, poolLen)
	}
	return num.Min + rng.IntN(hi-num.Min)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
