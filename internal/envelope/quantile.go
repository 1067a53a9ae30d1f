package envelope

import (
	"fmt"
	"math"
	"sort"
)

// Quantile returns the q-th quantile of xs using linear interpolation
// between order statistics. q is a fraction: 0 selects the minimum,
// 1 the maximum, 0.5 the median.
//
// The input slice is not modified (a copy is sorted internally).
// Returns ErrInvalidInput for an empty slice.
func Quantile(xs []float64, q float64) (float64, error) {
	n := len(xs)
	if n == 0 {
		return 0, fmt.Errorf("%w: cannot compute quantile of empty sample set", ErrInvalidInput)
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	if n == 1 {
		return sorted[0], nil
	}

	// Continuous rank in [0, n-1], split into a neighbor index and the
	// fraction between it and the next order statistic.
	pos := q * float64(n-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)

	if i >= n-1 {
		return sorted[n-1], nil
	}
	return sorted[i]*(1-frac) + sorted[i+1]*frac, nil
}
