package cluster

import (
	"github.com/go-sod/kmeans/internal/geom"
)

// Rand is the randomness Seed draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Seed chooses k distinct points of ds as initial centers using k-means++.
// The first center is uniform; every following one is drawn among the points
// not chosen yet with probability proportional to the squared distance to the
// nearest chosen center. When every remaining point sits on a chosen center
// the draw is uniform over the remaining points.
func Seed(ds *Dataset, k int, rnd Rand) ([]geom.Point, error) {
	if err := ds.validateK(k); err != nil {
		return nil, err
	}

	n := ds.Len()
	chosen := make([]bool, n)
	// squared distance to the nearest chosen center
	weights := make([]float64, n)
	centers := make([]geom.Point, 0, k)

	pick := func(idx int) {
		chosen[idx] = true
		c := ds.At(idx)
		centers = append(centers, c.Copy())
		for i := 0; i < n; i++ {
			if chosen[i] {
				weights[i] = 0
				continue
			}
			if d := geom.SquaredDistance(ds.At(i), c); len(centers) == 1 || d < weights[i] {
				weights[i] = d
			}
		}
	}

	pick(rnd.Intn(n))
	for len(centers) < k {
		pick(nextCenter(chosen, weights, rnd))
	}
	return centers, nil
}

func nextCenter(chosen []bool, weights []float64, rnd Rand) int {
	var (
		total     float64
		remaining int
	)
	for i, w := range weights {
		if !chosen[i] {
			total += w
			remaining++
		}
	}

	if total == 0 {
		nth := rnd.Intn(remaining)
		for i := range chosen {
			if chosen[i] {
				continue
			}
			if nth == 0 {
				return i
			}
			nth--
		}
	}

	r := rnd.Float64() * total
	last := -1
	var cumulative float64
	for i, w := range weights {
		if chosen[i] || w == 0 {
			continue
		}
		cumulative += w
		last = i
		if r < cumulative {
			return i
		}
	}
	// rounding left r at or past the final cumulative sum
	return last
}
