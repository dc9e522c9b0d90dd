package cluster

import (
	"math/rand"
	"time"

	"github.com/go-sod/kmeans/internal/geom"
)

// Result is the outcome of a Cluster call.
type Result struct {
	// Labels[i] is the cluster of features[i].
	Labels []int
	// Centers[j] is the center of cluster j.
	Centers []geom.Point
	// Sizes[j] is the number of labels equal to j.
	Sizes []int
	// Inertia is the sum of squared distances of points to their labelled center.
	Inertia float64
	// Iterations and Converged describe the refinement of the winning run.
	Iterations int
	Converged  bool
}

func New(opts ...Option) (*KMeans, error) {
	km := &KMeans{opts: defaultOptions}
	for _, f := range opts {
		f(km)
	}
	if km.opts.maxIterations < 1 {
		return nil, invalidInputf("max iterations must be at least 1, got %d", km.opts.maxIterations)
	}
	if km.opts.runs < 1 {
		return nil, invalidInputf("runs must be at least 1, got %d", km.opts.runs)
	}
	return km, nil
}

type KMeans struct {
	opts Options
}

func (km *KMeans) MaxIterations() int {
	return km.opts.maxIterations
}

func (km *KMeans) Runs() int {
	return km.opts.runs
}

// Cluster partitions features into k clusters. Invalid input is reported with
// an error wrapping ErrInvalidInput before any work is done; hitting the
// iteration cap is not an error and shows up as Result.Converged == false.
func (km *KMeans) Cluster(features [][]float64, k int) (*Result, error) {
	ds, err := NewDataset(features)
	if err != nil {
		return nil, err
	}
	if err := ds.validateK(k); err != nil {
		return nil, err
	}

	rnd := km.source()
	var best *Result
	for i := 0; i < km.opts.runs; i++ {
		res, err := km.run(ds, k, rnd)
		if err != nil {
			return nil, err
		}
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func (km *KMeans) run(ds *Dataset, k int, rnd Rand) (*Result, error) {
	seeds, err := Seed(ds, k, rnd)
	if err != nil {
		return nil, err
	}
	refined, err := Refine(ds, seeds, km.opts.maxIterations)
	if err != nil {
		return nil, err
	}
	labels, err := Label(ds, refined.Centers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Labels:     labels,
		Centers:    refined.Centers,
		Sizes:      make([]int, k),
		Iterations: refined.Iterations,
		Converged:  refined.Converged,
	}
	for i, c := range labels {
		res.Sizes[c]++
		res.Inertia += geom.SquaredDistance(ds.At(i), refined.Centers[c])
	}
	return res, nil
}

func (km *KMeans) source() Rand {
	switch {
	case km.opts.rnd != nil:
		return km.opts.rnd
	case km.opts.seeded:
		return rand.New(rand.NewSource(km.opts.seed))
	default:
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}
