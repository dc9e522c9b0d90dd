package cluster

import (
	"gonum.org/v1/gonum/floats"

	"github.com/go-sod/kmeans/internal/geom"
)

// Refinement is the state Refine stops in.
type Refinement struct {
	// Labels is the assignment of the stopping iteration.
	Labels []int
	// Centers are the means of the last update step. A cluster that lost all
	// of its points keeps the center it had before.
	Centers []geom.Point
	// Iterations is the number of assign steps performed.
	Iterations int
	// Converged reports whether the last assign step moved no point.
	Converged bool
}

// Refine runs Lloyd iterations from the initial centers. It stops when an
// assign step moves no point or after maxIterations assign steps. The
// initial centers and the dataset are left untouched.
func Refine(ds *Dataset, initial []geom.Point, maxIterations int) (*Refinement, error) {
	if err := ds.validateCenters(initial); err != nil {
		return nil, err
	}
	if maxIterations < 1 {
		return nil, invalidInputf("max iterations must be at least 1, got %d", maxIterations)
	}

	k := len(initial)
	centers := make([]geom.Point, k)
	sums := make([][]float64, k)
	for j := range initial {
		centers[j] = initial[j].Copy()
		sums[j] = make([]float64, ds.Dim())
	}
	counts := make([]int, k)

	labels := make([]int, ds.Len())
	for i := range labels {
		labels[i] = -1
	}

	r := &Refinement{Labels: labels, Centers: centers}
	for r.Iterations < maxIterations {
		r.Iterations++
		if assign(ds, centers, labels) == 0 {
			r.Converged = true
			break
		}
		update(ds, centers, labels, sums, counts)
	}
	return r, nil
}

// assign moves every point to its nearest center and returns how many
// points changed cluster.
func assign(ds *Dataset, centers []geom.Point, labels []int) int {
	changed := 0
	for i := range labels {
		if c := nearest(ds.At(i), centers); c != labels[i] {
			labels[i] = c
			changed++
		}
	}
	return changed
}

func update(ds *Dataset, centers []geom.Point, labels []int, sums [][]float64, counts []int) {
	for j := range sums {
		for d := range sums[j] {
			sums[j][d] = 0
		}
		counts[j] = 0
	}
	for i, c := range labels {
		floats.Add(sums[c], ds.At(i))
		counts[c]++
	}
	for j, n := range counts {
		if n == 0 {
			continue
		}
		for d := range sums[j] {
			centers[j][d] = sums[j][d] / float64(n)
		}
	}
}
