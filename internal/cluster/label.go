package cluster

import (
	"math"

	"github.com/go-sod/kmeans/internal/geom"
)

// Label assigns every point of ds to its nearest center. Ties go to the
// lowest center index. The result depends only on ds and centers.
func Label(ds *Dataset, centers []geom.Point) ([]int, error) {
	if err := ds.validateCenters(centers); err != nil {
		return nil, err
	}
	labels := make([]int, ds.Len())
	for i := range labels {
		labels[i] = nearest(ds.At(i), centers)
	}
	return labels, nil
}

func nearest(p geom.Point, centers []geom.Point) int {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centers {
		if d := geom.Distance(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
