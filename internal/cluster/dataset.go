package cluster

import (
	"math"

	"github.com/go-sod/kmeans/internal/geom"
)

// Dataset is a validated, rectangular set of points. The engine never writes
// to the underlying rows.
type Dataset struct {
	points []geom.Point
	dim    int
}

// NewDataset validates features and wraps them without copying.
func NewDataset(features [][]float64) (*Dataset, error) {
	if len(features) == 0 {
		return nil, invalidInputf("features must not be empty")
	}
	dim := len(features[0])
	if dim == 0 {
		return nil, invalidInputf("features must have at least one dimension")
	}
	points := make([]geom.Point, len(features))
	for i, row := range features {
		if len(row) != dim {
			return nil, invalidInputf("row %d has dimension %d, expected %d", i, len(row), dim)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalidInputf("row %d column %d is not a finite number", i, j)
			}
		}
		points[i] = geom.NewPoint(row)
	}
	return &Dataset{points: points, dim: dim}, nil
}

func (d *Dataset) Len() int {
	return len(d.points)
}

func (d *Dataset) Dim() int {
	return d.dim
}

func (d *Dataset) At(idx int) geom.Point {
	return d.points[idx]
}

func (d *Dataset) validateK(k int) error {
	if k <= 0 {
		return invalidInputf("k must be greater than 0, got %d", k)
	}
	if k > d.Len() {
		return invalidInputf("k (%d) must not exceed the number of points (%d)", k, d.Len())
	}
	return nil
}

func (d *Dataset) validateCenters(centers []geom.Point) error {
	if err := d.validateK(len(centers)); err != nil {
		return err
	}
	for i, c := range centers {
		if c.Dimensions() != d.dim {
			return invalidInputf("center %d has dimension %d, expected %d", i, c.Dimensions(), d.dim)
		}
	}
	return nil
}
