package geom

import (
	"gonum.org/v1/gonum/floats"
)

// Distance returns the Euclidean distance between two points of the same
// dimension.
func Distance(p, p1 Point) float64 {
	return floats.Distance(p, p1, 2)
}

// SquaredDistance returns the squared Euclidean distance between p and p1
// without taking a square root.
func SquaredDistance(p, p1 Point) float64 {
	var sum float64
	for i := range p {
		d := p[i] - p1[i]
		sum += d * d
	}
	return sum
}
