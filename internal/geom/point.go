package geom

import "gonum.org/v1/gonum/floats"

// Point is a fixed-dimension coordinate vector.
type Point []float64

func NewPoint(vec []float64) Point {
	return vec
}

func (v Point) Dimensions() int {
	return len(v)
}

func (v Point) Points() []float64 {
	return v
}

func (v Point) Copy() Point {
	var v1 = make(Point, len(v))
	copy(v1, v)
	return v1
}

func (v Point) Equal(vec Point) bool {
	if len(v) != len(vec) {
		return false
	}
	return floats.Equal(v, vec)
}
