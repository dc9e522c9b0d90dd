package cluster

import (
	"math/rand"

	"github.com/go-sod/kmeans/internal/geom"
)

// fixedRand always returns the same draws.
type fixedRand struct {
	intn int
	f    float64
}

func (r fixedRand) Intn(n int) int {
	return r.intn % n
}

func (r fixedRand) Float64() float64 {
	return r.f
}

func twoGroups() [][]float64 {
	return [][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}}
}

func randomFeatures(seed int64, n, dim int) [][]float64 {
	rnd := rand.New(rand.NewSource(seed))
	features := make([][]float64, n)
	for i := range features {
		features[i] = make([]float64, dim)
		for d := range features[i] {
			features[i][d] = rnd.NormFloat64()*5 + float64(i%3)*20
		}
	}
	return features
}

func copyFeatures(features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for i := range features {
		out[i] = append([]float64(nil), features[i]...)
	}
	return out
}

func mustDataset(features [][]float64) *Dataset {
	ds, err := NewDataset(features)
	if err != nil {
		panic(err)
	}
	return ds
}

func points(rows ...[]float64) []geom.Point {
	out := make([]geom.Point, len(rows))
	for i := range rows {
		out[i] = geom.NewPoint(rows[i])
	}
	return out
}

func columnMeans(features [][]float64) []float64 {
	means := make([]float64, len(features[0]))
	for _, row := range features {
		for d, v := range row {
			means[d] += v
		}
	}
	for d := range means {
		means[d] /= float64(len(features))
	}
	return means
}
