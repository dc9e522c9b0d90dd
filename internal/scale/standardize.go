// Package scale rescales feature matrices before clustering.
package scale

import (
	"gonum.org/v1/gonum/stat"
)

// Column holds the statistics a feature column was standardized with.
type Column struct {
	Mean float64
	Std  float64
}

// Standardize returns a copy of features where every column has zero mean
// and unit population standard deviation. Columns with zero variance become
// all zeros. Rows are assumed to share a length; features is not modified.
func Standardize(features [][]float64) ([][]float64, []Column) {
	if len(features) == 0 {
		return nil, nil
	}
	dim := len(features[0])
	out := make([][]float64, len(features))
	for i := range out {
		out[i] = make([]float64, dim)
	}

	cols := make([]Column, dim)
	col := make([]float64, len(features))
	for d := 0; d < dim; d++ {
		for i := range features {
			col[i] = features[i][d]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		cols[d] = Column{Mean: mean, Std: std}
		for i := range features {
			if std == 0 {
				out[i][d] = 0
				continue
			}
			out[i][d] = (features[i][d] - mean) / std
		}
	}
	return out, cols
}
