package mosse

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// normalize log-compresses raw pixel values and standardises them to
// zero mean and unit deviation. Constant patches map to zeros.
func normalize(patch *mat.Dense, eps float64) *mat.Dense {
	rows, cols := patch.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return math.Log(v + 1)
	}, patch)
	mean, std := stat.PopMeanStdDev(out.RawMatrix().Data, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return (v - mean) / (std + eps)
	}, out)
	return out
}

// preprocess turns raw patch into filter-ready signal: normalize, then taper by window.
// Must be used identically at initialisation, localisation and learning.
func preprocess(patch, window *mat.Dense, eps float64) *mat.Dense {
	out := normalize(patch, eps)
	out.MulElem(out, window)
	return out
}
