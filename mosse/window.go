package mosse

import (
	"math"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// hannWindow builds separable raised-cosine window of given size.
func hannWindow(size Size) *mat.Dense {
	wc := hann1D(size.Width)
	wr := hann1D(size.Height)
	out := mat.NewDense(size.Height, size.Width, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return wr[i] * wc[j]
	}, out)
	return out
}

func hann1D(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	if n == 1 {
		return w
	}
	return window.Hann(w)
}

// desiredResponse is a unit impulse at (width/2, height/2) blurred with
// Gaussian of given sigma and scaled so that its peak equals 1.
func desiredResponse(size Size, sigma float64) *mat.Dense {
	impulse := mat.NewDense(size.Height, size.Width, nil)
	impulse.Set(size.Height/2, size.Width/2, 1)
	g := gaussianBlur(impulse, sigma)
	data := g.RawMatrix().Data
	peak := floats.Max(data)
	if peak > 0 {
		floats.Scale(1/peak, data)
	}
	return g
}

// gaussianKernel returns normalized 1D kernel of radius round(4*sigma).
func gaussianKernel(sigma float64) []float64 {
	radius := max(int(math.Round(4*sigma)), 1)
	normal := distuv.Normal{Mu: 0, Sigma: sigma}
	kernel := make([]float64, 2*radius+1)
	for i := range kernel {
		kernel[i] = normal.Prob(float64(i - radius))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// gaussianBlur applies separable Gaussian filter with reflect-101 borders.
// Only the desired response is blurred, once per target.
func gaussianBlur(src *mat.Dense, sigma float64) *mat.Dense {
	rows, cols := src.Dims()
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	tmp := mat.NewDense(rows, cols, nil)
	tmp.Apply(func(i, j int, _ float64) float64 {
		sum := 0.0
		for k, kv := range kernel {
			sum += kv * src.At(i, reflect101(j+k-radius, cols))
		}
		return sum
	}, tmp)

	dst := mat.NewDense(rows, cols, nil)
	dst.Apply(func(i, j int, _ float64) float64 {
		sum := 0.0
		for k, kv := range kernel {
			sum += kv * tmp.At(reflect101(i+k-radius, rows), j)
		}
		return sum
	}, dst)
	return dst
}

// reflect101 maps index into [0, n) mirroring without repeating the edge: gfedcb|abcdefgh|gfedcba
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2*n - 2
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// reflect maps index into [0, n) mirroring with the edge repeated: fedcba|abcdefgh|hgfedcb
func reflect(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
