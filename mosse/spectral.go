package mosse

import (
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// spectrum2D computes forward and inverse 2D DFTs of fixed-size arrays as
// row transforms followed by column transforms.
// It is not safe for concurrent use: the plans share work buffers.
type spectrum2D struct {
	size   Size
	rows   *fourier.CmplxFFT
	cols   *fourier.CmplxFFT
	rowIn  []complex128
	rowOut []complex128
	colIn  []complex128
	colOut []complex128
}

func newSpectrum2D(size Size) *spectrum2D {
	return &spectrum2D{
		size:   size,
		rows:   fourier.NewCmplxFFT(size.Width),
		cols:   fourier.NewCmplxFFT(size.Height),
		rowIn:  make([]complex128, size.Width),
		rowOut: make([]complex128, size.Width),
		colIn:  make([]complex128, size.Height),
		colOut: make([]complex128, size.Height),
	}
}

// forward returns the unnormalized DFT of a real array.
func (s *spectrum2D) forward(src *mat.Dense) *mat.CDense {
	w, h := s.size.Width, s.size.Height
	raw := src.RawMatrix()
	data := make([]complex128, w*h)
	for y := 0; y < h; y++ {
		row := raw.Data[y*raw.Stride : y*raw.Stride+w]
		for x, v := range row {
			data[y*w+x] = complex(v, 0)
		}
	}
	s.transform(data)
	return mat.NewCDense(h, w, data)
}

// inverse returns the real part of the inverse DFT scaled by 1/(width*height).
// The inverse is taken as conj(DFT(conj(X)))/N so that forward and inverse
// share one sign convention.
func (s *spectrum2D) inverse(spectrum *mat.CDense) *mat.Dense {
	w, h := s.size.Width, s.size.Height
	src := spectrum.RawCMatrix().Data
	data := make([]complex128, len(src))
	for i, v := range src {
		data[i] = cmplx.Conj(v)
	}
	s.transform(data)
	n := float64(w * h)
	out := make([]float64, len(data))
	for i, v := range data {
		// conj does not change the real part
		out[i] = real(v) / n
	}
	return mat.NewDense(h, w, out)
}

func (s *spectrum2D) transform(data []complex128) {
	w, h := s.size.Width, s.size.Height
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		copy(s.rowIn, row)
		s.rows.Coefficients(s.rowOut, s.rowIn)
		copy(row, s.rowOut)
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			s.colIn[y] = data[y*w+x]
		}
		s.cols.Coefficients(s.colOut, s.colIn)
		for y := 0; y < h; y++ {
			data[y*w+x] = s.colOut[y]
		}
	}
}

// mulSpectrums multiplies a and b elementwise, conjugating b when conjB is set.
func mulSpectrums(a, b *mat.CDense, conjB bool) *mat.CDense {
	rows, cols := a.Dims()
	ad := a.RawCMatrix().Data
	bd := b.RawCMatrix().Data
	out := make([]complex128, len(ad))
	for i := range ad {
		bv := bd[i]
		if conjB {
			bv = cmplx.Conj(bv)
		}
		out[i] = ad[i] * bv
	}
	return mat.NewCDense(rows, cols, out)
}

// blendSpectrums returns rate*obs + (1-rate)*prev.
func blendSpectrums(obs, prev *mat.CDense, rate float64) *mat.CDense {
	rows, cols := obs.Dims()
	od := obs.RawCMatrix().Data
	pd := prev.RawCMatrix().Data
	out := make([]complex128, len(od))
	a := complex(rate, 0)
	b := complex(1-rate, 0)
	for i := range od {
		out[i] = a*od[i] + b*pd[i]
	}
	return mat.NewCDense(rows, cols, out)
}

// accumulate adds src into dst in place.
func accumulate(dst, src *mat.CDense) {
	dd := dst.RawCMatrix().Data
	for i, v := range src.RawCMatrix().Data {
		dd[i] += v
	}
}

// scaleSpectrum multiplies every element of dst by f in place.
func scaleSpectrum(dst *mat.CDense, f float64) {
	dd := dst.RawCMatrix().Data
	for i := range dd {
		dd[i] *= complex(f, 0)
	}
}

// filterFrom computes conj(numerator / (denominator + eps)).
// Adding eps keeps near-zero denominator bins bounded. Any non-finite result is
// reported as ErrDegenerateSpectrum and nothing is returned.
func filterFrom(numerator, denominator *mat.CDense, eps float64) (*mat.CDense, error) {
	rows, cols := numerator.Dims()
	nd := numerator.RawCMatrix().Data
	dd := denominator.RawCMatrix().Data
	out := make([]complex128, len(nd))
	reg := complex(eps, 0)
	for i := range nd {
		v := cmplx.Conj(nd[i] / (dd[i] + reg))
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, errors.Wrapf(ErrDegenerateSpectrum, "non-finite filter element at row %d col %d", i/cols, i%cols)
		}
		out[i] = v
	}
	return mat.NewCDense(rows, cols, out), nil
}
