package mosse

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// correlation is the outcome of matching filter against one patch spectrum.
type correlation struct {
	response *mat.Dense
	// Offset of the peak from the patch center, in pixels
	delta Point
	peak  float64
	psr   float64
}

// correlate computes spatial response of filter to patchSpectrum, its peak and
// the peak-to-sidelobe ratio. It does not mutate its arguments.
func (s *spectrum2D) correlate(patchSpectrum, filter *mat.CDense, sidelobeRadius int, eps float64) correlation {
	response := s.inverse(mulSpectrums(patchSpectrum, filter, true))
	w, h := s.size.Width, s.size.Height
	data := response.RawMatrix().Data
	peakIdx := floats.MaxIdx(data)
	peakX := peakIdx % w
	peakY := peakIdx / w
	peak := data[peakIdx]

	sidelobe := make([]float64, 0, len(data))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if abs(x-peakX) <= sidelobeRadius && abs(y-peakY) <= sidelobeRadius {
				continue
			}
			sidelobe = append(sidelobe, data[y*w+x])
		}
	}
	if len(sidelobe) == 0 {
		// Template is smaller than the exclusion square
		sidelobe = data
	}
	sideMean, sideStd := stat.PopMeanStdDev(sidelobe, nil)

	return correlation{
		response: response,
		delta:    Point{X: float64(peakX - w/2), Y: float64(peakY - h/2)},
		peak:     peak,
		psr:      (peak - sideMean) / (sideStd + eps),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
