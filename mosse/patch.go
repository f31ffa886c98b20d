package mosse

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

// Gray16 keeps 8-bit levels exactly: an 8-bit value v is stored as v*0x101
const gray16Scale = 0x101

// extractPatch samples size.Width x size.Height pixels centered at center with
// bilinear interpolation. Pixels outside of the frame replicate the nearest edge.
func extractPatch(frame *image.Gray, center Point, size Size) *mat.Dense {
	x0 := center.X - float64(size.Width-1)*0.5
	y0 := center.Y - float64(size.Height-1)*0.5
	ix := int(math.Floor(x0))
	iy := int(math.Floor(y0))

	// One pixel of margin on each side covers the right/bottom bilinear neighbours
	src := borderWindow(frame, image.Rect(ix-1, iy-1, ix+size.Width+1, iy+size.Height+1))
	dst := image.NewGray16(image.Rect(0, 0, size.Width, size.Height))
	s2d := f64.Aff3{
		1, 0, -(x0 - float64(ix) + 1),
		0, 1, -(y0 - float64(iy) + 1),
	}
	draw.ApproxBiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)
	return denseFromGray16(dst)
}

// borderWindow copies region r of frame into new image with origin at (0, 0).
// Pixels outside of the frame replicate the nearest edge.
func borderWindow(frame *image.Gray, r image.Rectangle) *image.Gray {
	window := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	if r.In(frame.Rect) {
		draw.Copy(window, image.Point{}, frame, r, draw.Src, nil)
		return window
	}
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			window.Pix[y*window.Stride+x] = grayAt(frame, r.Min.X+x, r.Min.Y+y)
		}
	}
	return window
}

// grayAt reads pixel with replicated borders
func grayAt(frame *image.Gray, x, y int) uint8 {
	bounds := frame.Rect
	x = min(max(x, bounds.Min.X), bounds.Max.X-1)
	y = min(max(y, bounds.Min.Y), bounds.Max.Y-1)
	return frame.Pix[(y-bounds.Min.Y)*frame.Stride+(x-bounds.Min.X)]
}

// randomWarp resamples patch through small random affine transform about its center.
// Rotation is drawn from [-coef/2, coef/2] radians and each linear coefficient
// is perturbed by the same amount. Borders are mirrored.
func randomWarp(src *mat.Dense, coef float64, rnd *rand.Rand) *mat.Dense {
	rows, cols := src.Dims()
	ang := (rnd.Float64() - 0.5) * coef
	c, s := math.Cos(ang), math.Sin(ang)
	a := c + (rnd.Float64()-0.5)*coef
	b := -s + (rnd.Float64()-0.5)*coef
	d := s + (rnd.Float64()-0.5)*coef
	e := c + (rnd.Float64()-0.5)*coef
	cx := float64(cols-1) / 2
	cy := float64(rows-1) / 2
	tx := cx - (a*cx + b*cy)
	ty := cy - (d*cx + e*cy)

	// (a b tx; d e ty) maps destination pixel indices to source pixel indices.
	// Transform works on pixel centers and wants the source-to-destination direction.
	d2s := f64.Aff3{
		a, b, tx + 0.5 - 0.5*(a+b),
		d, e, ty + 0.5 - 0.5*(d+e),
	}
	padded := reflectPadded(src, max(rows, cols))
	dst := image.NewGray16(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Transform(dst, invertAff3(d2s), padded, padded.Bounds(), draw.Src, nil)
	return denseFromGray16(dst)
}

// reflectPadded converts patch of 8-bit levels into Gray16 image whose bounds
// extend by pad on each side, filled by mirroring with the edge repeated.
func reflectPadded(src *mat.Dense, pad int) *image.Gray16 {
	rows, cols := src.Dims()
	img := image.NewGray16(image.Rect(-pad, -pad, cols+pad, rows+pad))
	for y := -pad; y < rows+pad; y++ {
		for x := -pad; x < cols+pad; x++ {
			v := src.At(reflect(y, rows), reflect(x, cols))
			level := min(max(math.Round(v*gray16Scale), 0), math.MaxUint16)
			img.SetGray16(x, y, color.Gray16{Y: uint16(level)})
		}
	}
	return img
}

func invertAff3(m f64.Aff3) f64.Aff3 {
	det := m[0]*m[4] - m[1]*m[3]
	i00 := m[4] / det
	i01 := -m[1] / det
	i10 := -m[3] / det
	i11 := m[0] / det
	return f64.Aff3{
		i00, i01, -(i00*m[2] + i01*m[5]),
		i10, i11, -(i10*m[2] + i11*m[5]),
	}
}

func denseFromGray16(img *image.Gray16) *mat.Dense {
	bounds := img.Bounds()
	out := mat.NewDense(bounds.Dy(), bounds.Dx(), nil)
	data := out.RawMatrix().Data
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			level := img.Gray16At(x, y).Y
			data[(y-bounds.Min.Y)*bounds.Dx()+(x-bounds.Min.X)] = float64(level) / gray16Scale
		}
	}
	return out
}
