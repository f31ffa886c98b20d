package mosse

import (
	"image"
	"math/rand/v2"
)

const (
	eps = 0.00001

	darkLevel   = 20
	brightLevel = 220
)

// squareFrame returns uniform dark frame with bright squares drawn over it
func squareFrame(width, height int, squares ...image.Rectangle) *image.Gray {
	frame := image.NewGray(image.Rect(0, 0, width, height))
	for i := range frame.Pix {
		frame.Pix[i] = darkLevel
	}
	for _, sq := range squares {
		for y := sq.Min.Y; y < sq.Max.Y; y++ {
			for x := sq.Min.X; x < sq.Max.X; x++ {
				frame.Pix[y*frame.Stride+x] = brightLevel
			}
		}
	}
	return frame
}

// fillNoise overwrites region of frame with uniform noise
func fillNoise(frame *image.Gray, region image.Rectangle, seed uint64) {
	rnd := rand.New(rand.NewPCG(seed, seed+1))
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			frame.Pix[y*frame.Stride+x] = uint8(rnd.IntN(256))
		}
	}
}

// Selection around the 20x20 square at (40,40)-(60,60) with a 10 px margin of background
var defaultSelection = image.Rect(30, 30, 70, 70)

func referenceFrame() *image.Gray {
	return squareFrame(100, 100, image.Rect(40, 40, 60, 60))
}

func shiftedFrame(dx, dy int) *image.Gray {
	return squareFrame(100, 100, image.Rect(40+dx, 40+dy, 60+dx, 60+dy))
}
