package mosse

import (
	"image"
	"math"
)

// Rectangle is an axis-aligned box in floating-point frame coordinates.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Image returns the nearest integer rectangle, suitable for drawing
func (r Rectangle) Image() image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.Width)), y0+int(math.Round(r.Height)))
}

type Point struct {
	X float64
	Y float64
}

// Add returns p shifted by other
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Size is the integer extent of a template.
type Size struct {
	Width  int
	Height int
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
