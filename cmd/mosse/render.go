package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/LdDl/mosse-go/mosse"
	"gocv.io/x/gocv"
)

var (
	trackingColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	lostColor      = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	predictedColor = color.RGBA{R: 255, G: 200, B: 0, A: 0}
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// draw renders every target: box when tracking, crossed-out box when lost
func (sup *supervisor) draw(img *gocv.Mat) {
	for _, target := range sup.tracker.Objects {
		rect := target.GetBBox().Image()
		conf := target.GetConfidence()
		if target.GetState() == mosse.StateLost {
			gocv.Rectangle(img, rect, lostColor, 2)
			gocv.Line(img, rect.Min, rect.Max, lostColor, 2)
			gocv.Line(img, image.Pt(rect.Max.X, rect.Min.Y), image.Pt(rect.Min.X, rect.Max.Y), lostColor, 2)
			predicted := target.GetPredictedCenter()
			gocv.Circle(img, image.Pt(int(predicted.X), int(predicted.Y)), 3, predictedColor, -1)
		} else {
			gocv.Rectangle(img, rect, trackingColor, 2)
			center := target.GetCenter()
			gocv.Circle(img, image.Pt(int(center.X), int(center.Y)), 2, trackingColor, -1)
		}
		gocv.PutText(img, fmt.Sprintf("PSR: %.2f", conf), image.Pt(rect.Min.X, rect.Max.Y+14),
			gocv.FontHersheySimplex, 0.4, textColor, 1)
	}
	status := fmt.Sprintf("Frame: %d, Targets: %d", sup.frameNum, sup.tracker.Len())
	if sup.paused {
		status += " [paused]"
	}
	gocv.PutText(img, status, image.Pt(10, 20), gocv.FontHersheySimplex, 0.5, textColor, 1)
}
