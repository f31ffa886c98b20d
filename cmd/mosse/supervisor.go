package main

import (
	"image"
	"log"

	"github.com/LdDl/mosse-go/internal/psrplot"
	"github.com/LdDl/mosse-go/mosse"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// supervisor owns the frame loop: ingestion, selection, key commands and rendering.
type supervisor struct {
	tracker  *mosse.MultiTracker
	recorder *psrplot.Recorder
	width    int
	paused   bool
	frameNum int
	gray     *image.Gray
	states   map[uuid.UUID]mosse.State
}

func newSupervisor(cfg mosse.Config, width int) *supervisor {
	return &supervisor{
		tracker:  mosse.NewMultiTracker(cfg),
		recorder: psrplot.NewRecorder(cfg.PSRThreshold),
		width:    width,
		states:   make(map[uuid.UUID]mosse.State),
	}
}

func (sup *supervisor) run(capture *gocv.VideoCapture, window *gocv.Window) error {
	frame := gocv.NewMat()
	defer frame.Close()
	display := gocv.NewMat()
	defer display.Close()
	grayMat := gocv.NewMat()
	defer grayMat.Close()

	for first := true; ; first = false {
		if first || !sup.paused {
			if ok := capture.Read(&frame); !ok || frame.Empty() {
				log.Printf("end of stream after %d frames", sup.frameNum)
				return nil
			}
			sup.resize(frame, &display)
			gocv.CvtColor(display, &grayMat, gocv.ColorBGRToGray)
			gray, err := toGray(grayMat)
			if err != nil {
				return err
			}
			sup.gray = gray
			if err := sup.step(); err != nil {
				return err
			}
			sup.frameNum++
		}

		canvas := display.Clone()
		sup.draw(&canvas)
		window.IMShow(canvas)
		canvas.Close()

		switch key := window.WaitKey(10); key {
		case 'q':
			return nil
		case ' ':
			sup.paused = !sup.paused
		case 'r':
			sup.tracker.Reset()
			sup.states = make(map[uuid.UUID]mosse.State)
			log.Printf("targets cleared")
		case 's':
			sup.selectTarget(display)
		}
	}
}

// step updates every target on the current gray frame
func (sup *supervisor) step() error {
	// Results of targets that were updated are recorded even if another target failed
	results, updateErr := sup.tracker.Update(sup.gray)
	for id, res := range results {
		sup.recorder.Add(id, psrplot.Sample{
			Frame:      sup.frameNum,
			Confidence: res.Confidence,
			Lost:       res.State == mosse.StateLost,
		})
		if prev, ok := sup.states[id]; ok && prev != res.State {
			switch res.State {
			case mosse.StateLost:
				log.Printf("target %s lost at frame %d (PSR %.2f)", id, sup.frameNum, res.Confidence)
			case mosse.StateTracking:
				target, err := sup.tracker.Get(id)
				if err != nil {
					return errors.Wrapf(err, "frame %d", sup.frameNum)
				}
				log.Printf("target %s reacquired at frame %d (PSR %.2f, %.1f px from prediction)", id, sup.frameNum, res.Confidence, target.GetPredictionError())
			}
		}
		sup.states[id] = res.State
	}
	if updateErr != nil {
		return errors.Wrapf(updateErr, "frame %d", sup.frameNum)
	}
	return nil
}

func (sup *supervisor) selectTarget(display gocv.Mat) {
	wasPaused := sup.paused
	sup.paused = true
	defer func() { sup.paused = wasPaused }()

	rect := gocv.SelectROI(windowName, display)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		log.Printf("selection cancelled")
		return
	}
	id, err := sup.tracker.Add(sup.gray, rect)
	if err != nil {
		log.Printf("can't track selection %v: %v", rect, err)
		return
	}
	target, err := sup.tracker.Get(id)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	sup.states[id] = target.GetState()
	log.Printf("target %s created: template %dx%d, PSR %.2f", id, target.GetSize().Width, target.GetSize().Height, target.GetConfidence())
}

func (sup *supervisor) resize(src gocv.Mat, dst *gocv.Mat) {
	if sup.width <= 0 || src.Cols() == sup.width {
		src.CopyTo(dst)
		return
	}
	height := src.Rows() * sup.width / src.Cols()
	gocv.Resize(src, dst, image.Pt(sup.width, height), 0, 0, gocv.InterpolationLinear)
}

// toGray wraps single-channel Mat as *image.Gray
func toGray(mat gocv.Mat) (*image.Gray, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "Can't convert frame")
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, errors.Errorf("expected single-channel frame, got %T", img)
	}
	return gray, nil
}
