package mosse

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Target is a single object tracked by adaptive MOSSE correlation filter.
// Template size is fixed for its lifetime; center is the only mutable location state.
// A Target must not be updated from several goroutines at once.
type Target struct {
	id  uuid.UUID
	cfg Config

	size     Size
	center   Point
	spectrum *spectrum2D

	window          *mat.Dense
	desired         *mat.Dense
	desiredSpectrum *mat.CDense

	// Accumulators and the composite filter derived from them
	numerator   *mat.CDense
	denominator *mat.CDense
	filter      *mat.CDense

	lastConfidence float64
	state          State
	response       *mat.Dense
	motion         *motionTrack
}

// NewTarget creates target with default configuration.
func NewTarget(frame *image.Gray, rect image.Rectangle) (*Target, error) {
	return NewTargetWithConfig(frame, rect, DefaultConfig())
}

// NewTargetWithConfig builds the initial filter from rect on frame and runs one
// localization and update pass against the same frame.
// rect.Min is (x0, y0), rect.Max is (x1, y1).
func NewTargetWithConfig(frame *image.Gray, rect image.Rectangle, cfg Config) (*Target, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't create target")
	}
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, errors.Wrapf(ErrInvalidRegion, "selection %v has no area", rect)
	}

	size := Size{Width: optimalSize(rect.Dx()), Height: optimalSize(rect.Dy())}
	// Keep the selection's center and grow symmetrically to the optimal size
	left := floorDiv(rect.Min.X+rect.Max.X-size.Width, 2)
	top := floorDiv(rect.Min.Y+rect.Max.Y-size.Height, 2)
	area := image.Rect(left, top, left+size.Width, top+size.Height)
	if !area.In(frame.Bounds()) {
		return nil, errors.Wrapf(ErrInvalidRegion, "template %v does not fit frame %v", area, frame.Bounds())
	}
	center := Point{
		X: float64(left) + 0.5*float64(size.Width-1),
		Y: float64(top) + 0.5*float64(size.Height-1),
	}

	target := Target{
		id:       uuid.New(),
		cfg:      cfg,
		size:     size,
		center:   center,
		spectrum: newSpectrum2D(size),
		window:   hannWindow(size),
		desired:  desiredResponse(size, cfg.GaussianSigma),
		state:    StateTracking,
		motion:   newMotionTrack(center, cfg.MaxTrackLen),
	}
	target.desiredSpectrum = target.spectrum.forward(target.desired)

	err := target.initFilter(frame)
	if err != nil {
		return nil, errors.Wrap(err, "Can't initialize filter")
	}
	_, err = target.Update(frame)
	if err != nil {
		return nil, errors.Wrap(err, "Can't settle filter on reference frame")
	}
	return &target, nil
}

// initFilter averages observation terms over the reference patch and
// cfg.InitWarps random affine perturbations of it.
func (target *Target) initFilter(frame *image.Gray) error {
	reference := extractPatch(frame, target.center, target.size)
	rnd := rand.New(rand.NewPCG(target.cfg.Seed, uint64(target.size.Width)<<32|uint64(target.size.Height)))
	rows, cols := target.size.Height, target.size.Width
	numerator := mat.NewCDense(rows, cols, nil)
	denominator := mat.NewCDense(rows, cols, nil)
	samples := target.cfg.InitWarps + 1
	for i := 0; i < samples; i++ {
		sample := reference
		if i > 0 {
			sample = randomWarp(reference, target.cfg.WarpCoef, rnd)
		}
		obsNumerator, obsDenominator := target.observe(sample)
		accumulate(numerator, obsNumerator)
		accumulate(denominator, obsDenominator)
	}
	scaleSpectrum(numerator, 1/float64(samples))
	scaleSpectrum(denominator, 1/float64(samples))

	filter, err := filterFrom(numerator, denominator, target.cfg.Epsilon)
	if err != nil {
		return err
	}
	target.numerator = numerator
	target.denominator = denominator
	target.filter = filter
	return nil
}

// observe returns observation terms G*conj(F) and F*conj(F) for raw patch
func (target *Target) observe(raw *mat.Dense) (*mat.CDense, *mat.CDense) {
	patchSpectrum := target.spectrum.forward(preprocess(raw, target.window, target.cfg.Epsilon))
	obsNumerator := mulSpectrums(target.desiredSpectrum, patchSpectrum, true)
	obsDenominator := mulSpectrums(patchSpectrum, patchSpectrum, true)
	return obsNumerator, obsDenominator
}

// localization is the result of correlating the current filter at the current center.
type localization struct {
	correlation
	center Point
}

// localize correlates filter against the patch at the current center.
// It reads target state only.
func (target *Target) localize(frame *image.Gray) localization {
	patch := preprocess(extractPatch(frame, target.center, target.size), target.window, target.cfg.Epsilon)
	corr := target.spectrum.correlate(target.spectrum.forward(patch), target.filter, target.cfg.SidelobeRadius, target.cfg.Epsilon)
	return localization{
		correlation: corr,
		center:      target.center.Add(corr.delta),
	}
}

// spectra is a consistent set of accumulators with the filter derived from them.
type spectra struct {
	numerator   *mat.CDense
	denominator *mat.CDense
	filter      *mat.CDense
}

// learn blends the observation at center into copies of the accumulators.
// It reads target state only.
func (target *Target) learn(frame *image.Gray, center Point) (spectra, error) {
	obsNumerator, obsDenominator := target.observe(extractPatch(frame, center, target.size))
	rate := target.cfg.LearningRate
	numerator := blendSpectrums(obsNumerator, target.numerator, rate)
	denominator := blendSpectrums(obsDenominator, target.denominator, rate)
	filter, err := filterFrom(numerator, denominator, target.cfg.Epsilon)
	if err != nil {
		return spectra{}, err
	}
	return spectra{numerator: numerator, denominator: denominator, filter: filter}, nil
}

// Update localizes target on frame and, if confident, moves the center and
// adapts the filter toward the patch at the new center. A rejected frame
// leaves center and filter untouched and is reported as StateLost, not as error.
func (target *Target) Update(frame *image.Gray) (Result, error) {
	if err := checkFrame(frame); err != nil {
		return Result{}, err
	}
	target.motion.predictNextPosition()

	loc := target.localize(frame)
	target.lastConfidence = loc.psr
	target.response = loc.response
	if loc.psr < target.cfg.PSRThreshold {
		target.state = StateLost
		return Result{Confidence: loc.psr, State: StateLost}, nil
	}

	learned, err := target.learn(frame, loc.center)
	if err != nil {
		return Result{Confidence: loc.psr, State: target.state}, errors.Wrap(err, "Can't update filter")
	}
	target.center = loc.center
	target.numerator = learned.numerator
	target.denominator = learned.denominator
	target.filter = learned.filter
	target.state = StateTracking

	res := Result{Displacement: loc.delta, Confidence: loc.psr, State: StateTracking}
	err = target.motion.accept(target.center)
	if err != nil {
		return res, err
	}
	return res, nil
}

// GetID returns target's identifier
func (target *Target) GetID() uuid.UUID {
	return target.id
}

// GetCenter returns center of the template in frame coordinates
func (target *Target) GetCenter() Point {
	return target.center
}

// GetSize returns template size
func (target *Target) GetSize() Size {
	return target.size
}

// GetBBox returns box covered by the template
func (target *Target) GetBBox() Rectangle {
	return Rectangle{
		X:      target.center.X - 0.5*float64(target.size.Width-1),
		Y:      target.center.Y - 0.5*float64(target.size.Height-1),
		Width:  float64(target.size.Width),
		Height: float64(target.size.Height),
	}
}

// GetConfidence returns peak-to-sidelobe ratio of the latest correlation
func (target *Target) GetConfidence() float64 {
	return target.lastConfidence
}

// GetState returns classification of the latest correlation
func (target *Target) GetState() State {
	return target.state
}

// GetTrack returns accepted centers. Be careful: this is not copy of track, but reference to it
func (target *Target) GetTrack() []Point {
	return target.motion.track
}

// GetMaxTrackLen returns target's max track length
func (target *Target) GetMaxTrackLen() int {
	return target.motion.maxTrackLen
}

// SetMaxTrackLen sets target's max track length
func (target *Target) SetMaxTrackLen(newMaxTrackLen int) {
	target.motion.maxTrackLen = newMaxTrackLen
}

// GetPredictedCenter returns where the motion model expects the target on the latest frame
func (target *Target) GetPredictedCenter() Point {
	return target.motion.predictedCenter
}

// GetPredictionError returns distance between the current center and the motion model's prediction
func (target *Target) GetPredictionError() float64 {
	return euclideanDistance(target.center, target.motion.predictedCenter)
}

// Response returns copy of the latest correlation surface, or nil before the first correlation
func (target *Target) Response() *mat.Dense {
	if target.response == nil {
		return nil
	}
	return mat.DenseCopyOf(target.response)
}

func checkFrame(frame *image.Gray) error {
	if frame == nil {
		return errors.Wrap(ErrInvalidFrame, "frame is nil")
	}
	if frame.Rect.Empty() {
		return errors.Wrapf(ErrInvalidFrame, "frame %v is empty", frame.Rect)
	}
	return nil
}

func floorDiv(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}
