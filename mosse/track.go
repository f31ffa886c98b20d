package mosse

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// motionTrack keeps history of accepted centers and a constant-velocity Kalman
// estimate of where the target is expected next. It never feeds back into the
// correlation filter's center.
type motionTrack struct {
	track           []Point
	maxTrackLen     int
	predictedCenter Point
	kf              *kalman_filter.Kalman2D
}

func newMotionTrack(center Point, maxTrackLen int) *motionTrack {
	/* Kalman filter props */
	dt := 1.0
	ux := 0.0
	uy := 0.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	kf := kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
	mt := motionTrack{
		track:           make([]Point, 0, maxTrackLen),
		maxTrackLen:     maxTrackLen,
		predictedCenter: center,
		kf:              kf,
	}
	mt.track = append(mt.track, center)
	return &mt
}

// predictNextPosition executes Kalman filter's prediction step
func (mt *motionTrack) predictNextPosition() {
	mt.kf.Predict()
	stateX, stateY := mt.kf.GetState()
	mt.predictedCenter.X = stateX
	mt.predictedCenter.Y = stateY
}

// accept corrects Kalman state with accepted center and appends it to the track
func (mt *motionTrack) accept(center Point) error {
	err := mt.kf.Update(center.X, center.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update motion filter")
	}
	mt.track = append(mt.track, center)
	if len(mt.track) > mt.maxTrackLen {
		mt.track = mt.track[1:]
	}
	return nil
}
