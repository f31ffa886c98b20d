package mosse

import "fmt"

// State classifies the confidence of the latest correlation.
// It is not a persisted mode: every frame is localized regardless of the previous state.
type State int

const (
	// StateTracking means the peak-to-sidelobe ratio met the threshold and the filter was updated
	StateTracking State = iota + 1
	// StateLost means the frame was rejected; center and filter were left untouched
	StateLost
)

func (s State) String() string {
	switch s {
	case StateTracking:
		return "TRACKING"
	case StateLost:
		return "LOST"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of one Target.Update call.
type Result struct {
	// Shift applied to the center this frame. Zero when the frame was rejected
	Displacement Point
	// Peak-to-sidelobe ratio of the correlation
	Confidence float64
	State      State
}
