package mosse

import (
	"image"
	"runtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// MultiTracker holds independent correlation-filter targets.
// Targets share no state, so a frame is processed for all of them in parallel.
type MultiTracker struct {
	// Main storage
	Objects map[uuid.UUID]*Target
	// Configuration for newly added targets
	cfg Config
	// Max number of targets updated concurrently. Default is GOMAXPROCS
	maxWorkers int
}

// NewDefaultMultiTracker creates default instance of MultiTracker
func NewDefaultMultiTracker() *MultiTracker {
	return NewMultiTracker(DefaultConfig())
}

// NewMultiTracker creates new instance of MultiTracker
func NewMultiTracker(cfg Config) *MultiTracker {
	return &MultiTracker{
		Objects:    make(map[uuid.UUID]*Target),
		cfg:        cfg,
		maxWorkers: runtime.GOMAXPROCS(0),
	}
}

// Add creates target from selection on frame and registers it
func (tracker *MultiTracker) Add(frame *image.Gray, rect image.Rectangle) (uuid.UUID, error) {
	target, err := NewTargetWithConfig(frame, rect, tracker.cfg)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "Can't add target")
	}
	tracker.Objects[target.GetID()] = target
	return target.GetID(), nil
}

// Get returns registered target
func (tracker *MultiTracker) Get(id uuid.UUID) (*Target, error) {
	target, ok := tracker.Objects[id]
	if !ok {
		return nil, errors.Wrapf(ErrTargetNotFound, "id %s", id.String())
	}
	return target, nil
}

// Remove unregisters target
func (tracker *MultiTracker) Remove(id uuid.UUID) error {
	if _, ok := tracker.Objects[id]; !ok {
		return errors.Wrapf(ErrTargetNotFound, "id %s", id.String())
	}
	delete(tracker.Objects, id)
	return nil
}

// Reset drops every target
func (tracker *MultiTracker) Reset() {
	tracker.Objects = make(map[uuid.UUID]*Target)
}

// Len returns number of registered targets
func (tracker *MultiTracker) Len() int {
	return len(tracker.Objects)
}

// Update runs one Target.Update per registered target on frame.
// Lost targets are kept: they are reported in results and retried on the next frame.
// If some target fails, the first error is returned together with results of the
// targets that were updated: their state has advanced for this frame.
func (tracker *MultiTracker) Update(frame *image.Gray) (map[uuid.UUID]Result, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(tracker.Objects))
	targets := make([]*Target, 0, len(tracker.Objects))
	for id, target := range tracker.Objects {
		ids = append(ids, id)
		targets = append(targets, target)
	}
	results := make([]Result, len(targets))
	updated := make([]bool, len(targets))

	var group errgroup.Group
	group.SetLimit(max(tracker.maxWorkers, 1))
	for i := range targets {
		group.Go(func() error {
			res, err := targets[i].Update(frame)
			if err != nil {
				return errors.Wrapf(err, "Can't update target with id %s", ids[i].String())
			}
			results[i] = res
			updated[i] = true
			return nil
		})
	}
	err := group.Wait()

	out := make(map[uuid.UUID]Result, len(ids))
	for i, id := range ids {
		if updated[i] {
			out[id] = results[i]
		}
	}
	return out, err
}
