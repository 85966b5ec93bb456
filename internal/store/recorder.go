package store

import (
	"github.com/ayusman/smartfan/internal/fan"
)

// Recorder appends the decisions of a single run.
type Recorder struct {
	store  *Store
	run    *Run
	frames int
}

// NewRecorder starts a new run for source.
func NewRecorder(s *Store, source string) (*Recorder, error) {
	run, err := s.Runs().Create(source)
	if err != nil {
		return nil, err
	}

	return &Recorder{store: s, run: run}, nil
}

// RunID returns the identifier of the run being recorded.
func (r *Recorder) RunID() string {
	return r.run.ID
}

// Record stores the decision made for a frame.
func (r *Recorder) Record(frameIndex, persons int, speed fan.Speed, activity float64) error {
	err := r.store.Decisions().Create(&Decision{
		RunID:       r.run.ID,
		FrameIndex:  frameIndex,
		PersonCount: persons,
		FanSpeed:    speed.String(),
		Activity:    activity,
	})
	if err != nil {
		return err
	}

	r.frames++
	return nil
}

// Finish closes the run with the given outcome.
func (r *Recorder) Finish(outcome string) error {
	return r.store.Runs().Finish(r.run.ID, r.frames, outcome)
}
