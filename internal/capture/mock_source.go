package capture

import (
	"gocv.io/x/gocv"
)

// MockSource plays back pre-recorded frames for testing
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	running bool
	openErr error
	opens   int
	closes  int
}

func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

// SetOpenError makes Open fail with err
func (s *MockSource) SetOpenError(err error) {
	s.openErr = err
}

func (s *MockSource) Open() error {
	s.opens++
	if s.openErr != nil {
		return s.openErr
	}
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.closes++
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	if !s.running {
		return nil, ErrSourceNotOpen
	}

	if s.index >= len(s.frames) {
		if !s.loop || len(s.frames) == 0 {
			return nil, ErrEndOfStream
		}
		s.index = 0
	}

	// Clone the frame so the original isn't modified
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

func (s *MockSource) IsOpen() bool {
	return s.running
}

// Opens returns how many times Open was called
func (s *MockSource) Opens() int { return s.opens }

// Closes returns how many times Close was called
func (s *MockSource) Closes() int { return s.closes }

// Reset restarts playback from the beginning
func (s *MockSource) Reset() {
	s.index = 0
}
