package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	boxes  []Box
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetBoxes sets the boxes that will be returned by Detect.
func (m *MockDetector) SetBoxes(boxes []Box) {
	m.boxes = boxes
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured boxes or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Box, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.boxes, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// StaticEngine is an Engine returning canned raw detections, so the real
// filtering and suppression run without a model file.
type StaticEngine struct {
	detections []Detection
	err        error
	closed     bool
}

// NewStaticEngine creates an engine that always returns detections.
func NewStaticEngine(detections ...Detection) *StaticEngine {
	return &StaticEngine{detections: detections}
}

// SetDetections replaces the canned detections.
func (e *StaticEngine) SetDetections(detections ...Detection) {
	e.detections = detections
}

// SetError makes Infer fail with err.
func (e *StaticEngine) SetError(err error) {
	e.err = err
}

// Infer returns the canned detections or error.
func (e *StaticEngine) Infer(frame *gocv.Mat) ([]Detection, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.detections, nil
}

// Closed reports whether Close was called.
func (e *StaticEngine) Closed() bool {
	return e.closed
}

// Close marks the engine as closed.
func (e *StaticEngine) Close() error {
	e.closed = true
	return nil
}

// PersonAt returns a person detection covering the given normalized corners.
func PersonAt(confidence, x1, y1, x2, y2 float64) Detection {
	return Detection{
		ClassID:    DefaultConfig().PersonClassID,
		Confidence: confidence,
		X1:         x1,
		Y1:         y1,
		X2:         x2,
		Y2:         y2,
	}
}
