// Package detector provides person detection on video frames.
package detector

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

var (
	// ErrModelLoad is returned when the detection model cannot be loaded.
	ErrModelLoad = errors.New("failed to load model")

	// ErrInference is returned when running the model on a frame fails.
	ErrInference = errors.New("inference failed")
)

// Detector defines the interface for person detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns non-overlapping person boxes
	// in pixel coordinates. Returns an empty slice if nobody is detected.
	Detect(frame *gocv.Mat) ([]Box, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Engine runs the raw detection model on a frame.
type Engine interface {
	// Infer returns every raw detection row produced by the model.
	Infer(frame *gocv.Mat) ([]Detection, error)

	// Close releases the model.
	Close() error
}

// Config holds configuration options for person detection.
type Config struct {
	// ConfidenceThreshold is the score a detection must exceed (0.0-1.0).
	ConfidenceThreshold float64

	// NMSThreshold is the maximum IoU allowed between two kept boxes (0.0-1.0).
	NMSThreshold float64

	// InputSize is the fixed input resolution of the model.
	InputSize image.Point

	// ScaleFactor multiplies every pixel value after mean subtraction.
	ScaleFactor float64

	// Mean is subtracted from every channel before scaling.
	Mean float64

	// PersonClassID is the label index of "person" in the model's schema.
	PersonClassID int
}

// DefaultConfig returns the settings of the MobileNet-SSD Caffe model.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.5,
		InputSize:           image.Point{X: 300, Y: 300},
		ScaleFactor:         0.007843,
		Mean:                127.5,
		PersonClassID:       1,
	}
}

// Validate reports whether both thresholds lie in [0, 1].
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %v out of range [0,1]", c.ConfidenceThreshold)
	}
	if c.NMSThreshold < 0 || c.NMSThreshold > 1 {
		return fmt.Errorf("nms threshold %v out of range [0,1]", c.NMSThreshold)
	}
	if c.InputSize.X <= 0 || c.InputSize.Y <= 0 {
		return fmt.Errorf("invalid input size %v", c.InputSize)
	}
	return nil
}

// PersonDetector runs an Engine and reduces its output to person boxes.
type PersonDetector struct {
	engine Engine
	config Config
}

// NewPersonDetector creates a PersonDetector backed by the given engine.
func NewPersonDetector(engine Engine, config Config) *PersonDetector {
	return &PersonDetector{
		engine: engine,
		config: config,
	}
}

// Load reads a MobileNet-SSD Caffe model and returns a detector for it.
// Any failure wraps ErrModelLoad.
func Load(prototxt, caffeModel string, config Config) (*PersonDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
	}

	engine, err := NewSSDEngine(prototxt, caffeModel, config)
	if err != nil {
		return nil, err
	}

	return NewPersonDetector(engine, config), nil
}

// Detect runs inference on the frame, keeps confident person detections and
// suppresses overlapping ones.
func (d *PersonDetector) Detect(frame *gocv.Mat) ([]Box, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrInference)
	}

	detections, err := d.engine.Infer(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	return d.Postprocess(detections, frame.Cols(), frame.Rows()), nil
}

// Postprocess filters raw detections for a frame of the given size and
// applies non-max suppression.
func (d *PersonDetector) Postprocess(detections []Detection, width, height int) []Box {
	candidates := FilterPersons(detections, width, height, d.config)
	return Suppress(candidates, d.config.NMSThreshold)
}

// Config returns the detector configuration.
func (d *PersonDetector) Config() Config {
	return d.config
}

// Close releases the underlying engine.
func (d *PersonDetector) Close() error {
	if d.engine == nil {
		return nil
	}
	return d.engine.Close()
}
