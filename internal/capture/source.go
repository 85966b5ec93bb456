// Package capture provides video frame sources using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"strconv"

	"gocv.io/x/gocv"
)

// DefaultInput is the first camera device.
const DefaultInput = "0"

// ReadFailureMessage is printed when the frame loop stops because no frame
// could be read.
const ReadFailureMessage = "Failed to grab frame or video ended"

var (
	// ErrVideoSource is returned when a video source cannot be opened.
	ErrVideoSource = errors.New("failed to open video source")

	// ErrSourceNotOpen is returned when trying to read from a source that is not open.
	ErrSourceNotOpen = errors.New("video source is not open")

	// ErrEndOfStream is returned when no further frame can be read. Stream end
	// and read errors are not distinguished.
	ErrEndOfStream = errors.New("failed to grab frame or video ended")
)

// Source defines the interface for video frame sources.
type Source interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller is responsible for closing it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// videoSource reads frames from a camera device or a video file.
type videoSource struct {
	input   string
	capture *gocv.VideoCapture
}

// NewVideoSource creates a Source for input, which is either a numeric
// device index such as "0" or a path to a video file.
func NewVideoSource(input string) Source {
	if input == "" {
		input = DefaultInput
	}
	return &videoSource{input: input}
}

// ParseInput returns the device index for inputs made only of ASCII digits
// and the path otherwise, in the form gocv.OpenVideoCapture expects. Signed
// or padded numbers such as "+1" or " 1" are paths.
func ParseInput(input string) interface{} {
	if !isDigits(input) {
		return input
	}
	if id, err := strconv.Atoi(input); err == nil {
		return id
	}
	return input
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Open opens the device or file. Failures wrap ErrVideoSource.
func (s *videoSource) Open() error {
	if s.capture != nil {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(ParseInput(s.input))
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrVideoSource, s.input, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w %q", ErrVideoSource, s.input)
	}

	s.capture = capture
	return nil
}

// Close releases the device or file. Closing a closed source is a no-op.
func (s *videoSource) Close() error {
	if s.capture == nil {
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	return err
}

// ReadFrame reads a single frame.
func (s *videoSource) ReadFrame() (*gocv.Mat, error) {
	if s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	return &mat, nil
}

// IsOpen returns true if the source is currently open.
func (s *videoSource) IsOpen() bool {
	return s.capture != nil
}

// String returns the configured input.
func (s *videoSource) String() string {
	return s.input
}
