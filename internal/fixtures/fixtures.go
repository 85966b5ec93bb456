// Package fixtures builds synthetic frames and matching raw detections for
// tests that run without a camera or model file.
package fixtures

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/smartfan/internal/detector"
)

// Default frame size of synthetic scenes.
const (
	Width  = 640
	Height = 480
)

var personColor = color.RGBA{R: 200, G: 180, B: 160, A: 0}

// Region is a person-shaped area in normalized [0,1] coordinates.
type Region struct {
	X1, Y1, X2, Y2 float64
	Confidence     float64
}

// Scene is a synthetic frame layout.
type Scene struct {
	Width, Height int
	People        []Region
}

// NewScene returns a Width x Height scene with the given people.
func NewScene(people ...Region) Scene {
	return Scene{Width: Width, Height: Height, People: people}
}

// Empty is a scene with nobody in it.
func Empty() Scene {
	return NewScene()
}

// ThreePeople is a scene with three separated people at confidence 0.9.
func ThreePeople() Scene {
	return NewScene(
		Region{X1: 0.05, Y1: 0.20, X2: 0.25, Y2: 0.90, Confidence: 0.9},
		Region{X1: 0.40, Y1: 0.15, X2: 0.60, Y2: 0.85, Confidence: 0.9},
		Region{X1: 0.75, Y1: 0.25, X2: 0.95, Y2: 0.95, Confidence: 0.9},
	)
}

// OverlappingPair is one person reported twice with IoU above 0.5.
func OverlappingPair() Scene {
	return NewScene(
		Region{X1: 0.30, Y1: 0.20, X2: 0.60, Y2: 0.80, Confidence: 0.9},
		Region{X1: 0.32, Y1: 0.22, X2: 0.62, Y2: 0.82, Confidence: 0.8},
	)
}

// Render draws the scene into a new BGR frame. The caller closes it.
func (s Scene) Render() gocv.Mat {
	frame := gocv.NewMatWithSize(s.Height, s.Width, gocv.MatTypeCV8UC3)
	for _, r := range s.People {
		gocv.Rectangle(&frame, s.rect(r), personColor, -1)
	}
	return frame
}

// Detections returns the raw detections an SSD network would report for the
// scene.
func (s Scene) Detections() []detector.Detection {
	dets := make([]detector.Detection, 0, len(s.People))
	for _, r := range s.People {
		dets = append(dets, detector.PersonAt(r.Confidence, r.X1, r.Y1, r.X2, r.Y2))
	}
	return dets
}

// Engine returns a detector engine that reports the scene's detections.
func (s Scene) Engine() *detector.StaticEngine {
	return detector.NewStaticEngine(s.Detections()...)
}

func (s Scene) rect(r Region) image.Rectangle {
	return image.Rect(
		int(r.X1*float64(s.Width)),
		int(r.Y1*float64(s.Height)),
		int(r.X2*float64(s.Width)),
		int(r.Y2*float64(s.Height)),
	)
}

// Frames renders n copies of the scene.
func (s Scene) Frames(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		f := s.Render()
		frames[i] = &f
	}
	return frames
}

// CloseAll closes every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		if f != nil {
			f.Close()
		}
	}
}
