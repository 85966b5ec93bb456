// Package render draws detection overlays and presents frames.
package render

import (
	"image"
	"image/color"

	"github.com/ayusman/smartfan/internal/detector"
	"github.com/ayusman/smartfan/internal/fan"
	"gocv.io/x/gocv"
)

// Overlay style, BGR frames are drawn with RGBA colours.
var (
	BoxColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	LabelColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

const (
	boxThickness   = 2
	labelScale     = 1.0
	labelThickness = 2
)

// LabelOrigin is the baseline position of the fan-speed label.
var LabelOrigin = image.Point{X: 10, Y: 30}

// Label returns the overlay text for a fan speed.
func Label(speed fan.Speed) string {
	return "Fan Speed: " + speed.String()
}

// Overlay draws every box and the fan-speed label onto frame in place.
func Overlay(frame *gocv.Mat, boxes []detector.Box, speed fan.Speed) {
	if frame == nil || frame.Empty() {
		return
	}

	for _, b := range boxes {
		gocv.Rectangle(frame, b.Rect(), BoxColor, boxThickness)
	}

	gocv.PutText(frame, Label(speed), LabelOrigin, gocv.FontHersheySimplex, labelScale, LabelColor, labelThickness)
}
