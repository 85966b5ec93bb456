package capture

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	// activityBlurSize is the Gaussian kernel size used to suppress sensor noise.
	activityBlurSize = 21
	// activityDiffThreshold is the per-pixel intensity change counted as activity.
	activityDiffThreshold = 25
)

// Activity measures how much of the scene changed between consecutive frames.
// It is recorded next to each fan decision and never influences it.
type Activity struct {
	// prevGray is allocated by the first Measure and released by Close.
	prevGray    *gocv.Mat
	initialized bool
}

// NewActivity creates an Activity meter with no baseline frame.
func NewActivity() *Activity {
	return &Activity{}
}

// Measure returns the percentage (0-100) of pixels that changed since the
// previous frame. The first frame, and frames whose size differs from the
// baseline, only establish a new baseline and return 0.
func (a *Activity) Measure(frame *gocv.Mat) float64 {
	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: activityBlurSize, Y: activityBlurSize}, 0, 0, gocv.BorderDefault)

	if a.prevGray == nil {
		baseline := gocv.NewMat()
		a.prevGray = &baseline
	}

	if !a.initialized || blurred.Rows() != a.prevGray.Rows() || blurred.Cols() != a.prevGray.Cols() {
		blurred.CopyTo(a.prevGray)
		a.initialized = true
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, *a.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, activityDiffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()

	blurred.CopyTo(a.prevGray)

	if total == 0 {
		return 0
	}
	return float64(changed) / float64(total) * 100.0
}

// Close releases the baseline frame. The meter can be reused afterwards and
// starts again from a new baseline.
func (a *Activity) Close() {
	if a.prevGray != nil {
		a.prevGray.Close()
		a.prevGray = nil
	}
	a.initialized = false
}
