package detector

import "image"

// Detection is one raw row of the model output:
// [batch_id, class_id, confidence, x1, y1, x2, y2] with coordinates
// normalized to the frame dimensions.
type Detection struct {
	BatchID    int
	ClassID    int
	Confidence float64
	X1         float64
	Y1         float64
	X2         float64
	Y2         float64
}

// Denormalize converts the detection corners into a pixel box for a frame of
// the given size. Coordinates are truncated toward zero and never clipped, so
// boxes may extend past the frame or have negative origins.
func (d Detection) Denormalize(width, height int) Box {
	left := int(d.X1 * float64(width))
	top := int(d.Y1 * float64(height))
	right := int(d.X2 * float64(width))
	bottom := int(d.Y2 * float64(height))

	return Box{
		X:      left,
		Y:      top,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Box is a bounding box in pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area returns the box area. Degenerate boxes have zero area.
func (b Box) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// IoU returns the intersection-over-union ratio of two boxes.
// Two boxes that both have zero area count as fully overlapping (1), matching
// OpenCV's NMSBoxes. Otherwise boxes that do not overlap have an IoU of 0.
func IoU(a, b Box) float64 {
	if a.Area()+b.Area() == 0 {
		return 1
	}

	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)

	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	intersection := (x2 - x1) * (y2 - y1)
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Candidate is a person box that passed the confidence filter.
type Candidate struct {
	Box   Box
	Score float64
	// Index is the row of the detection in the model output.
	Index int
}
