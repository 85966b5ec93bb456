package detector

import (
	"errors"
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// detectionFields is the width of one SSD output row.
const detectionFields = 7

// SSDEngine implements Engine with a MobileNet-SSD Caffe model run by the
// OpenCV DNN module.
type SSDEngine struct {
	net    gocv.Net
	config Config
}

// NewSSDEngine loads the model topology (.prototxt) and weights (.caffemodel).
// Missing files or an empty network are reported as ErrModelLoad.
func NewSSDEngine(prototxt, caffeModel string, config Config) (*SSDEngine, error) {
	for _, path := range []string{prototxt, caffeModel} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrModelLoad, err)
		}
	}

	net := gocv.ReadNetFromCaffe(prototxt, caffeModel)
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("%w: empty network from %s", ErrModelLoad, caffeModel)
	}

	return &SSDEngine{
		net:    net,
		config: config,
	}, nil
}

// Infer resizes the frame to the model input size, normalizes it and runs a
// forward pass.
func (e *SSDEngine) Infer(frame *gocv.Mat) ([]Detection, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("empty frame")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(*frame, &resized, e.config.InputSize, 0, 0, gocv.InterpolationLinear)

	mean := gocv.NewScalar(e.config.Mean, e.config.Mean, e.config.Mean, 0)
	blob := gocv.BlobFromImage(resized, e.config.ScaleFactor, e.config.InputSize, mean, false, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	prob := e.net.Forward("")
	defer prob.Close()

	return parseDetections(prob)
}

// Close releases the network.
func (e *SSDEngine) Close() error {
	return e.net.Close()
}

// parseDetections reads an (1, 1, N, 7) or (N, 7) float tensor into rows.
func parseDetections(prob gocv.Mat) ([]Detection, error) {
	sizes := prob.Size()
	if len(sizes) == 0 || sizes[len(sizes)-1] != detectionFields {
		return nil, fmt.Errorf("unexpected output shape %v", sizes)
	}

	// A frame with no detections yields a (1, 1, 0, 7) tensor.
	rows := prob.Total() / detectionFields
	if rows == 0 {
		return []Detection{}, nil
	}

	flat := prob.Reshape(1, rows)
	defer flat.Close()

	detections := make([]Detection, 0, rows)
	for i := 0; i < rows; i++ {
		detections = append(detections, Detection{
			BatchID:    int(flat.GetFloatAt(i, 0)),
			ClassID:    int(flat.GetFloatAt(i, 1)),
			Confidence: float64(flat.GetFloatAt(i, 2)),
			X1:         float64(flat.GetFloatAt(i, 3)),
			Y1:         float64(flat.GetFloatAt(i, 4)),
			X2:         float64(flat.GetFloatAt(i, 5)),
			Y2:         float64(flat.GetFloatAt(i, 6)),
		})
	}

	return detections, nil
}
