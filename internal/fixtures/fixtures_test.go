package fixtures

import (
	"testing"

	"github.com/ayusman/smartfan/internal/detector"
)

func TestThreePeople_Detections(t *testing.T) {
	dets := ThreePeople().Detections()
	if len(dets) != 3 {
		t.Fatalf("got %d detections, want 3", len(dets))
	}
	for i, d := range dets {
		if d.ClassID != detector.DefaultConfig().PersonClassID || d.Confidence != 0.9 {
			t.Errorf("detection %d = %+v", i, d)
		}
	}

	boxes := detector.NewPersonDetector(ThreePeople().Engine(), detector.DefaultConfig()).
		Postprocess(dets, Width, Height)
	if len(boxes) != 3 {
		t.Errorf("separated people should survive suppression, got %d boxes", len(boxes))
	}
}

func TestOverlappingPair_IoU(t *testing.T) {
	s := OverlappingPair()
	a := s.Detections()[0].Denormalize(s.Width, s.Height)
	b := s.Detections()[1].Denormalize(s.Width, s.Height)

	if iou := detector.IoU(a, b); iou <= 0.5 {
		t.Errorf("IoU = %f, want > 0.5", iou)
	}
}

func TestRender(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := ThreePeople().Render()
	defer frame.Close()

	if frame.Cols() != Width || frame.Rows() != Height {
		t.Errorf("frame size = %dx%d", frame.Cols(), frame.Rows())
	}

	// Centre of the first person is filled, a corner is background.
	if px := frame.GetVecbAt(Height/2, Width/10); px[0] == 0 {
		t.Errorf("person pixel = %v, want filled", px)
	}
	if px := frame.GetVecbAt(2, 2); px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("background pixel = %v, want black", px)
	}
}

func TestFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frames := Empty().Frames(3)
	defer CloseAll(frames)

	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	for _, f := range frames {
		if f.Empty() {
			t.Error("frame should not be empty")
		}
	}
}
