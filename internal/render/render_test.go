package render

import (
	"testing"

	"github.com/ayusman/smartfan/internal/detector"
	"github.com/ayusman/smartfan/internal/fan"
	"gocv.io/x/gocv"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		speed fan.Speed
		want  string
	}{
		{fan.Off, "Fan Speed: Off"},
		{fan.Low, "Fan Speed: Low"},
		{fan.Medium, "Fan Speed: Medium"},
		{fan.High, "Fan Speed: High"},
	}

	for _, tt := range tests {
		if got := Label(tt.speed); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestOverlay_DrawsBoxes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	Overlay(&frame, []detector.Box{{X: 100, Y: 100, Width: 50, Height: 80}}, fan.Low)

	// Box outline is green in BGR order.
	px := frame.GetVecbAt(100, 120)
	if px[0] != 0 || px[1] != 255 || px[2] != 0 {
		t.Errorf("box edge pixel = %v, want green", px)
	}

	// Interior is untouched.
	px = frame.GetVecbAt(140, 125)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("box interior pixel = %v, want black", px)
	}
}

func TestOverlay_OutOfFrameBox(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// Unclipped boxes must be tolerated.
	Overlay(&frame, []detector.Box{{X: -20, Y: -10, Width: 200, Height: 300}}, fan.Low)
}

func TestOverlay_NilFrame(t *testing.T) {
	Overlay(nil, []detector.Box{{X: 0, Y: 0, Width: 1, Height: 1}}, fan.High)
}

func TestDiscard(t *testing.T) {
	var d Discard

	d.Show(nil)
	d.Show(nil)

	if d.Shown() != 2 {
		t.Errorf("Shown() = %d, want 2", d.Shown())
	}
	if d.QuitRequested() {
		t.Error("Discard should never request quit")
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	var _ Display = (*Discard)(nil)
	var _ Display = (*Window)(nil)
}

func TestWindow_OpensOnFirstShow(t *testing.T) {
	w := NewWindow(WindowTitle)

	if w.window != nil {
		t.Fatal("NewWindow() opened a window before any frame")
	}
	if w.title != WindowTitle {
		t.Errorf("title = %q, want %q", w.title, WindowTitle)
	}

	w.Show(nil)
	if w.window != nil {
		t.Error("Show(nil) opened a window")
	}
	if w.QuitRequested() {
		t.Error("QuitRequested() = true before the window is open")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
