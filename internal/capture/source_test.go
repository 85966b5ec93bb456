package capture

import (
	"errors"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  interface{}
	}{
		{name: "default device", input: "0", want: 0},
		{name: "second device", input: "1", want: 1},
		{name: "video file", input: "videos/room.mp4", want: "videos/room.mp4"},
		{name: "rtsp url", input: "rtsp://cam.local/stream", want: "rtsp://cam.local/stream"},
		{name: "negative is a path", input: "-1", want: "-1"},
		{name: "plus sign is a path", input: "+1", want: "+1"},
		{name: "leading space is a path", input: " 1", want: " 1"},
		{name: "leading zeros", input: "007", want: 7},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseInput(tt.input); got != tt.want {
				t.Errorf("ParseInput(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestNewVideoSource(t *testing.T) {
	src := NewVideoSource("")
	if src == nil {
		t.Fatal("NewVideoSource returned nil")
	}

	if src.IsOpen() {
		t.Error("source should not be open initially")
	}

	if vs, ok := src.(*videoSource); !ok || vs.String() != DefaultInput {
		t.Errorf("empty input should default to %q", DefaultInput)
	}
}

func TestVideoSource_ReadFrame_NotOpened(t *testing.T) {
	src := NewVideoSource("0")

	_, err := src.ReadFrame()
	if !errors.Is(err, ErrSourceNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrSourceNotOpen", err)
	}
}

func TestVideoSource_Close_NotOpened(t *testing.T) {
	src := NewVideoSource("0")

	// Close on a source that was never opened should not panic and return nil
	if err := src.Close(); err != nil {
		t.Errorf("Close() on not opened source should return nil, got: %v", err)
	}
}

func TestVideoSource_Open_MissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV video I/O")
	}

	src := NewVideoSource(filepath.Join(t.TempDir(), "missing.mp4"))

	err := src.Open()
	if !errors.Is(err, ErrVideoSource) {
		t.Fatalf("Open() error = %v, want ErrVideoSource", err)
	}
	if src.IsOpen() {
		t.Error("source should not be open after a failed Open()")
	}
}

func TestVideoSource_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	src := NewVideoSource("0")

	if err := src.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !src.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := src.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		}
		mat.Close()
	}

	if err := src.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if src.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestMockSource_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	src := NewMockSource([]*gocv.Mat{&frame1, &frame2}, false)

	if _, err := src.ReadFrame(); !errors.Is(err, ErrSourceNotOpen) {
		t.Errorf("ReadFrame() before Open() error = %v, want ErrSourceNotOpen", err)
	}

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for i := 0; i < 2; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	// Third read should end the stream (no loop)
	if _, err := src.ReadFrame(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("ReadFrame() error = %v, want ErrEndOfStream", err)
	}
}

func TestMockSource_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	src := NewMockSource([]*gocv.Mat{&frame}, true)
	src.Open()
	defer src.Close()

	for i := 0; i < 5; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockSource_OpenError(t *testing.T) {
	src := NewMockSource(nil, false)
	src.SetOpenError(ErrVideoSource)

	if err := src.Open(); !errors.Is(err, ErrVideoSource) {
		t.Errorf("Open() error = %v, want ErrVideoSource", err)
	}
	if src.IsOpen() {
		t.Error("source should not be open after a failed Open()")
	}
	if src.Opens() != 1 {
		t.Errorf("Opens() = %d, want 1", src.Opens())
	}
}
