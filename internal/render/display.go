package render

import (
	"gocv.io/x/gocv"
)

// WindowTitle is the title of the simulation window.
const WindowTitle = "Smart Fan Simulation"

// quitKey stops the simulation when pressed in the window.
const quitKey = 'q'

// Display presents rendered frames and reports user quit requests.
type Display interface {
	Show(frame *gocv.Mat)
	// QuitRequested polls for a quit signal once. It must be called after Show.
	QuitRequested() bool
	Close() error
}

// Window displays frames in a HighGUI window. The window is opened by the
// first Show, so a run that fails before its first frame never opens one.
type Window struct {
	title  string
	window *gocv.Window
}

// NewWindow returns a Window with the given title.
func NewWindow(title string) *Window {
	return &Window{title: title}
}

// Show draws frame in the window, opening it if needed.
func (w *Window) Show(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	if w.window == nil {
		w.window = gocv.NewWindow(w.title)
	}
	w.window.IMShow(*frame)
}

// QuitRequested waits one millisecond for a key press and reports whether it
// was the quit key. It is false until the window has been opened.
func (w *Window) QuitRequested() bool {
	if w.window == nil {
		return false
	}
	key := w.window.WaitKey(1)
	return key >= 0 && key&0xFF == quitKey
}

// Close destroys the window if it was opened.
func (w *Window) Close() error {
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}

// Discard is a Display for headless runs. It drops frames and never asks to
// quit.
type Discard struct {
	shown int
}

// Show counts the frame and drops it.
func (d *Discard) Show(frame *gocv.Mat) {
	d.shown++
}

// QuitRequested always returns false.
func (d *Discard) QuitRequested() bool {
	return false
}

// Close is a no-op.
func (d *Discard) Close() error {
	return nil
}

// Shown returns the number of frames passed to Show.
func (d *Discard) Shown() int {
	return d.shown
}
