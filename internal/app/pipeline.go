package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/smartfan/internal/capture"
	"github.com/ayusman/smartfan/internal/detector"
	"github.com/ayusman/smartfan/internal/fan"
	"github.com/ayusman/smartfan/internal/render"
	"github.com/ayusman/smartfan/internal/store"
)

// Decision is the outcome of processing one frame.
type Decision struct {
	Boxes     []detector.Box
	Persons   int
	Speed     fan.Speed
	Inference time.Duration
}

// Line is the per-frame report written to the output.
func (d Decision) Line() string {
	return fmt.Sprintf("Detected %d persons, Fan Speed: %s", d.Persons, d.Speed)
}

// Process detects persons in frame, picks the fan speed and draws the
// overlay onto frame in place.
func (a *App) Process(frame *gocv.Mat) (Decision, error) {
	if a.detector == nil {
		return Decision{}, ErrNoDetector
	}

	start := time.Now()
	boxes, err := a.detector.Detect(frame)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Boxes:     boxes,
		Persons:   len(boxes),
		Speed:     fan.FromCount(len(boxes)),
		Inference: time.Since(start),
	}

	render.Overlay(frame, d.Boxes, d.Speed)

	return d, nil
}

// loop runs frames until a stop condition and returns the run outcome.
//
// Each iteration:
// 1. Read a frame; any read failure ends the stream
// 2. Measure scene activity on the raw frame
// 3. Detect, map to a speed and draw the overlay
// 4. Report the decision to the output, history, metrics and actuator
// 5. Show the frame and poll for quit
func (a *App) loop(ctx context.Context) (string, error) {
	log := a.config.Logger

	for {
		if ctx.Err() != nil {
			log.Infow("run cancelled", "reason", ctx.Err())
			return store.OutcomeCancelled, nil
		}

		frame, err := a.config.Source.ReadFrame()
		if err != nil {
			log.Debugw("frame read failed", "error", err)
			fmt.Fprintln(a.config.Out, capture.ReadFailureMessage)
			return store.OutcomeEnded, nil
		}

		quit, err := a.step(ctx, frame)
		frame.Close()
		if err != nil {
			log.Errorw("frame processing failed", "frame", a.Frames(), "error", err)
			return store.OutcomeFailed, err
		}
		if quit {
			log.Info("quit requested")
			return store.OutcomeQuit, nil
		}
	}
}

// step handles one frame and reports whether the user asked to quit.
func (a *App) step(ctx context.Context, frame *gocv.Mat) (bool, error) {
	log := a.config.Logger

	var activity float64
	if a.config.Activity != nil {
		activity = a.config.Activity.Measure(frame)
	}

	d, err := a.Process(frame)
	if err != nil {
		return false, err
	}

	a.mu.Lock()
	index := a.frames
	a.frames++
	a.speed = d.Speed
	a.mu.Unlock()

	fmt.Fprintln(a.config.Out, d.Line())

	if a.config.Recorder != nil {
		if err := a.config.Recorder.Record(index, d.Persons, d.Speed, activity); err != nil {
			log.Warnw("failed to record decision", "frame", index, "error", err)
		}
	}
	if a.config.Metrics != nil {
		a.config.Metrics.ObserveFrame(d.Persons, d.Speed, d.Inference)
	}
	if a.config.Actuator != nil {
		sent, err := a.config.Actuator.Apply(ctx, d.Speed, d.Persons)
		if err != nil {
			log.Warnw("actuator failed", "speed", d.Speed, "error", err)
		} else if sent {
			log.Debugw("actuator updated", "speed", d.Speed, "persons", d.Persons)
		}
	}

	a.config.Display.Show(frame)
	return a.config.Display.QuitRequested(), nil
}
