// Package app runs the smart fan frame loop: capture, person detection, fan
// speed selection and rendering.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ayusman/smartfan/internal/capture"
	"github.com/ayusman/smartfan/internal/detector"
	"github.com/ayusman/smartfan/internal/fan"
	"github.com/ayusman/smartfan/internal/metrics"
	"github.com/ayusman/smartfan/internal/render"
	"github.com/ayusman/smartfan/internal/store"
)

// State is the lifecycle state of an App.
type State int

const (
	Initializing State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNoSource is returned by New when no video source is configured.
	ErrNoSource = errors.New("no video source configured")
	// ErrNoDetector is returned by New when neither a detector nor a loader is configured.
	ErrNoDetector = errors.New("no detector configured")
	// ErrAlreadyRun is returned when Run is called more than once.
	ErrAlreadyRun = errors.New("app already run")
)

// Recorder persists per-frame decisions. *store.Recorder implements it.
type Recorder interface {
	Record(frameIndex, persons int, speed fan.Speed, activity float64) error
	Finish(outcome string) error
}

// Actuator receives fan speed changes. *actuator.Hook implements it.
type Actuator interface {
	Apply(ctx context.Context, speed fan.Speed, persons int) (bool, error)
}

// Config holds the collaborators of an App. Source and one of Detector or
// LoadDetector are required; everything else is optional.
type Config struct {
	Source capture.Source
	// Detector is used as is when set.
	Detector detector.Detector
	// LoadDetector is called once the source is open when Detector is nil.
	LoadDetector func() (detector.Detector, error)

	Display  render.Display
	Out      io.Writer
	Logger   *zap.SugaredLogger
	Recorder Recorder
	Metrics  *metrics.Metrics
	Activity *capture.Activity
	Actuator Actuator
}

// App owns the frame loop and every resource it opens.
type App struct {
	config   Config
	detector detector.Detector

	mu      sync.RWMutex
	state   State
	frames  int
	speed   fan.Speed
	outcome string
}

// New validates config and returns an App in the Initializing state.
func New(config Config) (*App, error) {
	if config.Source == nil {
		return nil, ErrNoSource
	}
	if config.Detector == nil && config.LoadDetector == nil {
		return nil, ErrNoDetector
	}
	if config.Display == nil {
		config.Display = &render.Discard{}
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}

	return &App{
		config:   config,
		detector: config.Detector,
		state:    Initializing,
	}, nil
}

// Run opens the source, loads the detector if needed and processes frames
// until the stream ends, the user quits, ctx is cancelled or inference fails.
// Resources are released on every exit path. Reaching the end of the stream
// is a normal stop and returns nil.
func (a *App) Run(ctx context.Context) (err error) {
	a.mu.Lock()
	if a.state != Initializing {
		a.mu.Unlock()
		return ErrAlreadyRun
	}
	a.mu.Unlock()

	log := a.config.Logger
	outcome := store.OutcomeFailed

	defer func() {
		err = multierr.Append(err, a.release(outcome))
		a.setStopped(outcome)
		log.Infow("stopped", "outcome", outcome, "frames", a.Frames())
	}()

	if err := a.config.Source.Open(); err != nil {
		if !errors.Is(err, capture.ErrVideoSource) {
			err = fmt.Errorf("%w: %w", capture.ErrVideoSource, err)
		}
		return err
	}
	log.Infow("video source opened", "source", a.config.Source)

	if a.detector == nil {
		d, err := a.config.LoadDetector()
		if err != nil {
			return err
		}
		a.detector = d
		log.Info("person detector loaded")
	}

	a.setState(Running)

	outcome, err = a.loop(ctx)
	return err
}

// release closes everything the App owns. Release errors are combined.
func (a *App) release(outcome string) error {
	var err error

	err = multierr.Append(err, a.config.Source.Close())
	err = multierr.Append(err, a.config.Display.Close())
	if a.detector != nil {
		err = multierr.Append(err, a.detector.Close())
	}
	if a.config.Recorder != nil {
		err = multierr.Append(err, a.config.Recorder.Finish(outcome))
	}
	if a.config.Activity != nil {
		a.config.Activity.Close()
	}

	return err
}

func (a *App) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

func (a *App) setStopped(outcome string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = Stopped
	a.outcome = outcome
}

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Frames returns the number of frames processed so far.
func (a *App) Frames() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frames
}

// Speed returns the fan speed chosen for the latest frame.
func (a *App) Speed() fan.Speed {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.speed
}

// Outcome returns how the run ended, one of the store.Outcome* values. It is
// empty until the App is stopped.
func (a *App) Outcome() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.outcome
}
