// Package main is the smartfan command: it watches a video stream, counts
// people and simulates the matching fan speed.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ayusman/smartfan/internal/actuator"
	"github.com/ayusman/smartfan/internal/app"
	"github.com/ayusman/smartfan/internal/capture"
	"github.com/ayusman/smartfan/internal/detector"
	"github.com/ayusman/smartfan/internal/logging"
	"github.com/ayusman/smartfan/internal/metrics"
	"github.com/ayusman/smartfan/internal/render"
	"github.com/ayusman/smartfan/internal/store"
)

const (
	// Flags.
	flagInput       = "input"
	flagPrototxt    = "prototxt"
	flagModel       = "model"
	flagHeadless    = "headless"
	flagHistory     = "history"
	flagMetricsAddr = "metrics-addr"
	flagActuator    = "actuator"
	flagDebug       = "debug"

	defaultPrototxt = "models/MobileNetSSD_deploy.prototxt"
	defaultModel    = "models/MobileNetSSD_deploy.caffemodel"
)

// options is the parsed command line.
type options struct {
	Input       string
	Prototxt    string
	Model       string
	Headless    bool
	History     string
	MetricsAddr string
	Actuator    string
	Debug       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	execute(ctx, os.Args, os.Stdout)
}

// execute runs the command line in args. Failures are reported on stdout
// next to the per-frame lines and the process still exits normally.
func execute(ctx context.Context, args []string, stdout io.Writer) {
	cliApp := newCLI()
	cliApp.Writer = stdout
	if err := cliApp.RunContext(ctx, args); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
	}
}

func newCLI() *cli.App {
	var logger *zap.SugaredLogger

	return &cli.App{
		Name:  "smartfan",
		Usage: "simulate a fan that follows the number of people on camera",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagInput,
				Aliases: []string{"i"},
				Value:   capture.DefaultInput,
				Usage:   "video file `PATH` or camera device index",
				EnvVars: []string{"SMARTFAN_INPUT"},
			},
			&cli.StringFlag{
				Name:    flagPrototxt,
				Value:   defaultPrototxt,
				Usage:   "MobileNet-SSD topology `FILE`",
				EnvVars: []string{"SMARTFAN_PROTOTXT"},
			},
			&cli.StringFlag{
				Name:    flagModel,
				Value:   defaultModel,
				Usage:   "MobileNet-SSD weights `FILE`",
				EnvVars: []string{"SMARTFAN_MODEL"},
			},
			&cli.BoolFlag{
				Name:    flagHeadless,
				Usage:   "run without a window, stop with Ctrl-C",
				EnvVars: []string{"SMARTFAN_HEADLESS"},
			},
			&cli.StringFlag{
				Name:    flagHistory,
				Usage:   "record runs and decisions in the sqlite `FILE`",
				EnvVars: []string{"SMARTFAN_HISTORY"},
			},
			&cli.StringFlag{
				Name:    flagMetricsAddr,
				Usage:   "serve Prometheus metrics on `ADDR`",
				EnvVars: []string{"SMARTFAN_METRICS_ADDR"},
			},
			&cli.StringFlag{
				Name:    flagActuator,
				Usage:   "actuator `DIR` holding actuator.json",
				EnvVars: []string{"SMARTFAN_ACTUATOR"},
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Usage:   "enable debug logging",
				EnvVars: []string{"SMARTFAN_DEBUG"},
			},
		},
		Before: func(c *cli.Context) error {
			l, err := logging.New("smartfan", c.Bool(flagDebug))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				logger.Sync()
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, optionsFrom(c), logger)
		},
	}
}

func optionsFrom(c *cli.Context) options {
	return options{
		Input:       c.String(flagInput),
		Prototxt:    c.String(flagPrototxt),
		Model:       c.String(flagModel),
		Headless:    c.Bool(flagHeadless),
		History:     c.String(flagHistory),
		MetricsAddr: c.String(flagMetricsAddr),
		Actuator:    c.String(flagActuator),
		Debug:       c.Bool(flagDebug),
	}
}

// run wires the collaborators described by opts and runs the frame loop.
func run(ctx context.Context, opts options, logger *zap.SugaredLogger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	config := app.Config{
		Source: capture.NewVideoSource(opts.Input),
		LoadDetector: func() (detector.Detector, error) {
			return detector.Load(opts.Prototxt, opts.Model, detector.DefaultConfig())
		},
		Out:    os.Stdout,
		Logger: logger,
	}

	if opts.History != "" {
		st, err := store.New(opts.History)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := store.NewRecorder(st, opts.Input)
		if err != nil {
			return err
		}
		config.Recorder = rec
		config.Activity = capture.NewActivity()
		logger.Infow("recording history", "path", opts.History, "run", rec.RunID())
	}

	if opts.MetricsAddr != "" {
		m := metrics.New()
		config.Metrics = m
		go func() {
			if err := m.Serve(ctx, opts.MetricsAddr); err != nil {
				logger.Errorw("metrics listener failed", "addr", opts.MetricsAddr, "error", err)
			}
		}()
		logger.Infow("serving metrics", "addr", opts.MetricsAddr)
	}

	if opts.Actuator != "" {
		act, err := actuator.Load(opts.Actuator)
		if err != nil {
			logger.Warnw("actuator disabled", "dir", opts.Actuator, "error", err)
		} else {
			config.Actuator = actuator.NewHook(act, actuator.NewExecutor(actuator.DefaultTimeout))
			logger.Infow("actuator loaded", "name", act.Manifest.Name, "version", act.Manifest.Version)
		}
	}

	if opts.Headless {
		config.Display = &render.Discard{}
	} else {
		config.Display = render.NewWindow(render.WindowTitle)
	}

	a, err := app.New(config)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}
