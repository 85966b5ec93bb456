package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/smartfan/internal/actuator"
	"github.com/ayusman/smartfan/internal/app"
	"github.com/ayusman/smartfan/internal/capture"
	"github.com/ayusman/smartfan/internal/detector"
	"github.com/ayusman/smartfan/internal/fixtures"
	"github.com/ayusman/smartfan/internal/metrics"
	"github.com/ayusman/smartfan/internal/render"
	"github.com/ayusman/smartfan/internal/store"
)

// sceneEngine reports the detections of one scene per frame, in order.
type sceneEngine struct {
	scenes []fixtures.Scene
	next   int
}

func (e *sceneEngine) Infer(frame *gocv.Mat) ([]detector.Detection, error) {
	s := e.scenes[e.next%len(e.scenes)]
	e.next++
	return s.Detections(), nil
}

func (e *sceneEngine) Close() error { return nil }

func TestE2E_CompleteRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("actuator script needs a POSIX shell")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "history.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	rec, err := store.NewRecorder(s, "synthetic")
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	// Actuator that appends every request it receives.
	actDir := filepath.Join(tmpDir, "fan")
	if err := os.MkdirAll(actDir, 0755); err != nil {
		t.Fatalf("failed to create actuator dir: %v", err)
	}
	script := "#!/bin/sh\ncat >> requests.log\necho >> requests.log\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(actDir, "fan.sh"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write actuator: %v", err)
	}
	manifest := `{"name":"e2e-fan","version":"1.0.0","executable":"fan.sh"}`
	if err := os.WriteFile(filepath.Join(actDir, actuator.ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	act, err := actuator.Load(actDir)
	if err != nil {
		t.Fatalf("actuator.Load() error = %v", err)
	}

	scenes := []fixtures.Scene{
		fixtures.Empty(),
		fixtures.OverlappingPair(),
		fixtures.ThreePeople(),
		fixtures.ThreePeople(),
	}
	var frames []*gocv.Mat
	for _, sc := range scenes {
		frames = append(frames, sc.Frames(1)...)
	}
	defer fixtures.CloseAll(frames)

	m := metrics.New()
	display := &render.Discard{}
	var out bytes.Buffer

	a, err := app.New(app.Config{
		Source:   capture.NewMockSource(frames, false),
		Detector: detector.NewPersonDetector(&sceneEngine{scenes: scenes}, detector.DefaultConfig()),
		Display:  display,
		Out:      &out,
		Logger:   zap.NewNop().Sugar(),
		Recorder: rec,
		Metrics:  m,
		Activity: capture.NewActivity(),
		Actuator: actuator.NewHook(act, actuator.NewExecutor(5*time.Second)),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	t.Run("Output", func(t *testing.T) {
		want := []string{
			"Detected 0 persons, Fan Speed: Off",
			"Detected 1 persons, Fan Speed: Low",
			"Detected 3 persons, Fan Speed: High",
			"Detected 3 persons, Fan Speed: High",
			capture.ReadFailureMessage,
		}
		got := strings.Split(strings.TrimSpace(out.String()), "\n")
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("output =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
		}
		if display.Shown() != 4 {
			t.Errorf("display shown %d frames, want 4", display.Shown())
		}
	})

	t.Run("History", func(t *testing.T) {
		run, err := s.Runs().GetByID(rec.RunID())
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if run.Frames != 4 || run.Outcome != store.OutcomeEnded || run.EndedAt == nil {
			t.Errorf("run = %+v", run)
		}

		counts, err := s.Decisions().CountBySpeed(rec.RunID())
		if err != nil {
			t.Fatalf("CountBySpeed() error = %v", err)
		}
		if counts["Off"] != 1 || counts["Low"] != 1 || counts["High"] != 2 {
			t.Errorf("counts = %v", counts)
		}

		decisions, err := s.Decisions().ListByRun(rec.RunID())
		if err != nil {
			t.Fatalf("ListByRun() error = %v", err)
		}
		// The first frame is the activity baseline, the next one adds people.
		if len(decisions) != 4 || decisions[0].Activity != 0 || decisions[1].Activity <= 0 {
			t.Errorf("decisions = %+v", decisions)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		if got := testutil.ToFloat64(m.Frames); got != 4 {
			t.Errorf("frames metric = %v, want 4", got)
		}
		if got := testutil.ToFloat64(m.SpeedLvl); got != 3 {
			t.Errorf("speed level = %v, want 3", got)
		}
	})

	t.Run("Actuator", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(actDir, "requests.log"))
		if err != nil {
			t.Fatalf("failed to read requests: %v", err)
		}

		var speeds []string
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if line == "" {
				continue
			}
			var req actuator.Request
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				t.Fatalf("bad request line %q: %v", line, err)
			}
			speeds = append(speeds, req.Speed)
		}

		// The repeated High frame is not sent again.
		if strings.Join(speeds, ",") != "Off,Low,High" {
			t.Errorf("actuator speeds = %v, want Off,Low,High", speeds)
		}
	})
}
