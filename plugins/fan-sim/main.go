// Package main provides a simulated fan actuator.
// It validates set-speed requests and records the last speed in a state file.
//
// The manifest expects the binary next to it. Build it with:
//
//	go build -o plugins/fan-sim/fan-sim ./plugins/fan-sim
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayusman/smartfan/internal/actuator"
	"github.com/ayusman/smartfan/internal/fan"
)

// stateEnv overrides the state file location.
const stateEnv = "FAN_SIM_STATE"

const defaultStateFile = "fan-state.json"

// State is the persisted simulated fan state.
type State struct {
	Speed     string    `json:"speed"`
	Level     int       `json:"level"`
	Persons   int       `json:"persons"`
	UpdatedAt time.Time `json:"updated_at"`
}

func main() {
	path := os.Getenv(stateEnv)
	if path == "" {
		path = defaultStateFile
	}

	resp := handle(os.Stdin, path, time.Now())
	json.NewEncoder(os.Stdout).Encode(resp)
}

// handle decodes one request from r and applies it to the state file.
func handle(r io.Reader, statePath string, now time.Time) actuator.Response {
	var req actuator.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return failure(fmt.Sprintf("failed to decode request: %v", err))
	}

	if req.Action != actuator.ActionSetSpeed {
		return failure(fmt.Sprintf("unknown action: %s", req.Action))
	}

	speed, ok := fan.Parse(req.Speed)
	if !ok {
		return failure(fmt.Sprintf("unknown speed: %q", req.Speed))
	}
	if speed.Level() != req.Level {
		return failure(fmt.Sprintf("level %d does not match speed %s", req.Level, speed))
	}

	state := State{Speed: speed.String(), Level: speed.Level(), Persons: req.Persons, UpdatedAt: now.UTC()}
	data, err := json.Marshal(state)
	if err != nil {
		return failure(err.Error())
	}
	if err := os.WriteFile(statePath, data, 0644); err != nil {
		return failure(fmt.Sprintf("failed to write state: %v", err))
	}

	fmt.Fprintf(os.Stderr, "fan-sim: speed %s (%d persons)\n", speed, req.Persons)
	return actuator.Response{Success: true}
}

func failure(msg string) actuator.Response {
	return actuator.Response{Success: false, Error: msg}
}
