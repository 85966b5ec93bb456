package actuator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayusman/smartfan/internal/fan"
)

// ErrRejected is returned when the actuator answers with success=false.
var ErrRejected = errors.New("actuator rejected request")

// Hook forwards fan speed changes to an actuator. Repeated speeds are not
// sent again.
type Hook struct {
	actuator *Actuator
	executor *Executor

	last fan.Speed
	sent bool
}

// NewHook creates a hook for act.
func NewHook(act *Actuator, executor *Executor) *Hook {
	return &Hook{actuator: act, executor: executor}
}

// Apply sends speed to the actuator if it differs from the last speed sent.
// It reports whether a request was made. A failed request is retried on the
// next call.
func (h *Hook) Apply(ctx context.Context, speed fan.Speed, persons int) (bool, error) {
	if h.sent && h.last == speed {
		return false, nil
	}

	resp, err := h.executor.Execute(ctx, h.actuator, &Request{
		Action:  ActionSetSpeed,
		Speed:   speed.String(),
		Level:   speed.Level(),
		Persons: persons,
	})
	if err != nil {
		return true, err
	}
	if !resp.Success {
		return true, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}

	h.last = speed
	h.sent = true
	return true, nil
}

// Name returns the actuator name from its manifest.
func (h *Hook) Name() string {
	return h.actuator.Manifest.Name
}
