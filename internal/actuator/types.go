// Package actuator drives an external fan actuator process on speed changes.
package actuator

// ManifestFile is the manifest name looked up in an actuator directory.
const ManifestFile = "actuator.json"

// ActionSetSpeed is the only action sent to actuators.
const ActionSetSpeed = "set-speed"

// Manifest describes an actuator executable.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
}

// Request is written to the actuator's stdin as JSON.
type Request struct {
	Action  string `json:"action"`
	Speed   string `json:"speed"`
	Level   int    `json:"level"`
	Persons int    `json:"persons"`
}

// Response is read from the actuator's stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Actuator is a loaded actuator with its manifest and location.
type Actuator struct {
	Manifest   Manifest
	Path       string
	Executable string
}
