package actuator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrManifest is returned when an actuator directory has no usable manifest.
var ErrManifest = errors.New("invalid actuator manifest")

// Load reads the manifest in dir and resolves the executable path.
func Load(dir string) (*Actuator, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, fmt.Errorf("%w: name and executable are required", ErrManifest)
	}

	executable := manifest.Executable
	if !filepath.IsAbs(executable) {
		executable = filepath.Join(dir, executable)
	}
	if _, err := os.Stat(executable); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	return &Actuator{
		Manifest:   manifest,
		Path:       dir,
		Executable: executable,
	}, nil
}
