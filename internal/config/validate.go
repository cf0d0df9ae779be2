// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// SIMULATOR ENDPOINT
	// ------------------------------------------------------------

	if cfg.Simulator.Host == "" {
		return fmt.Errorf("config: simulator host required")
	}
	if cfg.Simulator.Port < 1 || cfg.Simulator.Port > 65535 {
		return fmt.Errorf("config: simulator port %d out of range 1-65535", cfg.Simulator.Port)
	}
	if cfg.Simulator.TimeoutMs <= 0 {
		return fmt.Errorf("config: simulator timeout must be > 0")
	}

	// ------------------------------------------------------------
	// CAPTURE GEOMETRY
	// ------------------------------------------------------------

	if cfg.Capture.NumImages < 1 {
		return fmt.Errorf("config: num_images must be >= 1, got %d", cfg.Capture.NumImages)
	}
	if cfg.Capture.IntervalMs <= 0 {
		return fmt.Errorf("config: capture interval must be > 0")
	}
	if cfg.Capture.StabilizeMs < 0 {
		return fmt.Errorf("config: stabilize wait must be >= 0")
	}
	if cfg.Capture.GraceMs < 0 {
		return fmt.Errorf("config: grace wait must be >= 0")
	}

	// ------------------------------------------------------------
	// CAMERA ATTRIBUTES
	// ------------------------------------------------------------

	if cfg.Camera.Width < 1 {
		return fmt.Errorf("config: camera width must be >= 1, got %d", cfg.Camera.Width)
	}
	if cfg.Camera.Height < 1 {
		return fmt.Errorf("config: camera height must be >= 1, got %d", cfg.Camera.Height)
	}
	if cfg.Camera.FOV <= 0 || cfg.Camera.FOV > 180 {
		return fmt.Errorf("config: camera fov must be in (0, 180], got %g", cfg.Camera.FOV)
	}

	// ------------------------------------------------------------
	// OUTPUT
	// ------------------------------------------------------------

	if cfg.Output.Dir == "" {
		return fmt.Errorf("config: output dir required")
	}
	for _, n := range cfg.Output.Estimates {
		if n < 1 {
			return fmt.Errorf("config: estimate quantity must be >= 1, got %d", n)
		}
	}

	return nil
}
