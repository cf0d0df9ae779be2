// internal/capture/builder.go
package capture

import (
	"strconv"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/drivesim/simcap/internal/config"
)

// FromConfig maps the session configuration onto the runtime config,
// rendering camera attributes the way the blueprint API expects them.
func FromConfig(cfg *config.Config) Config {
	return Config{
		NumImages: cfg.Capture.NumImages,
		Interval:  cfg.Capture.Interval(),
		Stabilize: cfg.Capture.Stabilize(),
		Grace:     cfg.Capture.Grace(),
		CameraAttrs: map[string]string{
			"image_size_x": strconv.Itoa(cfg.Camera.Width),
			"image_size_y": strconv.Itoa(cfg.Camera.Height),
			"fov":          strconv.FormatFloat(cfg.Camera.FOV, 'f', -1, 64),
		},
	}
}

// Build constructs a session for an already-connected client.
func Build(cfg *config.Config, client Client, logger golog.Logger) (*Session, error) {
	return New(FromConfig(cfg), client, clock.New(), logger)
}
