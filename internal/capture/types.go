// internal/capture/types.go
package capture

import (
	"context"
	"time"

	"github.com/drivesim/simcap/internal/simclient"
)

// Client abstracts the simulator operations the session needs.
// The session depends on sequencing only.
type Client interface {
	Blueprints(ctx context.Context, pattern string) ([]simclient.Blueprint, error)
	SpawnPoints(ctx context.Context) ([]simclient.Transform, error)
	SpawnActor(ctx context.Context, blueprintID string, attrs map[string]string, tf simclient.Transform) (uint32, error)
	AttachSensor(ctx context.Context, blueprintID string, attrs map[string]string, tf simclient.Transform, parent uint32) (uint32, error)
	SetAutopilot(ctx context.Context, actor uint32, enabled bool) error
	DestroyActor(ctx context.Context, actor uint32) error
	Listen(sensor uint32, fn func(simclient.Frame))
	Unlisten(sensor uint32)
}

// Config is the minimal runtime config the session needs.
type Config struct {
	NumImages   int
	Interval    time.Duration
	Stabilize   time.Duration
	Grace       time.Duration
	CameraAttrs map[string]string
}

// FramePair is one RGB frame and one segmentation frame produced by
// the same simulator tick.
type FramePair struct {
	Number uint64
	RGB    simclient.Frame
	Seg    simclient.Frame
}
