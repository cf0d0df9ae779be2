// internal/capture/session.go
package capture

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/drivesim/simcap/internal/simclient"
)

// Sensor blueprints and the vehicle filter, matching the simulator catalog.
const (
	vehiclePattern = "vehicle.*"
	rgbBlueprint   = "sensor.camera.rgb"
	segBlueprint   = "sensor.camera.semantic_segmentation"
)

// cameraMount is the sensor transform relative to the vehicle:
// forward of center, roof height.
var cameraMount = simclient.Transform{
	Location: simclient.Location{X: 1.5, Z: 2.4},
}

// Session owns one capture run: a spawned vehicle, two attached cameras,
// and the frames their listeners deliver.
type Session struct {
	cfg    Config
	client Client
	clock  clock.Clock
	logger golog.Logger
	pick   func(n int) int

	vehicle uint32
	rgbCam  uint32
	segCam  uint32

	mu         sync.Mutex
	collecting bool
	rgb        []simclient.Frame
	seg        []simclient.Frame
}

// New creates a session with immutable config.
func New(cfg Config, client Client, clk clock.Clock, logger golog.Logger) (*Session, error) {
	if client == nil {
		return nil, errors.New("capture: client required")
	}
	if cfg.NumImages < 1 {
		return nil, errors.New("capture: num images must be >= 1")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("capture: interval must be > 0")
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = golog.NewLogger("capture")
	}
	return &Session{
		cfg:    cfg,
		client: client,
		clock:  clk,
		logger: logger,
		pick:   func(n int) int { return rand.Intn(n) },
	}, nil
}

// Setup spawns the vehicle, enables autopilot, and attaches both cameras.
// Partially created actors are left for Cleanup, which tolerates gaps.
func (s *Session) Setup(ctx context.Context) error {
	bps, err := s.client.Blueprints(ctx, vehiclePattern)
	if err != nil {
		return fmt.Errorf("capture: list vehicle blueprints: %w", err)
	}
	if len(bps) == 0 {
		return errors.New("capture: simulator offers no vehicle blueprints")
	}

	points, err := s.client.SpawnPoints(ctx)
	if err != nil {
		return fmt.Errorf("capture: list spawn points: %w", err)
	}
	if len(points) == 0 {
		return errors.New("capture: map has no spawn points")
	}

	bp := bps[0]
	point := points[s.pick(len(points))]

	s.logger.Infow("spawning vehicle", "blueprint", bp.ID)
	s.vehicle, err = s.client.SpawnActor(ctx, bp.ID, nil, point)
	if err != nil {
		return fmt.Errorf("capture: spawn vehicle: %w", err)
	}

	if err := s.client.SetAutopilot(ctx, s.vehicle, true); err != nil {
		return fmt.Errorf("capture: enable autopilot: %w", err)
	}

	s.rgbCam, err = s.client.AttachSensor(ctx, rgbBlueprint, s.cfg.CameraAttrs, cameraMount, s.vehicle)
	if err != nil {
		return fmt.Errorf("capture: attach rgb camera: %w", err)
	}

	s.segCam, err = s.client.AttachSensor(ctx, segBlueprint, s.cfg.CameraAttrs, cameraMount, s.vehicle)
	if err != nil {
		return fmt.Errorf("capture: attach segmentation camera: %w", err)
	}

	s.client.Listen(s.rgbCam, func(f simclient.Frame) { s.add(&s.rgb, f) })
	s.client.Listen(s.segCam, func(f simclient.Frame) { s.add(&s.seg, f) })

	s.logger.Info("cameras attached to vehicle")
	return nil
}

// add appends a delivered frame while a run is collecting.
func (s *Session) add(buf *[]simclient.Frame, f simclient.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.collecting {
		return
	}
	*buf = append(*buf, f)
}

// begin clears buffers and opens the collection window.
func (s *Session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rgb = nil
	s.seg = nil
	s.collecting = true
}

// end closes the collection window.
func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collecting = false
}

// Counts reports how many frames each camera delivered so far.
func (s *Session) Counts() (rgb, seg int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rgb), len(s.seg)
}

// Pairs matches RGB and segmentation frames by simulator frame number.
// When both cameras delivered the same tick sequence, the pair count
// equals the shorter of the two frame lists.
func (s *Session) Pairs() []FramePair {
	s.mu.Lock()
	defer s.mu.Unlock()

	seg := make(map[uint64]simclient.Frame, len(s.seg))
	for _, f := range s.seg {
		if _, dup := seg[f.Number]; dup {
			continue
		}
		seg[f.Number] = f
	}

	var pairs []FramePair
	for _, f := range s.rgb {
		m, ok := seg[f.Number]
		if !ok {
			continue
		}
		delete(seg, f.Number)
		pairs = append(pairs, FramePair{Number: f.Number, RGB: f, Seg: m})
	}
	return pairs
}

// Cleanup detaches listeners and destroys spawned actors.
// Each destroy is attempted independently; setup may have stopped partway.
func (s *Session) Cleanup(ctx context.Context) error {
	s.logger.Info("cleaning up")

	var errs []error
	destroy := func(name string, id uint32) {
		if id == 0 {
			return
		}
		if err := s.client.DestroyActor(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("capture: destroy %s: %w", name, err))
		}
	}

	if s.rgbCam != 0 {
		s.client.Unlisten(s.rgbCam)
	}
	if s.segCam != 0 {
		s.client.Unlisten(s.segCam)
	}

	destroy("rgb camera", s.rgbCam)
	destroy("segmentation camera", s.segCam)
	destroy("vehicle", s.vehicle)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("cleanup complete")
	return nil
}
