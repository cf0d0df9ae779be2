// internal/capture/session_test.go
package capture

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/stretchr/testify/require"

	"github.com/drivesim/simcap/internal/simclient"
)

// fakeClient is an in-memory simulator good enough for session tests.
type fakeClient struct {
	nextID    uint32
	spawned   []string // blueprint IDs in spawn order
	parents   map[uint32]uint32
	autopilot map[uint32]bool
	listeners map[uint32]func(simclient.Frame)
	destroyed []uint32

	failSpawnAfter int // fail the Nth spawn (1-based); 0 = never
	destroyErr     error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		parents:   map[uint32]uint32{},
		autopilot: map[uint32]bool{},
		listeners: map[uint32]func(simclient.Frame){},
	}
}

func (f *fakeClient) Blueprints(_ context.Context, pattern string) ([]simclient.Blueprint, error) {
	if pattern != "vehicle.*" {
		return nil, nil
	}
	return []simclient.Blueprint{{ID: "vehicle.tesla.model3"}, {ID: "vehicle.audi.tt"}}, nil
}

func (f *fakeClient) SpawnPoints(context.Context) ([]simclient.Transform, error) {
	return []simclient.Transform{
		{Location: simclient.Location{X: 1}},
		{Location: simclient.Location{X: 2}},
	}, nil
}

func (f *fakeClient) spawn(blueprintID string, parent uint32) (uint32, error) {
	if f.failSpawnAfter > 0 && len(f.spawned)+1 >= f.failSpawnAfter {
		return 0, errors.New("spawn refused")
	}
	f.nextID++
	f.spawned = append(f.spawned, blueprintID)
	if parent != 0 {
		f.parents[f.nextID] = parent
	}
	return f.nextID, nil
}

func (f *fakeClient) SpawnActor(_ context.Context, blueprintID string, _ map[string]string, _ simclient.Transform) (uint32, error) {
	return f.spawn(blueprintID, 0)
}

func (f *fakeClient) AttachSensor(_ context.Context, blueprintID string, _ map[string]string, _ simclient.Transform, parent uint32) (uint32, error) {
	return f.spawn(blueprintID, parent)
}

func (f *fakeClient) SetAutopilot(_ context.Context, actor uint32, enabled bool) error {
	f.autopilot[actor] = enabled
	return nil
}

func (f *fakeClient) DestroyActor(_ context.Context, actor uint32) error {
	f.destroyed = append(f.destroyed, actor)
	return f.destroyErr
}

func (f *fakeClient) Listen(sensor uint32, fn func(simclient.Frame)) {
	f.listeners[sensor] = fn
}

func (f *fakeClient) Unlisten(sensor uint32) {
	delete(f.listeners, sensor)
}

func testConfig() Config {
	return Config{
		NumImages: 3,
		Interval:  time.Millisecond,
		Stabilize: time.Millisecond,
		Grace:     time.Millisecond,
	}
}

func newTestSession(t *testing.T, fc *fakeClient) *Session {
	t.Helper()
	s, err := New(testConfig(), fc, nil, golog.NewTestLogger(t))
	require.NoError(t, err)
	s.pick = func(int) int { return 0 }
	return s
}

// ---- tests ----

func TestNew_Rejections(t *testing.T) {
	fc := newFakeClient()

	_, err := New(testConfig(), nil, nil, nil)
	require.Error(t, err)

	cfg := testConfig()
	cfg.NumImages = 0
	_, err = New(cfg, fc, nil, nil)
	require.Error(t, err)

	cfg = testConfig()
	cfg.Interval = 0
	_, err = New(cfg, fc, nil, nil)
	require.Error(t, err)
}

func TestSetup_SpawnsVehicleAndCameras(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)

	require.NoError(t, s.Setup(context.Background()))

	require.Equal(t, []string{
		"vehicle.tesla.model3",
		"sensor.camera.rgb",
		"sensor.camera.semantic_segmentation",
	}, fc.spawned)

	require.True(t, fc.autopilot[s.vehicle])
	require.Equal(t, s.vehicle, fc.parents[s.rgbCam])
	require.Equal(t, s.vehicle, fc.parents[s.segCam])
	require.Contains(t, fc.listeners, s.rgbCam)
	require.Contains(t, fc.listeners, s.segCam)
}

func TestSetup_CameraAttachFailureLeavesVehicleForCleanup(t *testing.T) {
	fc := newFakeClient()
	fc.failSpawnAfter = 2 // vehicle ok, rgb camera refused
	s := newTestSession(t, fc)

	require.Error(t, s.Setup(context.Background()))
	require.NotZero(t, s.vehicle)
	require.Zero(t, s.rgbCam)

	require.NoError(t, s.Cleanup(context.Background()))
	require.Equal(t, []uint32{s.vehicle}, fc.destroyed)
}

func TestCollectionWindow(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	frame := simclient.Frame{SensorID: s.rgbCam, Number: 1}

	// Outside a run, frames are dropped.
	fc.listeners[s.rgbCam](frame)
	rgb, _ := s.Counts()
	require.Zero(t, rgb)

	s.begin()
	fc.listeners[s.rgbCam](frame)
	fc.listeners[s.segCam](simclient.Frame{SensorID: s.segCam, Number: 1})
	s.end()

	fc.listeners[s.rgbCam](frame) // late frame, window closed

	rgb, seg := s.Counts()
	require.Equal(t, 1, rgb)
	require.Equal(t, 1, seg)
}

func TestPairs_MatchedByFrameNumber(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	s.begin()
	for _, n := range []uint64{1, 2, 3, 5} {
		fc.listeners[s.rgbCam](simclient.Frame{SensorID: s.rgbCam, Number: n})
	}
	for _, n := range []uint64{2, 3, 4} {
		fc.listeners[s.segCam](simclient.Frame{SensorID: s.segCam, Number: n})
	}
	s.end()

	pairs := s.Pairs()
	require.Len(t, pairs, 2)
	require.Equal(t, uint64(2), pairs[0].Number)
	require.Equal(t, uint64(3), pairs[1].Number)
	require.Equal(t, pairs[0].RGB.SensorID, s.rgbCam)
	require.Equal(t, pairs[0].Seg.SensorID, s.segCam)
}

func TestPairs_EqualSequencesTruncateToShorter(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	s.begin()
	for n := uint64(1); n <= 5; n++ {
		fc.listeners[s.rgbCam](simclient.Frame{SensorID: s.rgbCam, Number: n})
	}
	for n := uint64(1); n <= 3; n++ {
		fc.listeners[s.segCam](simclient.Frame{SensorID: s.segCam, Number: n})
	}
	s.end()

	// Same tick sequence: pair count is the shorter list's length.
	require.Len(t, s.Pairs(), 3)
}

func TestCleanup_DestroysCamerasBeforeVehicle(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	require.NoError(t, s.Cleanup(context.Background()))
	require.Equal(t, []uint32{s.rgbCam, s.segCam, s.vehicle}, fc.destroyed)
	require.Empty(t, fc.listeners)
}

func TestCleanup_ReportsDestroyErrors(t *testing.T) {
	fc := newFakeClient()
	fc.destroyErr = fmt.Errorf("actor busy")
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	err := s.Cleanup(context.Background())
	require.Error(t, err)
	// All three destroys are still attempted.
	require.Len(t, fc.destroyed, 3)
}
