// internal/capture/runner_test.go
package capture

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/stretchr/testify/require"

	"github.com/drivesim/simcap/internal/simclient"
)

func TestRun_CompletesAndCollects(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	// Deliver one pair per tick from a fake sensor feed.
	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	go func() {
		var n uint64
		for {
			select {
			case <-feedCtx.Done():
				return
			case <-time.After(200 * time.Microsecond):
				n++
				if rgb, ok := fc.listeners[s.rgbCam]; ok {
					rgb(simclient.Frame{SensorID: s.rgbCam, Number: n})
				}
				if seg, ok := fc.listeners[s.segCam]; ok {
					seg(simclient.Frame{SensorID: s.segCam, Number: n})
				}
			}
		}
	}()

	require.NoError(t, s.Run(context.Background()))

	rgb, seg := s.Counts()
	require.Positive(t, rgb)
	require.Positive(t, seg)
	require.NotEmpty(t, s.Pairs())
}

func TestRun_ClearsPreviousFrames(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	s.begin()
	fc.listeners[s.rgbCam](simclient.Frame{SensorID: s.rgbCam, Number: 99})
	s.end()

	require.NoError(t, s.Run(context.Background()))

	rgb, _ := s.Counts()
	require.Zero(t, rgb)
}

func TestRun_CanceledContext(t *testing.T) {
	fc := newFakeClient()
	s := newTestSession(t, fc)
	require.NoError(t, s.Setup(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Run(ctx), context.Canceled)
}

func TestRun_CancelMidLoopKeepsFrames(t *testing.T) {
	fc := newFakeClient()

	cfg := testConfig()
	cfg.NumImages = 1000 // long enough to cancel mid-run
	cfg.Stabilize = 0
	s, err := New(cfg, fc, nil, golog.NewTestLogger(t))
	require.NoError(t, err)
	s.pick = func(int) int { return 0 }
	require.NoError(t, s.Setup(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		fc.listeners[s.rgbCam](simclient.Frame{SensorID: s.rgbCam, Number: 1})
		cancel()
	}()

	require.ErrorIs(t, s.Run(ctx), context.Canceled)

	// The interrupted window still kept its frames for saving.
	rgb, _ := s.Counts()
	require.Equal(t, 1, rgb)
}
