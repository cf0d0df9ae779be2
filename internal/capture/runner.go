// internal/capture/runner.go
package capture

import (
	"context"
	"time"
)

// Run opens the collection window and drives the capture loop:
// stabilize wait, one tick per interval, trailing grace wait.
// Frames accumulate via the sensor listeners the whole time.
// A canceled context stops the loop; frames already collected are kept.
func (s *Session) Run(ctx context.Context) error {
	s.begin()
	defer s.end()

	s.logger.Info("waiting for vehicle to stabilize")
	if err := s.wait(ctx, s.cfg.Stabilize); err != nil {
		return err
	}

	s.logger.Infof("generating %d image pairs", s.cfg.NumImages)
	start := s.clock.Now()

	ticker := s.clock.Ticker(s.cfg.Interval)
	defer ticker.Stop()

	for i := 0; i < s.cfg.NumImages; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.logger.Infof("captured %d/%d image pairs", i+1, s.cfg.NumImages)
		}
	}

	// Let trailing frames land before the window closes.
	if err := s.wait(ctx, s.cfg.Grace); err != nil {
		return err
	}

	rgb, seg := s.Counts()
	s.logger.Infow("capture window closed",
		"rgb_frames", rgb,
		"seg_frames", seg,
		"elapsed", s.clock.Since(start).Round(100*time.Millisecond).String(),
	)
	return nil
}

// wait blocks for d on the session clock, honoring cancellation.
func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := s.clock.Timer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
