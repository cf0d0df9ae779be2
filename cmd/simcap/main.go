// cmd/simcap/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edaniels/golog"
	"github.com/google/uuid"

	"github.com/drivesim/simcap/internal/capture"
	"github.com/drivesim/simcap/internal/config"
	"github.com/drivesim/simcap/internal/report"
	"github.com/drivesim/simcap/internal/simclient"
	"github.com/drivesim/simcap/internal/writer"
)

func main() {
	logger := golog.NewDevelopmentLogger("simcap")
	if err := run(logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(logger golog.Logger) error {
	var (
		cfgPath   = flag.String("config", "", "optional YAML config file")
		numImages = flag.Int("num-images", 10, "number of image pairs to generate")
		outputDir = flag.String("output-dir", "output", "output directory for images")
		host      = flag.String("host", "127.0.0.1", "simulator server host")
		port      = flag.Int("port", 2000, "simulator server port")
		interval  = flag.Float64("interval", 0.5, "interval between image captures in seconds")
		width     = flag.Int("width", 800, "camera image width in pixels")
		height    = flag.Int("height", 600, "camera image height in pixels")
		fov       = flag.Float64("fov", 90, "camera field of view in degrees")
		timeout   = flag.Duration("timeout", 10*time.Second, "simulator connect/request timeout")
	)
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}

	// Flags set on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "num-images":
			cfg.Capture.NumImages = *numImages
		case "output-dir":
			cfg.Output.Dir = *outputDir
		case "host":
			cfg.Simulator.Host = *host
		case "port":
			cfg.Simulator.Port = *port
		case "interval":
			cfg.Capture.IntervalMs = int(*interval * 1000)
		case "width":
			cfg.Camera.Width = *width
		case "height":
			cfg.Camera.Height = *height
		case "fov":
			cfg.Camera.FOV = *fov
		case "timeout":
			cfg.Simulator.TimeoutMs = int(timeout.Milliseconds())
		}
	})

	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Connect
	// --------------------

	logger.Infof("connecting to simulator at %s", cfg.Simulator.Endpoint())
	client, err := simclient.Dial(simclient.Config{
		Endpoint: cfg.Simulator.Endpoint(),
		Timeout:  cfg.Simulator.Timeout(),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("connecting to simulator (is the server running?): %w", err)
	}
	defer client.Close()
	logger.Infof("connected to simulator (map: %s)", client.MapName())

	// --------------------
	// Capture
	// --------------------

	session, err := capture.Build(cfg, client, logger)
	if err != nil {
		return err
	}

	// Cleanup always runs, on a fresh context: the run context may
	// already be canceled by the time actors are destroyed.
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.Simulator.Timeout())
		defer cancel()
		if err := session.Cleanup(cctx); err != nil {
			logger.Warnw("cleanup failed", "error", err)
		}
	}()

	if err := session.Setup(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted during setup")
			return nil
		}
		return err
	}

	if err := session.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("interrupted; saving frames captured so far")
	}

	// --------------------
	// Save + report
	// --------------------

	sink, err := writer.Build(cfg.Output.Dir, logger)
	if err != nil {
		return err
	}

	pairs := session.Pairs()
	logger.Infof("saving %d image pairs to %s", len(pairs), cfg.Output.Dir)

	res, err := sink.SaveAll(pairs)
	if err != nil {
		logger.Warnw("some image pairs failed to save", "error", err)
	}

	rgb, seg := session.Counts()
	snap := report.Snapshot{
		SessionID:  uuid.NewString(),
		MapName:    client.MapName(),
		OutputDir:  cfg.Output.Dir,
		RGBFrames:  rgb,
		SegFrames:  seg,
		PairsSaved: len(res.Saved),
		TotalBytes: res.TotalBytes,
		Estimates:  cfg.Output.Estimates,
	}

	report.Render(os.Stdout, snap)

	path, err := report.WriteManifest(snap)
	if err != nil {
		logger.Warnw("manifest not written", "error", err)
	} else {
		logger.Infof("manifest written to %s", path)
	}

	return nil
}
