package engine

import (
	"context"
	"fmt"
	"os"

	"simhost/internal/logging"
	"simhost/internal/pose"
	"simhost/internal/scenario"
)

// Headless is an engine without a rendering backend. It keeps frame and
// simulated time bookkeeping and accepts capture poses once started.
type Headless struct {
	cfg      Config
	scenario *scenario.Scenario
	sensor   scenario.Sensor
	started  bool
	stopped  bool
	frame    uint64
	simTime  float64
	images   uint64
	lastPose pose.Matrix
}

// NewHeadless validates cfg and returns an engine that still needs Startup.
func NewHeadless(cfg Config) (*Headless, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Title == "" {
		cfg.Title = "Simulation Host"
	}
	return &Headless{cfg: cfg}, nil
}

// Startup checks the data directory and loads the scenario.
func (h *Headless) Startup(ctx context.Context) error {
	log := logging.FromContext(ctx)
	if h.stopped {
		return ErrStopped
	}
	info, err := os.Stat(h.cfg.DataPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDataPath, h.cfg.DataPath)
	}
	sc, err := scenario.Load(h.cfg.ScenarioPath)
	if err != nil {
		return err
	}
	h.scenario = sc
	h.sensor = sc.PrimarySensor()
	h.started = true
	log.Info("engine started",
		"title", h.cfg.Title,
		"scenario", sc.Name,
		"sensor", h.sensor.Name,
		"rate", h.cfg.Rate,
		"window", fmt.Sprintf("%dx%d", h.cfg.Render.WindowW, h.cfg.Render.WindowH),
		"preset", h.cfg.Render.PresetName,
	)
	return nil
}

// Tick advances one frame and 1/rate seconds of simulated time.
func (h *Headless) Tick() error {
	if h.stopped {
		return ErrStopped
	}
	if !h.started {
		return ErrNotStarted
	}
	h.frame++
	h.simTime += 1 / h.cfg.Rate
	return nil
}

// GenerateImageFromPose records an image request for the primary sensor.
func (h *Headless) GenerateImageFromPose(m pose.Matrix) error {
	if h.stopped {
		return ErrStopped
	}
	if !h.started {
		return ErrNotStarted
	}
	if !m.Valid() {
		return ErrInvalidPose
	}
	h.images++
	h.lastPose = m
	return nil
}

// Shutdown stops the engine. Further calls fail with ErrStopped.
func (h *Headless) Shutdown() error {
	h.started = false
	h.stopped = true
	return nil
}

// Frame returns the number of ticks processed.
func (h *Headless) Frame() uint64 { return h.frame }

// Sensor returns the scenario sensor images are generated for.
func (h *Headless) Sensor() scenario.Sensor { return h.sensor }
