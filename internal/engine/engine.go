// Package engine defines the simulation engine the host drives and a
// headless implementation used when no rendering backend is attached.
package engine

import (
	"context"
	"errors"
	"fmt"

	"simhost/internal/config"
	"simhost/internal/pose"
)

// Domain errors returned by engines.
var (
	// ErrNotStarted indicates the engine has not completed startup.
	ErrNotStarted = errors.New("engine: not started")

	// ErrStopped indicates the engine has been shut down.
	ErrStopped = errors.New("engine: stopped")

	// ErrInvalidPose indicates a pose matrix with non-finite entries.
	ErrInvalidPose = errors.New("engine: invalid pose")

	// ErrDataPath indicates the data directory is missing or not a directory.
	ErrDataPath = errors.New("engine: data path unavailable")
)

// Engine is the simulation and rendering backend. Implementations are
// driven from a single goroutine and need no internal locking.
type Engine interface {
	// Startup loads assets and creates the rendering context.
	Startup(ctx context.Context) error
	// Tick advances the simulation by one frame.
	Tick() error
	// GenerateImageFromPose synthesizes a sensor image at the given pose.
	GenerateImageFromPose(m pose.Matrix) error
	// Shutdown releases the engine.
	Shutdown() error
}

// FrameReporter is implemented by engines that expose their frame counter.
type FrameReporter interface {
	Frame() uint64
}

// Config holds everything needed to construct an engine.
type Config struct {
	Title        string
	DataPath     string
	ScenarioPath string
	Render       config.RenderConfig
	Helpers      config.HelperConfig
	// Rate is the simulation rate in ticks per second.
	Rate float64
}

// Validate checks the fields an engine cannot start without.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("%w: empty", ErrDataPath)
	}
	if c.ScenarioPath == "" {
		return errors.New("engine: scenario path is empty")
	}
	if c.Rate <= 0 {
		return fmt.Errorf("engine: tick rate must be positive, got %g", c.Rate)
	}
	if c.Render.WindowW <= 0 || c.Render.WindowH <= 0 {
		return config.ErrInvalidWindow
	}
	return nil
}
