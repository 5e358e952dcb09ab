// Package capture turns a capture request into a sampled pose and an engine
// image request.
package capture

import (
	"context"
	"time"

	"github.com/google/uuid"

	"simhost/internal/engine"
	"simhost/internal/logging"
	"simhost/internal/pose"
	"simhost/internal/record"
)

// Handler samples a pose and asks the engine for an image. It shares the
// engine with the tick loop and must only run on the dispatcher goroutine.
type Handler struct {
	hostID  string
	sensor  string
	engine  engine.Engine
	sampler *pose.Sampler
	sink    record.CaptureWriter
	now     func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithHostID tags capture rows with the host identity.
func WithHostID(id string) Option {
	return func(h *Handler) { h.hostID = id }
}

// WithSensor tags capture rows with the sensor name.
func WithSensor(name string) Option {
	return func(h *Handler) { h.sensor = name }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a capture handler. sink may be nil.
func NewHandler(eng engine.Engine, sampler *pose.Sampler, sink record.CaptureWriter, opts ...Option) *Handler {
	h := &Handler{
		engine:  eng,
		sampler: sampler,
		sink:    sink,
		now:     time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// SetSensor changes the sensor name on future rows. Call it before the host
// dispatcher runs.
func (h *Handler) SetSensor(name string) { h.sensor = name }

// Handle issues one capture. An engine rejection is returned to the caller
// and recorded; the engine state is left as the engine left it.
func (h *Handler) Handle(ctx context.Context) (record.CaptureRow, error) {
	log := logging.FromContext(ctx)
	m := h.sampler.Sample()

	row := record.CaptureRow{
		HostID: h.hostID,
		Sensor: h.sensor,
		ID:     uuid.New().String(),
		Pose:   m.Flatten(),
		Status: record.StatusOK,
	}
	err := h.engine.GenerateImageFromPose(m)
	if fr, ok := h.engine.(engine.FrameReporter); ok {
		row.Frame = fr.Frame()
	}
	row.Timestamp = h.now().UTC()
	if err != nil {
		row.Status = record.StatusFailed
		row.Error = err.Error()
		log.Warn("capture rejected", "capture_id", row.ID, "err", err)
	} else {
		log.Info("generating image", "capture_id", row.ID, "frame", row.Frame, "sensor", h.sensor)
	}

	if h.sink != nil {
		if werr := h.sink.WriteCapture(row); werr != nil {
			log.Error("capture record failed", "capture_id", row.ID, "err", werr)
		}
	}
	return row, err
}
