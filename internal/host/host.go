// Package host owns the engine and serializes every access to it through a
// single dispatcher goroutine: periodic ticks and capture requests.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"simhost/internal/capture"
	"simhost/internal/engine"
	"simhost/internal/logging"
	"simhost/internal/record"
)

// DefaultPeriod is the wall-clock interval between engine ticks.
const DefaultPeriod = 10 * time.Millisecond

// ErrAlreadyRunning is returned when Run is called twice.
var ErrAlreadyRunning = errors.New("host: already running")

type result struct {
	row record.CaptureRow
	err error
}

type request struct {
	ctx   context.Context
	reply chan result
}

// Host drives an engine at a fixed period and accepts capture requests one
// at a time. The engine is only touched from the goroutine running Run.
type Host struct {
	engine      engine.Engine
	handler     *capture.Handler
	period      time.Duration
	hostID      string
	stateWriter record.StateWriter
	stateEvery  uint64

	requests chan request
	stopped  chan struct{}
	started  atomic.Bool
	running  atomic.Bool

	frames         atomic.Uint64
	capturesOK     atomic.Uint64
	capturesFailed atomic.Uint64
	tickErrors     atomic.Uint64
	lag            atomic.Int64
}

// Option configures a Host.
type Option func(*Host)

// WithPeriod sets the tick period. Non-positive values are ignored.
func WithPeriod(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.period = d
		}
	}
}

// WithHostID tags state rows with the host identity.
func WithHostID(id string) Option {
	return func(h *Host) { h.hostID = id }
}

// WithStateWriter emits a state row every n ticks. The writer is called on
// the dispatcher goroutine, so it should not block; record.Queue fits.
func WithStateWriter(w record.StateWriter, every int) Option {
	return func(h *Host) {
		if every <= 0 {
			return
		}
		h.stateWriter = w
		h.stateEvery = uint64(every)
	}
}

// New creates a host around an engine and a capture handler.
func New(eng engine.Engine, handler *capture.Handler, opts ...Option) *Host {
	h := &Host{
		engine:   eng,
		handler:  handler,
		period:   DefaultPeriod,
		requests: make(chan request, 1),
		stopped:  make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Period returns the tick period.
func (h *Host) Period() time.Duration { return h.period }

// Start runs engine startup. It must succeed before Run admits any event.
func (h *Host) Start(ctx context.Context) error {
	select {
	case <-h.stopped:
		return engine.ErrStopped
	default:
	}
	if h.started.Load() {
		return nil
	}
	if err := h.engine.Startup(ctx); err != nil {
		return fmt.Errorf("engine startup: %w", err)
	}
	h.started.Store(true)
	logging.FromContext(ctx).Info("host started", "period", h.period)
	return nil
}

// Capture asks the dispatcher to issue one capture and waits for the reply.
// It fails with engine.ErrNotStarted before Start and engine.ErrStopped
// after Run has returned.
func (h *Host) Capture(ctx context.Context) (record.CaptureRow, error) {
	select {
	case <-h.stopped:
		return record.CaptureRow{}, engine.ErrStopped
	default:
	}
	if !h.started.Load() {
		h.capturesFailed.Add(1)
		return record.CaptureRow{}, engine.ErrNotStarted
	}

	req := request{ctx: ctx, reply: make(chan result, 1)}
	select {
	case h.requests <- req:
	case <-h.stopped:
		return record.CaptureRow{}, engine.ErrStopped
	case <-ctx.Done():
		return record.CaptureRow{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.row, res.err
	case <-h.stopped:
		select {
		case res := <-req.reply:
			return res.row, res.err
		default:
			return record.CaptureRow{}, engine.ErrStopped
		}
	case <-ctx.Done():
		return record.CaptureRow{}, ctx.Err()
	}
}

// Stats is a snapshot of the host counters.
type Stats struct {
	Started        bool    `json:"started"`
	Frames         uint64  `json:"frames"`
	CapturesOK     uint64  `json:"captures_ok"`
	CapturesFailed uint64  `json:"captures_failed"`
	TickErrors     uint64  `json:"tick_errors"`
	LagMS          float64 `json:"lag_ms"`
	Period         string  `json:"period"`
}

// Stats returns the current counters. Safe to call from any goroutine.
func (h *Host) Stats() Stats {
	return Stats{
		Started:        h.started.Load(),
		Frames:         h.frames.Load(),
		CapturesOK:     h.capturesOK.Load(),
		CapturesFailed: h.capturesFailed.Load(),
		TickErrors:     h.tickErrors.Load(),
		LagMS:          float64(h.lag.Load()) / float64(time.Millisecond),
		Period:         h.period.String(),
	}
}

func (h *Host) stateRow() record.StateRow {
	st := h.Stats()
	return record.StateRow{
		HostID:         h.hostID,
		Frames:         st.Frames,
		CapturesOK:     st.CapturesOK,
		CapturesFailed: st.CapturesFailed,
		TickErrors:     st.TickErrors,
		LagMS:          st.LagMS,
		Timestamp:      time.Now().UTC(),
	}
}
