package host

import (
	"context"
	"time"

	"simhost/internal/engine"
	"simhost/internal/logging"
)

// Run is the dispatcher. Ticks are scheduled against absolute deadlines, so
// a slow tick delays the next one instead of dropping it. Run returns when
// ctx is cancelled, after stopping the timer and shutting the engine down.
func (h *Host) Run(ctx context.Context) error {
	if !h.started.Load() {
		return engine.ErrNotStarted
	}
	if !h.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	log := logging.FromContext(ctx)
	log.Info("starting dispatcher", "period", h.period)

	next := time.Now().Add(h.period)
	timer := time.NewTimer(h.period)
	defer h.shutdown(ctx, timer)

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping dispatcher")
			return nil
		case <-timer.C:
			h.tick(ctx, next)
			next = next.Add(h.period)
			timer.Reset(time.Until(next))
		case req := <-h.requests:
			h.capture(ctx, req)
		}
	}
}

func (h *Host) tick(ctx context.Context, deadline time.Time) {
	if lag := time.Since(deadline); lag > 0 {
		h.lag.Store(int64(lag))
	} else {
		h.lag.Store(0)
	}
	n := h.frames.Add(1)
	if err := h.engine.Tick(); err != nil {
		if c := h.tickErrors.Add(1); c == 1 || c%100 == 0 {
			logging.FromContext(ctx).Error("tick failed", "frame", n, "errors", c, "err", err)
		}
	}
	if h.stateWriter != nil && n%h.stateEvery == 0 {
		if err := h.stateWriter.WriteState(h.stateRow()); err != nil {
			logging.FromContext(ctx).Warn("state write failed", "err", err)
		}
	}
}

func (h *Host) capture(ctx context.Context, req request) {
	if err := req.ctx.Err(); err != nil {
		req.reply <- result{err: err}
		return
	}
	row, err := h.handler.Handle(ctx)
	if err != nil {
		h.capturesFailed.Add(1)
	} else {
		h.capturesOK.Add(1)
	}
	req.reply <- result{row: row, err: err}
}

func (h *Host) shutdown(ctx context.Context, timer *time.Timer) {
	log := logging.FromContext(ctx)
	timer.Stop()
	if err := h.engine.Shutdown(); err != nil {
		log.Error("engine shutdown failed", "err", err)
	}
	h.started.Store(false)
	close(h.stopped)
	for {
		select {
		case req := <-h.requests:
			req.reply <- result{err: engine.ErrStopped}
		default:
			log.Info("host stopped", "frames", h.frames.Load())
			return
		}
	}
}
