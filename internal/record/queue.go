package record

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrQueueFull is returned when a row is dropped because the queue is full.
var ErrQueueFull = errors.New("record: queue full")

// ErrQueueClosed is returned for writes after Close.
var ErrQueueClosed = errors.New("record: queue closed")

// DefaultQueueSize is the number of rows buffered before writes are dropped.
const DefaultQueueSize = 256

// maxBatch bounds how many buffered captures go to a batch writer at once.
const maxBatch = 64

type queued struct {
	capture *CaptureRow
	state   *StateRow
}

// Queue decouples callers from slow writers. Enqueueing never blocks; rows
// are written in order by a single background goroutine.
type Queue struct {
	captures CaptureWriter
	states   StateWriter
	log      *slog.Logger
	ch       chan queued
	done     chan struct{}
	mu       sync.RWMutex
	closed   bool
	dropped  atomic.Uint64
}

// NewQueue starts a queue in front of the given writers. Either may be nil.
func NewQueue(cw CaptureWriter, sw StateWriter, size int, log *slog.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if log == nil {
		log = slog.Default()
	}
	q := &Queue{
		captures: cw,
		states:   sw,
		log:      log,
		ch:       make(chan queued, size),
		done:     make(chan struct{}),
	}
	go q.loop()
	return q
}

// loop writes rows in arrival order. Captures already buffered behind the
// first one are drained and handed over together, up to the next state row.
func (q *Queue) loop() {
	defer close(q.done)
	for item := range q.ch {
		if item.capture == nil {
			q.writeState(item.state)
			continue
		}
		batch := []CaptureRow{*item.capture}
		var next *queued
	drain:
		for len(batch) < maxBatch {
			select {
			case it, ok := <-q.ch:
				if !ok {
					break drain
				}
				if it.capture == nil {
					next = &it
					break drain
				}
				batch = append(batch, *it.capture)
			default:
				break drain
			}
		}
		q.writeCaptures(batch)
		if next != nil {
			q.writeState(next.state)
		}
	}
}

func (q *Queue) writeCaptures(rows []CaptureRow) {
	if q.captures == nil {
		return
	}
	if bw, ok := q.captures.(batchCaptureWriter); ok && len(rows) > 1 {
		if err := bw.WriteCaptures(rows); err != nil {
			q.log.Error("capture batch write failed", "rows", len(rows), "err", err)
		}
		return
	}
	for _, r := range rows {
		if err := q.captures.WriteCapture(r); err != nil {
			q.log.Error("capture write failed", "capture_id", r.ID, "err", err)
		}
	}
}

func (q *Queue) writeState(row *StateRow) {
	if row == nil || q.states == nil {
		return
	}
	if err := q.states.WriteState(*row); err != nil {
		q.log.Error("state write failed", "err", err)
	}
}

func (q *Queue) enqueue(item queued) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- item:
		return nil
	default:
		q.dropped.Add(1)
		return ErrQueueFull
	}
}

// WriteCapture enqueues a capture row.
func (q *Queue) WriteCapture(row CaptureRow) error {
	return q.enqueue(queued{capture: &row})
}

// WriteState enqueues a state row.
func (q *Queue) WriteState(row StateRow) error {
	return q.enqueue(queued{state: &row})
}

// Dropped returns how many rows were discarded because the queue was full.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

// Close flushes pending rows and stops the background writer.
func (q *Queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()
	<-q.done
	return nil
}
