// Capture and host state records with greptime tags
package record

import (
	"time"
)

// Capture status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// CaptureRow records one image capture request.
type CaptureRow struct {
	HostID    string    `json:"host_id"`         // TAG
	Sensor    string    `json:"sensor"`          // TAG
	ID        string    `json:"id"`              // FIELD
	Frame     uint64    `json:"frame"`           // FIELD
	Pose      []float64 `json:"pose"`            // FIELD, row-major 4x4
	Status    string    `json:"status"`          // FIELD
	Error     string    `json:"error,omitempty"` // FIELD
	Timestamp time.Time `json:"ts"`              // TIME INDEX
}

// StateRow is a periodic snapshot of the host scheduler.
type StateRow struct {
	HostID         string    `json:"host_id"`         // TAG
	Frames         uint64    `json:"frames"`          // FIELD
	CapturesOK     uint64    `json:"captures_ok"`     // FIELD
	CapturesFailed uint64    `json:"captures_failed"` // FIELD
	TickErrors     uint64    `json:"tick_errors"`     // FIELD
	LagMS          float64   `json:"lag_ms"`          // FIELD, how far the last tick ran behind its deadline
	Timestamp      time.Time `json:"ts"`              // TIME INDEX
}

// CaptureWriter is an interface to support different capture outputs.
type CaptureWriter interface {
	WriteCapture(CaptureRow) error
}

// StateWriter handles periodic host state rows.
type StateWriter interface {
	WriteState(StateRow) error
}

// Optional: writers may support batch mode
type batchCaptureWriter interface {
	WriteCaptures([]CaptureRow) error
}
