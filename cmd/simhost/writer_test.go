package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"simhost/internal/record"
)

func TestNewWritersPrintOnly(t *testing.T) {
	ws, err := newWriters(true, false, "", record.Summary{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer ws.Close()
	if _, ok := ws.capture.(*record.JSONStdoutWriter); !ok {
		t.Fatalf("expected *record.JSONStdoutWriter, got %T", ws.capture)
	}
	if _, ok := ws.state.(*record.JSONStdoutWriter); !ok {
		t.Fatalf("expected *record.JSONStdoutWriter, got %T", ws.state)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	ws, err := newWriters(false, false, "", record.Summary{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer ws.Close()
	if _, ok := ws.capture.(*record.JSONStdoutWriter); !ok {
		t.Fatalf("expected *record.JSONStdoutWriter, got %T", ws.capture)
	}
}

func TestNewWritersTUIRequiresTerminal(t *testing.T) {
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	defer func() { stdoutIsTerminal = orig }()

	ws, err := newWriters(true, true, "", record.Summary{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer ws.Close()
	if ws.tui {
		t.Fatalf("TUI should not be used without a terminal")
	}
	if _, ok := ws.capture.(*record.JSONStdoutWriter); !ok {
		t.Fatalf("expected *record.JSONStdoutWriter, got %T", ws.capture)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captures.log")
	ws, err := newWriters(true, false, path, record.Summary{})
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := ws.capture.(*record.MultiWriter); !ok {
		t.Fatalf("expected *record.MultiWriter, got %T", ws.capture)
	}
	row := record.CaptureRow{HostID: "h1", ID: "c1", Status: record.StatusOK, Timestamp: time.Now()}
	if err := ws.capture.WriteCapture(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	st := record.StateRow{HostID: "h1", Frames: 10, Timestamp: time.Now()}
	if err := ws.state.WriteState(st); err != nil {
		t.Fatalf("write state failed: %v", err)
	}
	ws.Close()

	for _, p := range []string{path, path + ".state"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s failed: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
}
