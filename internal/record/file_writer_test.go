package record

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	ts := time.Unix(0, 0).UTC()
	capPath := filepath.Join(dir, "captures.jsonl")
	statePath := filepath.Join(dir, "captures.jsonl.state")

	fw, err := NewFileWriter(capPath, statePath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	rows := []CaptureRow{
		{HostID: "h1", Sensor: "fls", ID: "c1", Frame: 3, Pose: make([]float64, 16), Status: StatusOK, Timestamp: ts},
		{HostID: "h1", Sensor: "fls", ID: "c2", Frame: 4, Status: StatusFailed, Error: "engine: not started", Timestamp: ts},
	}
	if err := fw.WriteCaptures(rows); err != nil {
		t.Fatalf("write captures: %v", err)
	}
	if err := fw.WriteState(StateRow{HostID: "h1", Frames: 10, CapturesOK: 1, Timestamp: ts}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(capPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	var got []CaptureRow
	for sc.Scan() {
		var r CaptureRow
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("decode capture: %v", err)
		}
		got = append(got, r)
	}
	if len(got) != 2 || got[1].Error != "engine: not started" || len(got[0].Pose) != 16 {
		t.Fatalf("unexpected captures: %+v", got)
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	var st StateRow
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Frames != 10 || st.CapturesOK != 1 {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestFileWriterWithoutStateLog(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "c.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteState(StateRow{Frames: 1}); err != nil {
		t.Fatalf("state write should be a no-op, got %v", err)
	}
}

func TestFileWriterBadPath(t *testing.T) {
	if _, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "c.jsonl"), ""); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
