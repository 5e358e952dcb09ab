package main

import (
	"io"
	"os"

	"golang.org/x/term"

	"simhost/internal/record"
)

// writers is the record sink pair chosen from flags and env vars, plus the
// resources to release on exit.
type writers struct {
	capture record.CaptureWriter
	state   record.StateWriter
	tui     bool
	closers []io.Closer
}

func (w *writers) Close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i].Close()
	}
}

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// newWriters picks the base writer and tees into a JSONL log when logFile is
// set. The TUI is only used when requested and STDOUT is a terminal.
func newWriters(printOnly, tui bool, logFile string, summary record.Summary) (*writers, error) {
	var ws *writers
	if tui && stdoutIsTerminal() {
		tw := record.NewTUIWriter(summary)
		ws = &writers{capture: tw, state: tw, tui: true, closers: []io.Closer{tw}}
	} else {
		var err error
		ws, err = baseWriters(printOnly)
		if err != nil {
			return nil, err
		}
	}
	if logFile == "" {
		return ws, nil
	}

	fw, err := record.NewFileWriter(logFile, logFile+".state")
	if err != nil {
		ws.Close()
		return nil, err
	}
	ws.closers = append(ws.closers, fw)
	mw := record.NewMultiWriter(
		[]record.CaptureWriter{ws.capture, fw},
		[]record.StateWriter{ws.state, fw},
	)
	ws.capture = mw
	ws.state = mw
	return ws, nil
}

// baseWriters chooses between GreptimeDB and STDOUT based on printOnly and
// GREPTIMEDB_ENDPOINT.
func baseWriters(printOnly bool) (*writers, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		sw := record.NewJSONStdoutWriter()
		return &writers{capture: sw, state: sw}, nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	gw, err := record.NewGreptimeDBWriter(endpoint, database, os.Getenv("CAPTURE_TABLE"), os.Getenv("STATE_TABLE"))
	if err != nil {
		return nil, err
	}
	return &writers{capture: gw, state: gw}, nil
}
