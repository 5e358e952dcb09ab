package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONStdoutWriter prints capture and state rows as JSON to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteCapture outputs a capture row in JSON format.
func (w *JSONStdoutWriter) WriteCapture(row CaptureRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteCaptures outputs multiple capture rows in JSON format.
func (w *JSONStdoutWriter) WriteCaptures(rows []CaptureRow) error {
	for _, r := range rows {
		if err := w.WriteCapture(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState outputs a host state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row StateRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
