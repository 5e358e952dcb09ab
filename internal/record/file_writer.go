package record

import (
	"encoding/json"
	"os"
)

// FileWriter writes capture and state rows to JSONL files.
type FileWriter struct {
	captureFile *os.File
	stateFile   *os.File
	captureEnc  *json.Encoder
	stateEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. statePath may be empty to skip the state log.
func NewFileWriter(capturePath, statePath string) (*FileWriter, error) {
	cf, err := os.Create(capturePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{captureFile: cf, captureEnc: json.NewEncoder(cf)}
	if statePath != "" {
		sf, err := os.Create(statePath)
		if err != nil {
			cf.Close()
			return nil, err
		}
		fw.stateFile = sf
		fw.stateEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// WriteCapture logs a single capture row.
func (f *FileWriter) WriteCapture(row CaptureRow) error {
	return f.captureEnc.Encode(row)
}

// WriteCaptures logs multiple capture rows.
func (f *FileWriter) WriteCaptures(rows []CaptureRow) error {
	for _, r := range rows {
		if err := f.WriteCapture(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteState logs a host state row, if enabled.
func (f *FileWriter) WriteState(row StateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.captureFile != nil {
		if e := f.captureFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
