package record

// MultiWriter fan-outs capture and state rows to multiple writers.
type MultiWriter struct {
	captureWriters []CaptureWriter
	stateWriters   []StateWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(cws []CaptureWriter, sws []StateWriter) *MultiWriter {
	return &MultiWriter{captureWriters: cws, stateWriters: sws}
}

// WriteCapture sends a capture row to all capture writers.
func (mw *MultiWriter) WriteCapture(row CaptureRow) error {
	for _, w := range mw.captureWriters {
		if err := w.WriteCapture(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteCaptures sends multiple rows to all capture writers, using batch if supported.
func (mw *MultiWriter) WriteCaptures(rows []CaptureRow) error {
	for _, w := range mw.captureWriters {
		if bw, ok := w.(batchCaptureWriter); ok {
			if err := bw.WriteCaptures(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteCapture(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState sends a state row to all state writers.
func (mw *MultiWriter) WriteState(row StateRow) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}
