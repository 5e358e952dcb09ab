package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"simhost/internal/pose"
)

// ReplayLog replays capture rows from r to writer. A speed >0 scales the
// recorded gaps between rows; speed <= 0 replays without delay. A row whose
// pose is present but not a 4x4 matrix stops the replay.
func ReplayLog(r io.Reader, writer CaptureWriter, speed float64) (int, error) {
	dec := json.NewDecoder(r)
	var prev time.Time
	n := 0
	for {
		var row CaptureRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if len(row.Pose) > 0 {
			if _, ok := pose.FromSlice(row.Pose); !ok {
				return n, fmt.Errorf("capture %s: pose has %d values, want %d", row.ID, len(row.Pose), pose.Size*pose.Size)
			}
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteCapture(row); err != nil {
			return n, err
		}
		n++
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its capture rows.
func ReplayLogFile(path string, writer CaptureWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
