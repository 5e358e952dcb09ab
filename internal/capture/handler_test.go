package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simhost/internal/engine"
	"simhost/internal/pose"
	"simhost/internal/record"
)

type fakeEngine struct {
	frame uint64
	poses []pose.Matrix
	err   error
}

func (f *fakeEngine) Startup(context.Context) error { return nil }
func (f *fakeEngine) Tick() error                   { f.frame++; return nil }
func (f *fakeEngine) Shutdown() error               { return nil }
func (f *fakeEngine) Frame() uint64                 { return f.frame }

func (f *fakeEngine) GenerateImageFromPose(m pose.Matrix) error {
	if f.err != nil {
		return f.err
	}
	f.poses = append(f.poses, m)
	return nil
}

type sinkWriter struct {
	rows []record.CaptureRow
	err  error
}

func (s *sinkWriter) WriteCapture(r record.CaptureRow) error {
	s.rows = append(s.rows, r)
	return s.err
}

func fixedClock() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

func TestHandleIssuesSampledPose(t *testing.T) {
	eng := &fakeEngine{frame: 17}
	sink := &sinkWriter{}
	h := NewHandler(eng, pose.NewSampler(3), sink, WithHostID("h1"), WithSensor("fls"), WithClock(fixedClock))

	row, err := h.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, eng.poses, 1)

	assert.Equal(t, eng.poses[0].Flatten(), row.Pose)
	assert.Equal(t, uint64(17), row.Frame)
	assert.Equal(t, record.StatusOK, row.Status)
	assert.Equal(t, "h1", row.HostID)
	assert.Equal(t, "fls", row.Sensor)
	assert.Equal(t, fixedClock(), row.Timestamp)
	assert.NotEmpty(t, row.ID)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, row.ID, sink.rows[0].ID)
}

func TestHandleTwiceGivesIndependentSamples(t *testing.T) {
	eng := &fakeEngine{}
	h := NewHandler(eng, pose.NewSampler(0), nil)

	a, err := h.Handle(context.Background())
	require.NoError(t, err)
	b, err := h.Handle(context.Background())
	require.NoError(t, err)

	require.Len(t, eng.poses, 2)
	assert.NotEqual(t, eng.poses[0], eng.poses[1])
	assert.NotEqual(t, a.ID, b.ID)
}

func TestHandleReportsEngineRejection(t *testing.T) {
	eng := &fakeEngine{err: engine.ErrNotStarted}
	sink := &sinkWriter{}
	h := NewHandler(eng, pose.NewSampler(1), sink)

	row, err := h.Handle(context.Background())
	assert.ErrorIs(t, err, engine.ErrNotStarted)
	assert.Equal(t, record.StatusFailed, row.Status)
	assert.Equal(t, engine.ErrNotStarted.Error(), row.Error)
	assert.Empty(t, eng.poses)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, record.StatusFailed, sink.rows[0].Status)
}

func TestHandleIgnoresSinkFailure(t *testing.T) {
	eng := &fakeEngine{}
	h := NewHandler(eng, pose.NewSampler(1), &sinkWriter{err: errors.New("disk full")})
	_, err := h.Handle(context.Background())
	assert.NoError(t, err)
	assert.Len(t, eng.poses, 1)
}
