package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// Default table names used when none are configured.
const (
	DefaultCaptureTable = "sensor_captures"
	DefaultStateTable   = "host_state"
	defaultGreptimePort = 4001
	greptimeTimeout     = 5 * time.Second
)

// greptimeClient is the subset of the ingester client the writer needs.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes capture and state rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client       greptimeClient
	captureTable string
	stateTable   string
}

// NewGreptimeDBWriter connects to endpoint (host or host:port). Tables are
// created by GreptimeDB on first write.
func NewGreptimeDBWriter(endpoint, database, captureTable, stateTable string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if captureTable == "" {
		captureTable = DefaultCaptureTable
	}
	if stateTable == "" {
		stateTable = DefaultStateTable
	}
	return &GreptimeDBWriter{client: client, captureTable: captureTable, stateTable: stateTable}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	if endpoint == "" {
		return "", 0, fmt.Errorf("greptime endpoint is empty")
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// WriteCapture inserts a single capture row.
func (w *GreptimeDBWriter) WriteCapture(row CaptureRow) error {
	return w.WriteCaptures([]CaptureRow{row})
}

// WriteCaptures inserts multiple capture rows.
func (w *GreptimeDBWriter) WriteCaptures(rows []CaptureRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.captureTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("host_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("sensor", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("capture_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("frame", types.UINT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("pose", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("status", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("error", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		poseJSON, err := json.Marshal(r.Pose)
		if err != nil {
			return err
		}
		if err := tbl.AddRow(r.HostID, r.Sensor, r.ID, r.Frame, string(poseJSON), r.Status, r.Error, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.captureTable, tbl)
}

// WriteState inserts a host state row.
func (w *GreptimeDBWriter) WriteState(row StateRow) error {
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("host_id", types.STRING); err != nil {
		return err
	}
	for _, name := range []string{"frames", "captures_ok", "captures_failed", "tick_errors"} {
		if err := tbl.AddFieldColumn(name, types.UINT64); err != nil {
			return err
		}
	}
	if err := tbl.AddFieldColumn("lag_ms", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := tbl.AddRow(row.HostID, row.Frames, row.CapturesOK, row.CapturesFailed, row.TickErrors, row.LagMS, row.Timestamp); err != nil {
		return err
	}
	return w.write(w.stateTable, tbl)
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table) error {
	ctx, cancel := context.WithTimeout(context.Background(), greptimeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write %s: %w", name, err)
	}
	return nil
}
