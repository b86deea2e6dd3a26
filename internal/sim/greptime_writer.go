package sim

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"craneguard/internal/telemetry"
)

// DefaultGreptimePort is the gRPC port used when the endpoint omits one.
const DefaultGreptimePort = 4001

type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes crane states, pair results, alert transitions
// and site status to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client          greptimeClient
	craneTable      string
	collisionTable  string
	alertEventTable string
	statusTable     string
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port") and
// writes into database.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeDBWriter{
		client:          client,
		craneTable:      telemetry.CraneStateTableName,
		collisionTable:  telemetry.CollisionTableName,
		alertEventTable: telemetry.AlertEventTableName,
		statusTable:     telemetry.SiteStatusTableName,
	}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port given
		return endpoint, DefaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// WriteSnapshot inserts one batch per table for s. Empty tables are skipped.
func (w *GreptimeDBWriter) WriteSnapshot(s Snapshot) error {
	var tables []*table.Table
	for _, build := range []func(Snapshot) (*table.Table, error){
		w.craneStateTable, w.collisionsTable, w.alertEventsTable, w.siteStatusTable,
	} {
		tbl, err := build(s)
		if err != nil {
			return err
		}
		if tbl != nil {
			tables = append(tables, tbl)
		}
	}
	if len(tables) == 0 {
		return nil
	}
	resp, err := w.client.Write(context.Background(), tables...)
	if err != nil {
		slog.Error("greptime write failed", "err", err)
		return err
	}
	slog.Debug("greptime write", "tables", len(tables), "affected_rows", resp.GetAffectedRows().GetValue())
	return nil
}

func (w *GreptimeDBWriter) craneStateTable(s Snapshot) (*table.Table, error) {
	rows := CraneStateRows(s)
	if len(rows) == 0 {
		return nil, nil
	}
	tbl, err := table.New(w.craneTable)
	if err != nil {
		return nil, err
	}
	tbl.AddTagColumn("site_id", types.STRING)
	tbl.AddTagColumn("crane_id", types.STRING)
	tbl.AddFieldColumn("slew_angle", types.FLOAT64)
	tbl.AddFieldColumn("luffing_angle", types.FLOAT64)
	tbl.AddFieldColumn("slew_speed", types.FLOAT64)
	tbl.AddFieldColumn("luffing_speed", types.FLOAT64)
	tbl.AddFieldColumn("tip_x", types.FLOAT64)
	tbl.AddFieldColumn("tip_y", types.FLOAT64)
	tbl.AddFieldColumn("tip_z", types.FLOAT64)
	tbl.AddFieldColumn("working_radius", types.FLOAT64)
	tbl.AddFieldColumn("active", types.BOOLEAN)
	tbl.AddFieldColumn("alert_level", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		if err := tbl.AddRow(r.SiteID, r.CraneID, r.SlewAngle, r.LuffingAngle, r.SlewSpeed, r.LuffingSpeed,
			r.TipX, r.TipY, r.TipZ, r.WorkingRadius, r.Active, r.AlertLevel, r.Timestamp); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (w *GreptimeDBWriter) collisionsTable(s Snapshot) (*table.Table, error) {
	rows := CollisionRows(s)
	if len(rows) == 0 {
		return nil, nil
	}
	tbl, err := table.New(w.collisionTable)
	if err != nil {
		return nil, err
	}
	tbl.AddTagColumn("site_id", types.STRING)
	tbl.AddTagColumn("crane_a_id", types.STRING)
	tbl.AddTagColumn("crane_b_id", types.STRING)
	tbl.AddFieldColumn("alert_level", types.STRING)
	tbl.AddFieldColumn("current_distance", types.FLOAT64)
	tbl.AddFieldColumn("boom_tip_distance", types.FLOAT64)
	tbl.AddFieldColumn("overlap_exists", types.BOOLEAN)
	tbl.AddFieldColumn("min_predicted_distance", types.FLOAT64)
	tbl.AddFieldColumn("min_predicted_time", types.FLOAT64)
	tbl.AddFieldColumn("time_to_collision", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		if err := tbl.AddRow(r.SiteID, r.CraneA, r.CraneB, r.AlertLevel, r.CurrentDistance, r.TipDistance,
			r.Overlap, r.MinPredictedDistance, r.MinPredictedTime, r.TimeToCollision, r.Timestamp); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (w *GreptimeDBWriter) alertEventsTable(s Snapshot) (*table.Table, error) {
	rows := AlertEventRows(s)
	if len(rows) == 0 {
		return nil, nil
	}
	tbl, err := table.New(w.alertEventTable)
	if err != nil {
		return nil, err
	}
	tbl.AddTagColumn("site_id", types.STRING)
	tbl.AddTagColumn("crane_a_id", types.STRING)
	tbl.AddTagColumn("crane_b_id", types.STRING)
	tbl.AddFieldColumn("event_id", types.STRING)
	tbl.AddFieldColumn("from_level", types.STRING)
	tbl.AddFieldColumn("to_level", types.STRING)
	tbl.AddFieldColumn("distance", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	for _, r := range rows {
		if err := tbl.AddRow(r.SiteID, r.CraneA, r.CraneB, r.EventID, r.FromLevel, r.ToLevel, r.Distance, r.Timestamp); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (w *GreptimeDBWriter) siteStatusTable(s Snapshot) (*table.Table, error) {
	r := SiteStatusRow(s)
	tbl, err := table.New(w.statusTable)
	if err != nil {
		return nil, err
	}
	tbl.AddTagColumn("site_id", types.STRING)
	tbl.AddFieldColumn("run_id", types.STRING)
	tbl.AddFieldColumn("tick_count", types.INT64)
	tbl.AddFieldColumn("speed_multiplier", types.FLOAT64)
	tbl.AddFieldColumn("active_scenario", types.STRING)
	tbl.AddFieldColumn("total_cranes", types.INT64)
	tbl.AddFieldColumn("active_cranes", types.INT64)
	tbl.AddFieldColumn("highest_alert", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	if err := tbl.AddRow(r.SiteID, r.RunID, r.TickCount, r.SpeedMultiplier, r.ActiveScenario,
		int64(r.TotalCranes), int64(r.ActiveCranes), r.HighestAlert, r.Timestamp); err != nil {
		return nil, err
	}
	return tbl, nil
}
