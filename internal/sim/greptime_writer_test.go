package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"craneguard/internal/collision"
)

type mockGreptimeClient struct {
	tables []*table.Table
	err    error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tables = append(m.tables, tables...)
	return &gpb.GreptimeResponse{}, nil
}

// column returns the name of column i of a captured table.
func column(tbl *table.Table, i int) string {
	return tbl.GetRows().Schema[i].ColumnName
}

func newTestGreptimeWriter(m *mockGreptimeClient) *GreptimeDBWriter {
	return &GreptimeDBWriter{
		client:          m,
		craneTable:      "crane_state",
		collisionTable:  "crane_collisions",
		alertEventTable: "crane_alert_events",
		statusTable:     "site_status",
	}
}

func testSnapshot() Snapshot {
	ts := time.Unix(0, 0).UTC()
	ttc := 4.5
	return Snapshot{
		Cranes: []CraneState{
			{ID: "TC-1", SlewAngle: 90, IsActive: true},
			{ID: "TC-2", SlewAngle: 270, IsActive: true},
		},
		Collisions: []CollisionState{{
			CraneA: "TC-1", CraneB: "TC-2", AlertLevel: collision.Danger,
			CurrentDistance: 3.2, OverlapExists: true, TimeToCollision: &ttc, Timestamp: ts,
		}},
		Status: StatusState{
			TotalCranes: 2, ActiveCranes: 2, TotalPairs: 1, HighestAlert: collision.Danger,
			CraneAlerts: map[string]collision.Level{"TC-1": collision.Danger, "TC-2": collision.Danger},
		},
		Simulation: SimulationState{SiteID: "site-a", RunID: "run-1", TickCount: 7, SpeedMultiplier: 1, Timestamp: ts},
		Transitions: []EventState{{
			CraneA: "TC-1", CraneB: "TC-2", FromLevel: collision.Warning, ToLevel: collision.Danger, Distance: 3.2, Timestamp: ts,
		}},
	}
}

func TestGreptimeWriterSnapshotTables(t *testing.T) {
	m := &mockGreptimeClient{}
	w := newTestGreptimeWriter(m)

	if err := w.WriteSnapshot(testSnapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if len(m.tables) != 4 {
		t.Fatalf("expected 4 tables, got %d", len(m.tables))
	}
	if got := column(m.tables[0], 1); got != "crane_id" {
		t.Fatalf("first table column = %s, want crane_id", got)
	}

	cranes := m.tables[0].GetRows().Rows
	if len(cranes) != 2 {
		t.Fatalf("expected 2 crane rows, got %d", len(cranes))
	}
	if got := cranes[0].Values[1].GetStringValue(); got != "TC-1" {
		t.Fatalf("crane_id = %s, want TC-1", got)
	}
	if got := cranes[1].Values[2].GetF64Value(); got != 270 {
		t.Fatalf("slew_angle = %v, want 270", got)
	}
	if got := cranes[0].Values[11].GetStringValue(); got != "DANGER" {
		t.Fatalf("alert_level = %s, want DANGER", got)
	}

	pairs := m.tables[1].GetRows().Rows
	if got := pairs[0].Values[3].GetStringValue(); got != "DANGER" {
		t.Fatalf("pair alert_level = %s, want DANGER", got)
	}
	if got := pairs[0].Values[9].GetF64Value(); got != 4.5 {
		t.Fatalf("time_to_collision = %v, want 4.5", got)
	}

	events := m.tables[2].GetRows().Rows
	if got := events[0].Values[4].GetStringValue(); got != "WARNING" {
		t.Fatalf("from_level = %s, want WARNING", got)
	}
	if events[0].Values[3].GetStringValue() == "" {
		t.Fatal("expected event id")
	}

	status := m.tables[3].GetRows().Rows
	if got := status[0].Values[2].GetI64Value(); got != 7 {
		t.Fatalf("tick_count = %d, want 7", got)
	}
}

func TestGreptimeWriterSkipsEmptyTables(t *testing.T) {
	m := &mockGreptimeClient{}
	w := newTestGreptimeWriter(m)

	snap := Snapshot{Simulation: SimulationState{SiteID: "site-a", Timestamp: time.Unix(0, 0)}}
	if err := w.WriteSnapshot(snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if len(m.tables) != 1 || column(m.tables[0], 1) != "run_id" {
		t.Fatalf("expected only the status table, got %d tables", len(m.tables))
	}
}

func TestGreptimeWriterReturnsClientError(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("unavailable")}
	w := newTestGreptimeWriter(m)
	if err := w.WriteSnapshot(testSnapshot()); err == nil {
		t.Fatal("expected error from client")
	}
}

func TestSplitEndpoint(t *testing.T) {
	host, port, err := splitEndpoint("greptimedb:4002")
	if err != nil || host != "greptimedb" || port != 4002 {
		t.Fatalf("unexpected split: %s %d %v", host, port, err)
	}
	host, port, err = splitEndpoint("localhost")
	if err != nil || host != "localhost" || port != DefaultGreptimePort {
		t.Fatalf("unexpected default split: %s %d %v", host, port, err)
	}
	if _, _, err := splitEndpoint("localhost:abc"); err == nil {
		t.Fatal("expected error for bad port")
	}
}
