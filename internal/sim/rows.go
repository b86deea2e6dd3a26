package sim

import (
	"github.com/google/uuid"

	"craneguard/internal/telemetry"
)

// CraneStateRows flattens the crane states of s for export.
func CraneStateRows(s Snapshot) []telemetry.CraneStateRow {
	rows := make([]telemetry.CraneStateRow, 0, len(s.Cranes))
	for _, c := range s.Cranes {
		level := s.Status.CraneAlerts[c.ID]
		rows = append(rows, telemetry.CraneStateRow{
			SiteID:        s.Simulation.SiteID,
			CraneID:       c.ID,
			SlewAngle:     c.SlewAngle,
			LuffingAngle:  c.LuffingAngle,
			SlewSpeed:     c.SlewSpeed,
			LuffingSpeed:  c.LuffingSpeed,
			TipX:          c.BoomTip.X,
			TipY:          c.BoomTip.Y,
			TipZ:          c.BoomTip.Z,
			WorkingRadius: c.WorkingRadius,
			Active:        c.IsActive,
			AlertLevel:    level.String(),
			Timestamp:     s.Simulation.Timestamp,
		})
	}
	return rows
}

// CollisionRows flattens the pair results of s for export.
func CollisionRows(s Snapshot) []telemetry.CollisionRow {
	rows := make([]telemetry.CollisionRow, 0, len(s.Collisions))
	for _, c := range s.Collisions {
		ttc := -1.0
		if c.TimeToCollision != nil {
			ttc = *c.TimeToCollision
		}
		rows = append(rows, telemetry.CollisionRow{
			SiteID:               s.Simulation.SiteID,
			CraneA:               c.CraneA,
			CraneB:               c.CraneB,
			AlertLevel:           c.AlertLevel.String(),
			CurrentDistance:      c.CurrentDistance,
			TipDistance:          c.BoomTipDistance,
			Overlap:              c.OverlapExists,
			MinPredictedDistance: c.MinPredictedDistance,
			MinPredictedTime:     c.MinPredictedTime,
			TimeToCollision:      ttc,
			Timestamp:            c.Timestamp,
		})
	}
	return rows
}

// AlertEventRows flattens the transitions of s for export. Each row gets a
// fresh event id.
func AlertEventRows(s Snapshot) []telemetry.AlertEventRow {
	rows := make([]telemetry.AlertEventRow, 0, len(s.Transitions))
	for _, e := range s.Transitions {
		rows = append(rows, telemetry.AlertEventRow{
			SiteID:    s.Simulation.SiteID,
			CraneA:    e.CraneA,
			CraneB:    e.CraneB,
			EventID:   uuid.NewString(),
			FromLevel: e.FromLevel.String(),
			ToLevel:   e.ToLevel.String(),
			Distance:  e.Distance,
			Timestamp: e.Timestamp,
		})
	}
	return rows
}

// SiteStatusRow summarizes s in one row.
func SiteStatusRow(s Snapshot) telemetry.SiteStatusRow {
	return telemetry.SiteStatusRow{
		SiteID:          s.Simulation.SiteID,
		RunID:           s.Simulation.RunID,
		TickCount:       s.Simulation.TickCount,
		SpeedMultiplier: s.Simulation.SpeedMultiplier,
		ActiveScenario:  s.Simulation.ActiveScenario,
		TotalCranes:     s.Status.TotalCranes,
		ActiveCranes:    s.Status.ActiveCranes,
		HighestAlert:    s.Status.HighestAlert.String(),
		Timestamp:       s.Simulation.Timestamp,
	}
}
