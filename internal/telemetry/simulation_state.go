package telemetry

import "time"

// SiteStatusRow captures per-tick simulator state for a site.
type SiteStatusRow struct {
	SiteID          string    `json:"site_id"`
	RunID           string    `json:"run_id"`
	TickCount       int64     `json:"tick_count"`
	SpeedMultiplier float64   `json:"speed_multiplier"`
	ActiveScenario  string    `json:"active_scenario"`
	TotalCranes     int       `json:"total_cranes"`
	ActiveCranes    int       `json:"active_cranes"`
	HighestAlert    string    `json:"highest_alert"`
	Timestamp       time.Time `json:"ts"`
}

func (SiteStatusRow) TableName() string { return SiteStatusTableName }
