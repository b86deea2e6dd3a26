// Telemetry structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// CraneStateRow is one crane pose sample for GreptimeDB.
type CraneStateRow struct {
	SiteID        string    `json:"site_id"`        // TAG
	CraneID       string    `json:"crane_id"`       // TAG
	SlewAngle     float64   `json:"slew_angle"`     // FIELD
	LuffingAngle  float64   `json:"luffing_angle"`  // FIELD
	SlewSpeed     float64   `json:"slew_speed"`     // FIELD
	LuffingSpeed  float64   `json:"luffing_speed"`  // FIELD
	TipX          float64   `json:"tip_x"`          // FIELD
	TipY          float64   `json:"tip_y"`          // FIELD
	TipZ          float64   `json:"tip_z"`          // FIELD
	WorkingRadius float64   `json:"working_radius"` // FIELD
	Active        bool      `json:"active"`         // FIELD
	AlertLevel    string    `json:"alert_level"`    // FIELD
	Timestamp     time.Time `json:"ts"`             // TIME INDEX
}

// CollisionRow is one pair check result.
type CollisionRow struct {
	SiteID               string  `json:"site_id"`                // TAG
	CraneA               string  `json:"crane_a_id"`             // TAG
	CraneB               string  `json:"crane_b_id"`             // TAG
	AlertLevel           string  `json:"alert_level"`            // FIELD
	CurrentDistance      float64 `json:"current_distance"`       // FIELD
	TipDistance          float64 `json:"boom_tip_distance"`      // FIELD
	Overlap              bool    `json:"overlap_exists"`         // FIELD
	MinPredictedDistance float64 `json:"min_predicted_distance"` // FIELD
	MinPredictedTime     float64 `json:"min_predicted_time"`     // FIELD
	// TimeToCollision is -1 when no contact is forecast.
	TimeToCollision float64   `json:"time_to_collision"` // FIELD
	Timestamp       time.Time `json:"ts"`                // TIME INDEX
}

// AlertEventRow is one alert level transition of a pair.
type AlertEventRow struct {
	SiteID    string    `json:"site_id"`    // TAG
	CraneA    string    `json:"crane_a_id"` // TAG
	CraneB    string    `json:"crane_b_id"` // TAG
	EventID   string    `json:"event_id"`   // FIELD
	FromLevel string    `json:"from_level"` // FIELD
	ToLevel   string    `json:"to_level"`   // FIELD
	Distance  float64   `json:"distance"`   // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

func tableName(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// Table names used when writing to GreptimeDB. Each can be overridden via
// its environment variable.
var (
	CraneStateTableName = tableName("CRANE_STATE_TABLE", "crane_state")
	CollisionTableName  = tableName("COLLISION_TABLE", "crane_collisions")
	AlertEventTableName = tableName("ALERT_EVENT_TABLE", "crane_alert_events")
	SiteStatusTableName = tableName("SITE_STATUS_TABLE", "site_status")
)

func (CraneStateRow) TableName() string { return CraneStateTableName }
func (CollisionRow) TableName() string { return CollisionTableName }
func (AlertEventRow) TableName() string { return AlertEventTableName }
