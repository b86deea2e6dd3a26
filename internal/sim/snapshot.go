package sim

import (
	"math"
	"time"

	"craneguard/internal/alert"
	"craneguard/internal/collision"
	"craneguard/internal/crane"
	"craneguard/internal/geometry"
)

// CraneState is the serialized view of one crane.
type CraneState struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	BaseX            float64          `json:"base_x"`
	BaseY            float64          `json:"base_y"`
	MastHeight       float64          `json:"mast_height"`
	BoomLength       float64          `json:"boom_length"`
	SlewAngle        float64          `json:"slew_angle"`
	LuffingAngle     float64          `json:"luffing_angle"`
	SlewSpeed        float64          `json:"slew_speed"`
	LuffingSpeed     float64          `json:"luffing_speed"`
	BoomTip          geometry.Point3D `json:"boom_tip"`
	BoomSegment      geometry.Segment `json:"boom_segment"`
	WorkingRadius    float64          `json:"working_radius"`
	MaxWorkingRadius float64          `json:"max_working_radius"`
	IsActive         bool             `json:"is_active"`
	LastUpdate       time.Time        `json:"last_update"`
}

// CollisionState is the serialized view of one pair result.
type CollisionState struct {
	CraneA               string          `json:"crane_a_id"`
	CraneB               string          `json:"crane_b_id"`
	AlertLevel           collision.Level `json:"alert_level"`
	CurrentDistance      float64         `json:"current_distance"`
	BoomTipDistance      float64         `json:"boom_tip_distance"`
	OverlapExists        bool            `json:"overlap_exists"`
	TimeToCollision      *float64        `json:"time_to_collision"`
	MinPredictedDistance float64         `json:"min_predicted_distance"`
	MinPredictedTime     float64         `json:"min_predicted_time"`
	Timestamp            time.Time       `json:"timestamp"`
}

// AlertState is the serialized view of one alert message.
type AlertState struct {
	CraneA          string          `json:"crane_a_id"`
	CraneB          string          `json:"crane_b_id"`
	AlertLevel      collision.Level `json:"alert_level"`
	Message         string          `json:"message"`
	VoiceText       string          `json:"voice_text"`
	Color           string          `json:"color"`
	Distance        float64         `json:"distance"`
	TimeToCollision *float64        `json:"time_to_collision"`
	Timestamp       time.Time       `json:"timestamp"`
}

// EventState is the serialized view of a level transition.
type EventState struct {
	CraneA    string          `json:"crane_a_id"`
	CraneB    string          `json:"crane_b_id"`
	FromLevel collision.Level `json:"from_level"`
	ToLevel   collision.Level `json:"to_level"`
	Distance  float64         `json:"distance"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatusState is the serialized site summary.
type StatusState struct {
	TotalCranes  int                        `json:"total_cranes"`
	ActiveCranes int                        `json:"active_cranes"`
	TotalPairs   int                        `json:"total_pairs"`
	StatusCounts map[collision.Level]int    `json:"status_counts"`
	HighestAlert collision.Level            `json:"highest_alert"`
	CraneAlerts  map[string]collision.Level `json:"crane_alerts"`
	RecentEvents []EventState               `json:"recent_events"`
}

// SimulationState carries driver metadata.
type SimulationState struct {
	IsRunning       bool      `json:"is_running"`
	TickCount       int64     `json:"tick_count"`
	SpeedMultiplier float64   `json:"speed_multiplier"`
	ActiveScenario  string    `json:"active_scenario"`
	SiteID          string    `json:"site_id"`
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
}

// Snapshot is the full site state delivered to sinks after every tick.
type Snapshot struct {
	Cranes      []CraneState     `json:"cranes"`
	Collisions  []CollisionState `json:"collisions"`
	Alerts      []AlertState     `json:"alerts"`
	Status      StatusState      `json:"status"`
	Simulation  SimulationState  `json:"simulation"`
	Transitions []EventState     `json:"transitions"`
}

// Alert returns the alert for the pair (a, b) if one was raised.
func (s Snapshot) Alert(a, b string) (AlertState, bool) {
	key := collision.KeyOf(a, b)
	for _, al := range s.Alerts {
		if collision.KeyOf(al.CraneA, al.CraneB) == key {
			return al, true
		}
	}
	return AlertState{}, false
}

// Collision returns the result for the pair (a, b).
func (s Snapshot) Collision(a, b string) (CollisionState, bool) {
	key := collision.KeyOf(a, b)
	for _, c := range s.Collisions {
		if collision.KeyOf(c.CraneA, c.CraneB) == key {
			return c, true
		}
	}
	return CollisionState{}, false
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func round2(v float64) float64 { return round(v, 2) }

func round1(v float64) float64 { return round(v, 1) }

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round1(*v)
	return &r
}

func roundPoint(p geometry.Point3D) geometry.Point3D {
	return geometry.Point3D{X: round2(p.X), Y: round2(p.Y), Z: round2(p.Z)}
}

func craneState(c *crane.Crane) CraneState {
	seg := c.Segment()
	return CraneState{
		ID:               c.ID,
		Name:             c.Name,
		BaseX:            round2(c.BaseX),
		BaseY:            round2(c.BaseY),
		MastHeight:       round2(c.MastHeight),
		BoomLength:       round2(c.BoomLength),
		SlewAngle:        round2(c.SlewAngle()),
		LuffingAngle:     round2(c.LuffingAngle()),
		SlewSpeed:        round2(c.SlewSpeed()),
		LuffingSpeed:     round2(c.LuffingSpeed()),
		BoomTip:          roundPoint(c.Tip()),
		BoomSegment:      geometry.Segment{Start: roundPoint(seg.Start), End: roundPoint(seg.End)},
		WorkingRadius:    round2(c.WorkingRadius()),
		MaxWorkingRadius: round2(c.MaxWorkingRadius()),
		IsActive:         c.Active(),
		LastUpdate:       c.LastUpdate(),
	}
}

func collisionState(r collision.Result) CollisionState {
	return CollisionState{
		CraneA:               r.CraneA,
		CraneB:               r.CraneB,
		AlertLevel:           r.Level,
		CurrentDistance:      round2(r.CurrentDistance),
		BoomTipDistance:      round2(r.TipDistance),
		OverlapExists:        r.Overlap,
		TimeToCollision:      roundPtr(r.TimeToCollision),
		MinPredictedDistance: round2(r.MinPredictedDistance),
		MinPredictedTime:     round1(r.MinPredictedTime),
		Timestamp:            r.Timestamp,
	}
}

func alertState(m alert.Message) AlertState {
	return AlertState{
		CraneA:          m.CraneA,
		CraneB:          m.CraneB,
		AlertLevel:      m.Level,
		Message:         m.Text,
		VoiceText:       m.Voice,
		Color:           m.Color,
		Distance:        round1(m.Distance),
		TimeToCollision: roundPtr(m.TimeToCollision),
		Timestamp:       m.Timestamp,
	}
}

func eventStates(evs []collision.Event) []EventState {
	out := make([]EventState, 0, len(evs))
	for _, e := range evs {
		out = append(out, EventState{
			CraneA:    e.CraneA,
			CraneB:    e.CraneB,
			FromLevel: e.From,
			ToLevel:   e.To,
			Distance:  round2(e.Distance),
			Timestamp: e.Timestamp,
		})
	}
	return out
}

func statusState(st collision.Status) StatusState {
	return StatusState{
		TotalCranes:  st.TotalCranes,
		ActiveCranes: st.ActiveCranes,
		TotalPairs:   st.TotalPairs,
		StatusCounts: st.StatusCounts,
		HighestAlert: st.HighestAlert,
		CraneAlerts:  st.CraneAlerts,
		RecentEvents: eventStates(st.RecentEvents),
	}
}

// buildSnapshot converts engine output into the serialized layout. Values
// are rounded here and nowhere else.
func buildSnapshot(cranes []*crane.Crane, results []collision.Result, alerts []alert.Message, st collision.Status, transitions []collision.Event, meta SimulationState) Snapshot {
	snap := Snapshot{
		Cranes:      make([]CraneState, 0, len(cranes)),
		Collisions:  make([]CollisionState, 0, len(results)),
		Alerts:      make([]AlertState, 0, len(alerts)),
		Status:      statusState(st),
		Simulation:  meta,
		Transitions: eventStates(transitions),
	}
	for _, c := range cranes {
		snap.Cranes = append(snap.Cranes, craneState(c))
	}
	for _, r := range results {
		snap.Collisions = append(snap.Collisions, collisionState(r))
	}
	for _, m := range alerts {
		snap.Alerts = append(snap.Alerts, alertState(m))
	}
	return snap
}

// NewCraneState returns the serialized view of c.
func NewCraneState(c crane.Crane) CraneState {
	return craneState(&c)
}
