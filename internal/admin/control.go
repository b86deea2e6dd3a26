package admin

import "craneguard/internal/sim"

// controlRequest changes any subset of a crane's motion parameters.
type controlRequest struct {
	SlewSpeed    *float64 `json:"slew_speed,omitempty"`
	LuffingSpeed *float64 `json:"luffing_speed,omitempty"`
	SlewAngle    *float64 `json:"slew_angle,omitempty"`
	LuffingAngle *float64 `json:"luffing_angle,omitempty"`
	Active       *bool    `json:"active,omitempty"`
}

// apply reports false when id is unknown; nothing is changed in that case.
func (c controlRequest) apply(s *sim.Simulator, id string) bool {
	if _, ok := s.Crane(id); !ok {
		return false
	}
	if c.SlewAngle != nil {
		s.SetSlewAngle(id, *c.SlewAngle)
	}
	if c.LuffingAngle != nil {
		s.SetLuffingAngle(id, *c.LuffingAngle)
	}
	if c.SlewSpeed != nil {
		s.SetSlewSpeed(id, *c.SlewSpeed)
	}
	if c.LuffingSpeed != nil {
		s.SetLuffingSpeed(id, *c.LuffingSpeed)
	}
	if c.Active != nil {
		s.SetActive(id, *c.Active)
	}
	return true
}
