package collision

import "craneguard/internal/config"

// MotionThreshold is the angular speed (deg/s) above which a crane counts as moving.
const MotionThreshold = 0.01

// Tier holds the limits at or below which a pair is raised to one level.
type Tier struct {
	Distance        float64
	TimeToCollision float64
}

// Thresholds maps distances and times to levels, most severe tier first.
type Thresholds struct {
	Danger  Tier
	Warning Tier
	Caution Tier
}

// Prediction configures the trajectory forecast, all values in seconds
// except SafetyMargin (metres).
type Prediction struct {
	Horizon      float64
	Step         float64
	SafetyMargin float64
}

// ThresholdsFromConfig converts the site alert settings.
func ThresholdsFromConfig(a config.Alerts) Thresholds {
	return Thresholds{
		Danger:  Tier{Distance: a.Danger.DistanceM, TimeToCollision: a.Danger.TimeToCollisionS},
		Warning: Tier{Distance: a.Warning.DistanceM, TimeToCollision: a.Warning.TimeToCollisionS},
		Caution: Tier{Distance: a.Caution.DistanceM, TimeToCollision: a.Caution.TimeToCollisionS},
	}
}

// PredictionFromConfig converts the site forecast settings.
func PredictionFromConfig(p config.Prediction) Prediction {
	return Prediction{Horizon: p.HorizonS, Step: p.StepS, SafetyMargin: p.SafetyMarginM}
}

// DistanceLevel classifies a current distance.
func (t Thresholds) DistanceLevel(d float64) Level {
	switch {
	case d <= t.Danger.Distance:
		return Danger
	case d <= t.Warning.Distance:
		return Warning
	case d <= t.Caution.Distance:
		return Caution
	}
	return Normal
}

// TimeLevel classifies a time-to-collision in seconds.
func (t Thresholds) TimeLevel(ttc float64) Level {
	switch {
	case ttc <= t.Danger.TimeToCollision:
		return Danger
	case ttc <= t.Warning.TimeToCollision:
		return Warning
	case ttc <= t.Caution.TimeToCollision:
		return Caution
	}
	return Normal
}

// Classify fuses the distance level with the time level, if a
// time-to-collision is known.
func (t Thresholds) Classify(distance float64, ttc *float64) Level {
	level := t.DistanceLevel(distance)
	if ttc != nil {
		level = MaxLevel(level, t.TimeLevel(*ttc))
	}
	return level
}
