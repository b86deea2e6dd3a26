// YAML site config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a decoded configuration breaks a rule the
// schema cannot express.
var ErrInvalid = errors.New("invalid configuration")

// MaxPredictionSamples bounds horizon_s / step_s, the number of forecast
// samples taken per crane pair and tick.
const MaxPredictionSamples = 10000

// Crane is the configuration record a crane is created from.
type Crane struct {
	ID                  string  `yaml:"id" json:"id"`
	Name                string  `yaml:"name" json:"name"`
	BaseX               float64 `yaml:"base_x" json:"base_x"`
	BaseY               float64 `yaml:"base_y" json:"base_y"`
	MastHeight          float64 `yaml:"mast_height" json:"mast_height"`
	BoomLength          float64 `yaml:"boom_length" json:"boom_length"`
	InitialSlewAngle    float64 `yaml:"initial_slew_angle" json:"initial_slew_angle"`
	InitialLuffingAngle float64 `yaml:"initial_luffing_angle" json:"initial_luffing_angle"`
	SlewSpeed           float64 `yaml:"slew_speed" json:"slew_speed"`
	LuffingSpeed        float64 `yaml:"luffing_speed" json:"luffing_speed"`
	// Active defaults to true when omitted.
	Active *bool `yaml:"active,omitempty" json:"active,omitempty"`
}

// IsActive reports the configured active flag.
func (c Crane) IsActive() bool {
	return c.Active == nil || *c.Active
}

// Tier holds the thresholds that raise a pair to one alert level.
type Tier struct {
	DistanceM        float64 `yaml:"distance_m"`
	TimeToCollisionS float64 `yaml:"time_to_collision_s"`
}

// Alerts groups the per-level thresholds, most severe first.
type Alerts struct {
	Danger  Tier `yaml:"danger"`
	Warning Tier `yaml:"warning"`
	Caution Tier `yaml:"caution"`
}

// Prediction configures the trajectory forecast.
type Prediction struct {
	HorizonS      float64 `yaml:"horizon_s"`
	StepS         float64 `yaml:"step_s"`
	SafetyMarginM float64 `yaml:"safety_margin_m"`
}

// EventLog bounds the in-memory transition log.
type EventLog struct {
	Size   int `yaml:"size"`
	Recent int `yaml:"recent"`
}

// SiteConfig is the root configuration for one construction site.
type SiteConfig struct {
	SiteID          string            `yaml:"site_id"`
	Scenario        string            `yaml:"scenario"`
	SpeedMultiplier float64           `yaml:"speed_multiplier"`
	Cranes          []Crane           `yaml:"cranes"`
	Alerts          Alerts            `yaml:"alerts"`
	Prediction      Prediction        `yaml:"prediction"`
	EventLog        EventLog          `yaml:"event_log"`
	Colors          map[string]string `yaml:"colors"`
}

// Default returns a configuration with no cranes and the stock thresholds.
func Default() *SiteConfig {
	cfg := &SiteConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with the stock settings.
func (c *SiteConfig) ApplyDefaults() {
	if c.SpeedMultiplier == 0 {
		c.SpeedMultiplier = 1
	}
	setTier(&c.Alerts.Danger, Tier{DistanceM: 5, TimeToCollisionS: 5})
	setTier(&c.Alerts.Warning, Tier{DistanceM: 10, TimeToCollisionS: 15})
	setTier(&c.Alerts.Caution, Tier{DistanceM: 20, TimeToCollisionS: 30})
	if c.Prediction.HorizonS == 0 {
		c.Prediction.HorizonS = 30
	}
	if c.Prediction.StepS == 0 {
		c.Prediction.StepS = 0.5
	}
	if c.Prediction.SafetyMarginM == 0 {
		c.Prediction.SafetyMarginM = 5
	}
	if c.EventLog.Size == 0 {
		c.EventLog.Size = 1000
	}
	if c.EventLog.Recent == 0 {
		c.EventLog.Recent = 20
	}
}

func setTier(t *Tier, def Tier) {
	if t.DistanceM == 0 {
		t.DistanceM = def.DistanceM
	}
	if t.TimeToCollisionS == 0 {
		t.TimeToCollisionS = def.TimeToCollisionS
	}
}

// Validate checks cross-field rules: unique crane ids and thresholds that
// widen from DANGER to CAUTION.
func (c *SiteConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Cranes))
	for _, cr := range c.Cranes {
		if cr.ID == "" {
			return fmt.Errorf("%w: crane without id", ErrInvalid)
		}
		if cr.BoomLength <= 0 {
			return fmt.Errorf("%w: crane %s boom_length must be positive", ErrInvalid, cr.ID)
		}
		if _, ok := seen[cr.ID]; ok {
			return fmt.Errorf("%w: duplicate crane id %s", ErrInvalid, cr.ID)
		}
		seen[cr.ID] = struct{}{}
	}
	a := c.Alerts
	if a.Danger.DistanceM > a.Warning.DistanceM || a.Warning.DistanceM > a.Caution.DistanceM {
		return fmt.Errorf("%w: distance thresholds must widen from danger to caution", ErrInvalid)
	}
	if a.Danger.TimeToCollisionS > a.Warning.TimeToCollisionS || a.Warning.TimeToCollisionS > a.Caution.TimeToCollisionS {
		return fmt.Errorf("%w: time thresholds must widen from danger to caution", ErrInvalid)
	}
	if c.Prediction.StepS <= 0 || c.Prediction.HorizonS < c.Prediction.StepS {
		return fmt.Errorf("%w: prediction step must be positive and not exceed the horizon", ErrInvalid)
	}
	if c.Prediction.HorizonS/c.Prediction.StepS > MaxPredictionSamples {
		return fmt.Errorf("%w: prediction takes more than %d samples per pair", ErrInvalid, MaxPredictionSamples)
	}
	return nil
}

// Load loads YAML config and validates it against a CUE schema.
// An empty schema path skips schema validation.
func Load(configPath, cueSchemaPath string) (*SiteConfig, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", configPath, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
