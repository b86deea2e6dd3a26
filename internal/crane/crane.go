// Package crane models a single tower crane and the ordered set of cranes on a site.
package crane

import (
	"errors"
	"fmt"
	"math"
	"time"

	"craneguard/internal/config"
	"craneguard/internal/geometry"
)

var (
	// ErrExists is returned when registering an id that is already present.
	ErrExists = errors.New("crane already exists")
	// ErrNotFound is returned when an id is not registered.
	ErrNotFound = errors.New("crane not found")
	// ErrInvalidCrane is returned for records that cannot describe a crane.
	ErrInvalidCrane = errors.New("invalid crane")
)

// Crane holds the fixed dimensions and the mutable pose of one crane.
// Angles are degrees, speeds degrees per second.
type Crane struct {
	ID         string
	Name       string
	BaseX      float64
	BaseY      float64
	MastHeight float64
	BoomLength float64

	slewAngle    float64
	luffingAngle float64
	slewSpeed    float64
	luffingSpeed float64
	active       bool
	lastUpdate   time.Time
}

// New creates a crane from its configuration record.
func New(c config.Crane) (*Crane, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidCrane)
	}
	if !(c.BoomLength > 0) {
		return nil, fmt.Errorf("%w: %s boom length %v", ErrInvalidCrane, c.ID, c.BoomLength)
	}
	name := c.Name
	if name == "" {
		name = c.ID
	}
	cr := &Crane{
		ID:         c.ID,
		Name:       name,
		BaseX:      c.BaseX,
		BaseY:      c.BaseY,
		MastHeight: c.MastHeight,
		BoomLength: c.BoomLength,
		active:     c.IsActive(),
		lastUpdate: time.Now().UTC(),
	}
	cr.SetSlewAngle(c.InitialSlewAngle)
	cr.SetLuffingAngle(c.InitialLuffingAngle)
	cr.slewSpeed = c.SlewSpeed
	cr.luffingSpeed = c.LuffingSpeed
	return cr, nil
}

func (c *Crane) SlewAngle() float64 { return c.slewAngle }
func (c *Crane) LuffingAngle() float64 { return c.luffingAngle }
func (c *Crane) SlewSpeed() float64 { return c.slewSpeed }
func (c *Crane) LuffingSpeed() float64 { return c.luffingSpeed }
func (c *Crane) Active() bool { return c.active }
func (c *Crane) LastUpdate() time.Time { return c.lastUpdate }

// Base returns the mast foot on the site plane.
func (c *Crane) Base() geometry.Point2D {
	return geometry.Point2D{X: c.BaseX, Y: c.BaseY}
}

// Tip returns the current boom tip position.
func (c *Crane) Tip() geometry.Point3D {
	return geometry.BoomTip(c.Base(), c.MastHeight, c.BoomLength, c.slewAngle, c.luffingAngle)
}

// Segment returns the boom from mast top to tip.
func (c *Crane) Segment() geometry.Segment {
	return geometry.BoomSegment(c.Base(), c.MastHeight, c.BoomLength, c.slewAngle, c.luffingAngle)
}

// FutureTip forecasts the tip t seconds ahead at the current speeds.
func (c *Crane) FutureTip(t float64) geometry.Point3D {
	return geometry.FutureTip(c.Base(), c.MastHeight, c.BoomLength, c.slewAngle, c.luffingAngle, c.slewSpeed, c.luffingSpeed, t)
}

// WorkingRadius is the horizontal reach at the current luffing angle.
func (c *Crane) WorkingRadius() float64 {
	return c.BoomLength * math.Cos(c.luffingAngle*math.Pi/180)
}

// MaxWorkingRadius is the reach with the boom horizontal.
func (c *Crane) MaxWorkingRadius() float64 {
	return c.BoomLength
}

// Moving reports whether either angular speed exceeds threshold in magnitude.
func (c *Crane) Moving(threshold float64) bool {
	return math.Abs(c.slewSpeed) > threshold || math.Abs(c.luffingSpeed) > threshold
}

// Advance moves the boom by dt seconds at the current speeds.
// Inactive cranes are left untouched.
func (c *Crane) Advance(dt float64, now time.Time) {
	if !c.active {
		return
	}
	c.slewAngle = geometry.NormalizeSlew(c.slewAngle + c.slewSpeed*dt)
	c.luffingAngle = geometry.ClampLuffing(c.luffingAngle + c.luffingSpeed*dt)
	c.lastUpdate = now
}

func (c *Crane) SetSlewAngle(deg float64) { c.slewAngle = geometry.NormalizeSlew(deg) }
func (c *Crane) SetLuffingAngle(deg float64) { c.luffingAngle = geometry.ClampLuffing(deg) }
func (c *Crane) SetSlewSpeed(v float64) { c.slewSpeed = v }
func (c *Crane) SetLuffingSpeed(v float64) { c.luffingSpeed = v }
func (c *Crane) SetActive(active bool) { c.active = active }

// Stop zeroes both angular speeds.
func (c *Crane) Stop() {
	c.slewSpeed = 0
	c.luffingSpeed = 0
}
