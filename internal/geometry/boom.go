package geometry

import "math"

// Luffing limits in degrees above horizontal.
const (
	MinLuffing = 0.0
	MaxLuffing = 80.0
)

// NormalizeSlew wraps a slew angle into [0, 360).
func NormalizeSlew(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	// m+360 rounds up to exactly 360 for tiny negative inputs, and Mod
	// keeps the sign of a negative zero.
	if m >= 360 || m == 0 {
		return 0
	}
	return m
}

// ClampLuffing limits a luffing angle to [MinLuffing, MaxLuffing].
func ClampLuffing(deg float64) float64 {
	return math.Max(MinLuffing, math.Min(MaxLuffing, deg))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoomTip returns the tip position of a boom mounted on a mast at base.
// Slew 0 points along +Y and increases clockwise seen from above.
func BoomTip(base Point2D, mastHeight, boomLength, slewDeg, luffingDeg float64) Point3D {
	slew := radians(slewDeg)
	luff := radians(luffingDeg)
	reach := boomLength * math.Cos(luff)
	return Point3D{
		X: base.X + reach*math.Sin(slew),
		Y: base.Y + reach*math.Cos(slew),
		Z: mastHeight + boomLength*math.Sin(luff),
	}
}

// BoomSegment returns the boom as a segment from the mast top to the tip.
func BoomSegment(base Point2D, mastHeight, boomLength, slewDeg, luffingDeg float64) Segment {
	return Segment{
		Start: Point3D{X: base.X, Y: base.Y, Z: mastHeight},
		End:   BoomTip(base, mastHeight, boomLength, slewDeg, luffingDeg),
	}
}

// FutureTip forecasts the tip position t seconds ahead assuming constant
// angular speeds (deg/s).
func FutureTip(base Point2D, mastHeight, boomLength, slewDeg, luffingDeg, slewSpeed, luffingSpeed, t float64) Point3D {
	slew := NormalizeSlew(slewDeg + slewSpeed*t)
	luff := ClampLuffing(luffingDeg + luffingSpeed*t)
	return BoomTip(base, mastHeight, boomLength, slew, luff)
}
