package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func assertPointInDelta(t *testing.T, want, got Point3D) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func TestBoomTip(t *testing.T) {
	base := Point2D{X: 10, Y: 20}
	tests := []struct {
		name       string
		slew, luff float64
		want       Point3D
	}{
		{"north", 0, 0, Point3D{10, 80, 40}},
		{"east", 90, 0, Point3D{70, 20, 40}},
		{"south", 180, 0, Point3D{10, -40, 40}},
		{"west", 270, 0, Point3D{-50, 20, 40}},
		{"luffed up", 0, 30, Point3D{10, 20 + 60*math.Cos(math.Pi/6), 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPointInDelta(t, tt.want, BoomTip(base, 40, 60, tt.slew, tt.luff))
		})
	}
}

func TestBoomSegmentStartsAtMastTop(t *testing.T) {
	seg := BoomSegment(Point2D{X: 5, Y: -5}, 42, 50, 120, 10)
	assert.Equal(t, Point3D{5, -5, 42}, seg.Start)
	assert.Equal(t, BoomTip(Point2D{X: 5, Y: -5}, 42, 50, 120, 10), seg.End)
}

func TestDistanceSymmetry(t *testing.T) {
	a := Point3D{1.5, -2.25, 7}
	b := Point3D{-3.125, 4, 0.5}
	assert.Equal(t, Distance3D(a, b), Distance3D(b, a))
	assert.Equal(t, 0.0, Distance3D(a, a))
	assert.InDelta(t, 5.0, Distance2D(Point2D{0, 0}, Point2D{3, 4}), tol)
	assert.Equal(t, Distance2D(a.Plane(), b.Plane()), Distance2D(b.Plane(), a.Plane()))
}

func TestRadiiOverlapBoundary(t *testing.T) {
	assert.False(t, RadiiOverlap(Point2D{0, 0}, 60, Point2D{120, 0}, 60), "touching circles")
	assert.True(t, RadiiOverlap(Point2D{0, 0}, 60, Point2D{119.99, 0}, 60))
	assert.False(t, RadiiOverlap(Point2D{0, 0}, 60, Point2D{200, 0}, 60))
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name           string
		p1, q1, p2, q2 Point3D
		want           float64
	}{
		{"crossing at height", Point3D{-1, 0, 0}, Point3D{1, 0, 0}, Point3D{0, -1, 5}, Point3D{0, 1, 5}, 5},
		{"intersecting", Point3D{-1, 0, 0}, Point3D{1, 0, 0}, Point3D{0, -1, 0}, Point3D{0, 1, 0}, 0},
		{"parallel", Point3D{0, 0, 0}, Point3D{10, 0, 0}, Point3D{0, 3, 0}, Point3D{10, 3, 0}, 3},
		{"collinear gap", Point3D{0, 0, 0}, Point3D{1, 0, 0}, Point3D{3, 0, 0}, Point3D{5, 0, 0}, 2},
		{"endpoint closest", Point3D{0, 0, 0}, Point3D{1, 0, 0}, Point3D{2, 1, 0}, Point3D{2, 5, 0}, math.Sqrt(2)},
		{"point and segment", Point3D{5, 5, 0}, Point3D{5, 5, 0}, Point3D{0, 0, 0}, Point3D{10, 0, 0}, 5},
		{"two points", Point3D{1, 2, 3}, Point3D{1, 2, 3}, Point3D{4, 6, 3}, Point3D{4, 6, 3}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SegmentDistance(tt.p1, tt.q1, tt.p2, tt.q2), tol)
		})
	}
}

func TestSegmentDistanceExactSymmetry(t *testing.T) {
	a := BoomSegment(Point2D{0, 0}, 40, 60, 33.3, 7.1)
	b := BoomSegment(Point2D{70, 12}, 44, 55, 251.7, 12.9)
	want := SegmentDistance(a.Start, a.End, b.Start, b.End)

	perms := [][4]Point3D{
		{b.Start, b.End, a.Start, a.End},
		{a.End, a.Start, b.Start, b.End},
		{a.Start, a.End, b.End, b.Start},
		{a.End, a.Start, b.End, b.Start},
		{b.End, b.Start, a.End, a.Start},
	}
	for _, p := range perms {
		assert.Equal(t, want, SegmentDistance(p[0], p[1], p[2], p[3]))
	}
	assert.Equal(t, want, b.Distance(a))
}

func TestSegmentDistanceIdentical(t *testing.T) {
	s := BoomSegment(Point2D{3, 4}, 40, 60, 77, 20)
	assert.Equal(t, 0.0, SegmentDistance(s.Start, s.End, s.Start, s.End))
	assert.Equal(t, 0.0, SegmentDistance(s.End, s.Start, s.Start, s.End))
}

func TestSegmentDistancePointsMatchDistance3D(t *testing.T) {
	a := Point3D{-2, 7, 1}
	b := Point3D{3, -1, 9}
	assert.Equal(t, Distance3D(a, b), SegmentDistance(a, a, b, b))
}

func TestFutureTipZeroSpeed(t *testing.T) {
	base := Point2D{12, -8}
	want := BoomTip(base, 40, 60, 45, 15)
	for _, horizon := range []float64{0, 0.5, 7, 30, 1e6} {
		assert.Equal(t, want, FutureTip(base, 40, 60, 45, 15, 0, 0, horizon))
	}
}

func TestFutureTipWrapsAndClamps(t *testing.T) {
	base := Point2D{}
	assertPointInDelta(t, BoomTip(base, 40, 60, 10, 15), FutureTip(base, 40, 60, 350, 15, 20, 0, 1))
	assertPointInDelta(t, BoomTip(base, 40, 60, 0, MaxLuffing), FutureTip(base, 40, 60, 0, 70, 0, 5, 10))
	assertPointInDelta(t, BoomTip(base, 40, 60, 0, MinLuffing), FutureTip(base, 40, 60, 0, 10, 0, -5, 10))
}

func TestNormalizeSlew(t *testing.T) {
	cases := map[float64]float64{-90: 270, 0: 0, 360: 0, 720: 0, 725.5: 5.5, -720: 0}
	for in, want := range cases {
		assert.InDelta(t, want, NormalizeSlew(in), tol, "input %v", in)
	}
	for _, in := range []float64{-1e-20, -1e-14, 359.9999999999, -359.9999999999} {
		got := NormalizeSlew(in)
		assert.True(t, got >= 0 && got < 360, "input %v -> %v", in, got)
	}
}

func TestClampLuffing(t *testing.T) {
	assert.Equal(t, 0.0, ClampLuffing(-12))
	assert.Equal(t, 80.0, ClampLuffing(95))
	assert.Equal(t, 42.5, ClampLuffing(42.5))
}
