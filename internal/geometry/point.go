// Package geometry holds the site-frame math used to place and compare crane booms.
//
// The site frame is a local Cartesian system in metres: X east, Y north, Z up.
package geometry

import "math"

// Point2D is a position on the site plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3D is a position in the site frame.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p * s.
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{p.X * s, p.Y * s, p.Z * s}
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Length returns the Euclidean length of the vector.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

// Plane drops the height component.
func (p Point3D) Plane() Point2D {
	return Point2D{X: p.X, Y: p.Y}
}

// less orders points lexicographically by X, Y, Z.
func (p Point3D) less(q Point3D) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.Z < q.Z
}

// Distance3D returns the Euclidean distance between a and b.
func Distance3D(a, b Point3D) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance2D returns the Euclidean distance between a and b on the site plane.
func Distance2D(a, b Point2D) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RadiiOverlap reports whether two working circles intersect.
// Circles that only touch do not overlap.
func RadiiOverlap(centerA Point2D, radiusA float64, centerB Point2D, radiusB float64) bool {
	return Distance2D(centerA, centerB) < radiusA+radiusB
}
