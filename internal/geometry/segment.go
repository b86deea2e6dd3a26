package geometry

// eps guards the degenerate and near-parallel branches of SegmentDistance.
const eps = 1e-8

// Segment is a finite line segment.
type Segment struct {
	Start Point3D `json:"start"`
	End   Point3D `json:"end"`
}

// Distance returns the closest distance between s and o.
func (s Segment) Distance(o Segment) float64 {
	return SegmentDistance(s.Start, s.End, o.Start, o.End)
}

// canonical orders the endpoints so that the result of SegmentDistance does
// not depend on argument order, down to the last bit.
func canonical(p1, q1, p2, q2 Point3D) (Point3D, Point3D, Point3D, Point3D) {
	if q1.less(p1) {
		p1, q1 = q1, p1
	}
	if q2.less(p2) {
		p2, q2 = q2, p2
	}
	if p2.less(p1) || (p2 == p1 && q2.less(q1)) {
		p1, q1, p2, q2 = p2, q2, p1, q1
	}
	return p1, q1, p2, q2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SegmentDistance returns the minimal distance between segment p1-q1 and
// segment p2-q2.
func SegmentDistance(p1, q1, p2, q2 Point3D) float64 {
	p1, q1, p2, q2 = canonical(p1, q1, p2, q2)

	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	if a <= eps && e <= eps {
		return Distance3D(p1, p2)
	}

	var s, t float64
	switch {
	case a <= eps:
		t = clamp01(f / e)
	case e <= eps:
		s = clamp01(-d1.Dot(r) / a)
	default:
		c := d1.Dot(r)
		b := d1.Dot(d2)
		denom := a*e - b*b
		// Parallel segments: any s works, pick the start of the first.
		if denom > eps {
			s = clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}

	c1 := p1.Add(d1.Scale(s))
	c2 := p2.Add(d2.Scale(t))
	return Distance3D(c1, c2)
}
