package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Float64AlmostEqual determines if two float64 values are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// R3VectorAlmostEqual determines if two r3 vectors are within epsilon of each other
// in every component.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// PlaneNormal returns the plane normal of the triangle defined by the three given points.
// The normal of a degenerate triangle is the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Norm2() == 0 {
		return r3.Vector{}
	}
	return n.Normalize()
}

// ClosestPointSegmentPoint takes a segment defined by its two endpoints and returns
// the point on the segment closest to the given point.
func ClosestPointSegmentPoint(segA, segB, point r3.Vector) r3.Vector {
	ab := segB.Sub(segA)
	denom := ab.Norm2()
	if denom == 0 {
		return segA
	}
	t := point.Sub(segA).Dot(ab) / denom
	if t <= 0 {
		return segA
	} else if t >= 1 {
		return segB
	}
	return segA.Add(ab.Mul(t))
}

// ClosestPointsSegmentSegment computes the closest points between segment (ap1, ap2)
// and segment (bp1, bp2), returning a point on each. Degenerate (zero length)
// segments are handled as points.
func ClosestPointsSegmentSegment(ap1, ap2, bp1, bp2 r3.Vector) (r3.Vector, r3.Vector) {
	d1 := ap2.Sub(ap1)
	d2 := bp2.Sub(bp1)
	r := ap1.Sub(bp1)
	a := d1.Norm2()
	e := d2.Norm2()
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a == 0 && e == 0:
		return ap1, bp1
	case a == 0:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e == 0 {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			// Segments are parallel when the denominator vanishes; any s is
			// admissible, and 0 keeps the result well defined.
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			// If t landed outside [0,1], clamp it and recompute s for the clamped t.
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return ap1.Add(d1.Mul(s)), bp1.Add(d2.Mul(t))
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
