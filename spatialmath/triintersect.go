package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// planeEps is the tolerance used when classifying vertices against a plane.
const planeEps = 1e-10

// IntersectTriangles reports whether two triangles in the same frame intersect.
// Touching configurations (shared vertex, edge contact, coplanar overlap) count
// as intersecting. Degenerate triangles are treated as the segment or point
// they collapse to.
func IntersectTriangles(t1, t2 *Triangle) bool {
	if ok, _, _ := triTriSegment(t1, t2); ok {
		return true
	}
	d, _, _ := featureDistance(t1, t2)
	return d <= distEps
}

// TriangleContact tests two triangles in the same frame for intersection and,
// if they intersect, extracts contact geometry: up to two contact points (the
// endpoints of the intersection segment), a unit contact normal pointing from
// triangle 1 toward triangle 2, and a penetration depth. Touching and coplanar
// contacts report a single contact point with zero depth.
func TriangleContact(t1, t2 *Triangle) (bool, []r3.Vector, r3.Vector, float64) {
	if ok, segA, segB := triTriSegment(t1, t2); ok {
		contacts := []r3.Vector{segA}
		if segB.Sub(segA).Norm2() > planeEps {
			contacts = append(contacts, segB)
		}
		normal, depth := penetration(t1, t2)
		return true, contacts, normal, depth
	}
	if d, p1, _ := featureDistance(t1, t2); d <= distEps {
		normal := t2.Normal()
		if normal.Norm2() == 0 {
			normal = t1.Normal()
		}
		return true, []r3.Vector{p1}, normal, 0
	}
	return false, nil, r3.Vector{}, 0
}

// penetration derives a contact normal and depth for two crossing triangles
// from triangle 1's vertex depths against triangle 2's plane. The normal is
// the plane normal of triangle 2, oriented so that translating triangle 1 by
// -depth*normal brings it to one side of that plane.
func penetration(t1, t2 *Triangle) (r3.Vector, float64) {
	n2 := t2.Normal()
	q0 := t2.Points()[0]
	dmin, dmax := math.Inf(1), math.Inf(-1)
	for _, p := range t1.Points() {
		d := n2.Dot(p.Sub(q0))
		dmin = math.Min(dmin, d)
		dmax = math.Max(dmax, d)
	}
	if -dmin <= dmax {
		return n2, -dmin
	}
	return n2.Mul(-1), dmax
}

// triTriSegment computes the intersection segment of two non-coplanar
// triangles. It reports false for disjoint, coplanar, or degenerate inputs;
// those configurations are resolved by featureDistance instead.
func triTriSegment(t1, t2 *Triangle) (bool, r3.Vector, r3.Vector) {
	n1 := t1.Normal()
	n2 := t2.Normal()
	if n1.Norm2() == 0 || n2.Norm2() == 0 {
		return false, r3.Vector{}, r3.Vector{}
	}

	pts1 := t1.Points()
	pts2 := t2.Points()

	var dp, dq [3]float64
	for i := 0; i < 3; i++ {
		dp[i] = n2.Dot(pts1[i].Sub(pts2[0]))
		dq[i] = n1.Dot(pts2[i].Sub(pts1[0]))
	}
	if sameStrictSide(dp) || sameStrictSide(dq) {
		return false, r3.Vector{}, r3.Vector{}
	}
	if math.Abs(dp[0]) <= planeEps && math.Abs(dp[1]) <= planeEps && math.Abs(dp[2]) <= planeEps {
		// coplanar
		return false, r3.Vector{}, r3.Vector{}
	}

	cross1 := planeCrossings(pts1, dp)
	cross2 := planeCrossings(pts2, dq)
	if len(cross1) == 0 || len(cross2) == 0 {
		return false, r3.Vector{}, r3.Vector{}
	}

	// All crossing points lie on the line of intersection of the two planes;
	// parameterize them along its direction and intersect the two intervals.
	dir := n1.Cross(n2)
	lo1, hi1 := paramInterval(cross1, dir)
	lo2, hi2 := paramInterval(cross2, dir)

	lo, hi := lo1, hi1
	if lo2.t > lo.t {
		lo = lo2
	}
	if hi2.t < hi.t {
		hi = hi2
	}
	if lo.t > hi.t+planeEps {
		return false, r3.Vector{}, r3.Vector{}
	}
	return true, lo.pt, hi.pt
}

func sameStrictSide(d [3]float64) bool {
	return (d[0] > planeEps && d[1] > planeEps && d[2] > planeEps) ||
		(d[0] < -planeEps && d[1] < -planeEps && d[2] < -planeEps)
}

// planeCrossings returns the points where a triangle's boundary meets the
// plane its vertices were classified against.
func planeCrossings(pts []r3.Vector, d [3]float64) []r3.Vector {
	var out []r3.Vector
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) <= planeEps {
			out = append(out, pts[i])
			continue
		}
		j := (i + 1) % 3
		if math.Abs(d[j]) <= planeEps {
			continue
		}
		if d[i]*d[j] < 0 {
			s := d[i] / (d[i] - d[j])
			out = append(out, pts[i].Add(pts[j].Sub(pts[i]).Mul(s)))
		}
	}
	return out
}

type lineParam struct {
	t  float64
	pt r3.Vector
}

func paramInterval(pts []r3.Vector, dir r3.Vector) (lineParam, lineParam) {
	lo := lineParam{t: math.Inf(1)}
	hi := lineParam{t: math.Inf(-1)}
	for _, p := range pts {
		t := dir.Dot(p)
		if t < lo.t {
			lo = lineParam{t, p}
		}
		if t > hi.t {
			hi = lineParam{t, p}
		}
	}
	return lo, hi
}
