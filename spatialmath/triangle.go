package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Triangle is a triangle in 3D space, the primitive geometry of the mesh
// models this engine queries.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a Triangle from its three vertices. Degenerate (zero
// area) triangles are permitted; their normal is the zero vector and they
// behave as a point or segment in all queries.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the three vertices of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the triangle's unit plane normal, or the zero vector for a
// degenerate triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Centroid returns the centroid of the triangle.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Transform returns a new triangle whose vertices have been brought into body
// 1's local frame by the given relative frame.
func (t *Triangle) Transform(f RelativeFrame) *Triangle {
	return NewTriangle(f.TransformPoint(t.p0), f.TransformPoint(t.p1), f.TransformPoint(t.p2))
}

// ClosestInsidePoint returns the closest point on the triangle to the query
// point if and only if the query point's projection overlaps the triangle,
// along with whether that projection does overlap. If it does not, the closest
// point lies on an edge and the returned point is not meaningful.
func (t *Triangle) ClosestInsidePoint(point r3.Vector) (r3.Vector, bool) {
	eps := 1e-6

	// Parametrize the triangle so that a point inside it is
	// Q = p0 + u*e0 + v*e1 with 0 <= u, 0 <= v, u+v <= 1, where e0 = p1-p0 and
	// e1 = p2-p0, and minimize the distance to the query point analytically.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := point.Sub(t.p0)
	// The determinant is 0 only if the triangle is degenerate; the resulting
	// NaNs fail the inside check below, deferring to the edge tests.
	det := a*c - b*b
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+eps) && (u <= 1+eps) && (0 <= v+eps) && (v <= 1+eps) && (u+v <= 1+eps)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

// ClosestPointToPoint returns the closest point on the triangle to the given point.
func (t *Triangle) ClosestPointToPoint(point r3.Vector) r3.Vector {
	closestPtInside, inside := t.ClosestInsidePoint(point)
	if inside {
		return closestPtInside
	}

	// The closest point is on an edge, so check each edge for the closest point.
	closestPt := ClosestPointSegmentPoint(t.p0, t.p1, point)
	bestDist := point.Sub(closestPt).Norm2()

	newPt := ClosestPointSegmentPoint(t.p1, t.p2, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		closestPt = newPt
		bestDist = newDist
	}

	newPt = ClosestPointSegmentPoint(t.p2, t.p0, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		return newPt
	}
	return closestPt
}
