package bvh

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/narrowphase/spatialmath"
)

// RSS is a rectangle-swept sphere: the set of points within Radius of a
// rectangle. The rows of Rot are the volume's local axes in the owning body's
// frame; the rectangle spans axes 0 and 1 with full side lengths L, centered
// at Pos, and axis 2 is its normal.
type RSS struct {
	Rot    *spatialmath.RotationMatrix
	Pos    r3.Vector
	L      [2]float64
	Radius float64
}

var _ Volume[RSS] = RSS{}

// Center returns the rectangle center in the body frame.
func (b RSS) Center() r3.Vector {
	return b.Pos
}

// CircumRadius returns the radius of the bounding sphere of the swept volume.
func (b RSS) CircumRadius() float64 {
	return math.Hypot(b.L[0], b.L[1])/2 + b.Radius
}

// corners returns the rectangle corners in counterclockwise order.
func (b RSS) corners() [4]r3.Vector {
	e0 := b.Rot.Row(0).Mul(b.L[0] / 2)
	e1 := b.Rot.Row(1).Mul(b.L[1] / 2)
	return [4]r3.Vector{
		b.Pos.Sub(e0).Sub(e1),
		b.Pos.Add(e0).Sub(e1),
		b.Pos.Add(e0).Add(e1),
		b.Pos.Sub(e0).Add(e1),
	}
}

// rectTriangles decomposes the rectangle into two triangles, optionally
// bringing them through the relative frame first.
func (b RSS) rectTriangles(rel *spatialmath.RelativeFrame) [2]*spatialmath.Triangle {
	c := b.corners()
	if rel != nil {
		for i := range c {
			c[i] = rel.TransformPoint(c[i])
		}
	}
	return [2]*spatialmath.Triangle{
		spatialmath.NewTriangle(c[0], c[1], c[2]),
		spatialmath.NewTriangle(c[0], c[2], c[3]),
	}
}

// rectDistance computes the exact distance between the two rectangles and the
// nearest point pair, with the other volume's rectangle brought into body 1's
// frame. The rectangles are compared as their triangle decompositions, reusing
// the exact triangle-triangle kernel.
func (b RSS) rectDistance(rel spatialmath.RelativeFrame, other RSS) (float64, r3.Vector, r3.Vector) {
	tris1 := b.rectTriangles(nil)
	tris2 := other.rectTriangles(&rel)

	best := math.Inf(1)
	var p1, p2 r3.Vector
	for _, t1 := range tris1 {
		for _, t2 := range tris2 {
			if d, a, b2 := spatialmath.TriangleDistance(t1, t2); d < best {
				best = d
				p1, p2 = a, b2
			}
		}
	}
	return best, p1, p2
}

// Disjoint reports whether the swept volumes provably do not overlap: the
// rectangles are further apart than the sum of the sweep radii.
func (b RSS) Disjoint(rel spatialmath.RelativeFrame, other RSS) bool {
	d, _, _ := b.rectDistance(rel, other)
	return d > b.Radius+other.Radius
}

// LowerBoundDistance returns the exact distance between the two swept volumes,
// which trivially bounds the distance between the meshes they contain.
func (b RSS) LowerBoundDistance(rel spatialmath.RelativeFrame, other RSS) float64 {
	d, _, _ := b.rectDistance(rel, other)
	return math.Max(0, d-b.Radius-other.Radius)
}

// DistanceWithWitness returns the swept-volume distance and the realizing
// points on the two volumes' surfaces, in body 1's frame.
func (b RSS) DistanceWithWitness(rel spatialmath.RelativeFrame, other RSS) (float64, r3.Vector, r3.Vector) {
	rd, p1, p2 := b.rectDistance(rel, other)
	d := rd - b.Radius - other.Radius
	if d <= 0 || rd == 0 {
		mid := p1.Add(p2).Mul(0.5)
		return 0, mid, mid
	}
	dir := p2.Sub(p1).Mul(1 / rd)
	return d, p1.Add(dir.Mul(b.Radius)), p2.Sub(dir.Mul(other.Radius))
}
