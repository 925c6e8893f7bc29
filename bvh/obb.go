package bvh

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/narrowphase/spatialmath"
)

// OBB is an oriented bounding box. The rows of Rot are the box's local axes in
// the owning body's frame, Pos is the box center, and HalfSize holds the half
// extents along the corresponding axes.
type OBB struct {
	Rot      *spatialmath.RotationMatrix
	Pos      r3.Vector
	HalfSize r3.Vector
}

var _ Volume[OBB] = OBB{}

// Center returns the box center in the body frame.
func (b OBB) Center() r3.Vector {
	return b.Pos
}

// CircumRadius returns the radius of the bounding sphere of the box.
func (b OBB) CircumRadius() float64 {
	return b.HalfSize.Norm()
}

// maxGap runs the 15-axis SAT against another box brought through the relative frame.
func (b OBB) maxGap(rel spatialmath.RelativeFrame, other OBB) float64 {
	in := satInput{
		axesA:      [3]r3.Vector{b.Rot.Row(0), b.Rot.Row(1), b.Rot.Row(2)},
		axesB:      [3]r3.Vector{rel.RotateVector(other.Rot.Row(0)), rel.RotateVector(other.Rot.Row(1)), rel.RotateVector(other.Rot.Row(2))},
		halfA:      [3]float64{b.HalfSize.X, b.HalfSize.Y, b.HalfSize.Z},
		halfB:      [3]float64{other.HalfSize.X, other.HalfSize.Y, other.HalfSize.Z},
		centerDist: rel.TransformPoint(other.Pos).Sub(b.Pos),
	}
	return obbSATMaxGap(&in)
}

// Disjoint reports whether some separating axis keeps the two boxes apart.
func (b OBB) Disjoint(rel spatialmath.RelativeFrame, other OBB) bool {
	return b.maxGap(rel, other) > 0
}

// LowerBoundDistance returns a sound lower bound on the distance between the
// two boxes: the better of the largest SAT gap and the bounding-sphere gap.
func (b OBB) LowerBoundDistance(rel spatialmath.RelativeFrame, other OBB) float64 {
	gap := b.maxGap(rel, other)
	if sphere, _, _ := b.DistanceWithWitness(rel, other); sphere > gap {
		gap = sphere
	}
	return math.Max(gap, 0)
}

// DistanceWithWitness returns the bounding-sphere lower bound with witness
// points on the two spheres' center line. Every point of either box projects
// at least the returned distance along that line, which is the directional
// guarantee continuous collision advancement needs; the tighter SAT gap has no
// such single direction and so cannot be used here.
func (b OBB) DistanceWithWitness(rel spatialmath.RelativeFrame, other OBB) (float64, r3.Vector, r3.Vector) {
	c2 := rel.TransformPoint(other.Pos)
	return sphereWitness(b.Pos, b.CircumRadius(), c2, other.CircumRadius())
}

// sphereWitness computes the separation of two spheres and points on their
// surfaces along the center line.
func sphereWitness(c1 r3.Vector, r1 float64, c2 r3.Vector, r2 float64) (float64, r3.Vector, r3.Vector) {
	cd := c2.Sub(c1)
	norm := cd.Norm()
	d := norm - r1 - r2
	if d <= 0 || norm == 0 {
		mid := c1.Add(c2).Mul(0.5)
		return 0, mid, mid
	}
	dir := cd.Mul(1 / norm)
	return d, c1.Add(dir.Mul(r1)), c2.Sub(dir.Mul(r2))
}
