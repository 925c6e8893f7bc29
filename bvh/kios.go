package bvh

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/narrowphase/spatialmath"
)

// Sphere is one of the spheres making up a KIOS volume.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

// KIOS approximates a region as the intersection of a small number of spheres,
// each of which contains the whole region, plus an oriented box used for its
// cheap separating-axis test.
type KIOS struct {
	Spheres []Sphere
	Box     OBB
}

var _ Volume[KIOS] = KIOS{}

// Center returns the center of the volume's box in the body frame.
func (b KIOS) Center() r3.Vector {
	return b.Box.Pos
}

// CircumRadius returns the radius of the first (bounding) sphere.
func (b KIOS) CircumRadius() float64 {
	return b.Spheres[0].Radius
}

// Disjoint reports whether the two volumes provably do not overlap: either the
// boxes are separated, or some sphere of one is separated from some sphere of
// the other. Since each body's region lies inside every one of its spheres,
// any separated pair proves disjointness.
func (b KIOS) Disjoint(rel spatialmath.RelativeFrame, other KIOS) bool {
	if b.Box.Disjoint(rel, other.Box) {
		return true
	}
	for _, s1 := range b.Spheres {
		for _, s2 := range other.Spheres {
			c2 := rel.TransformPoint(s2.Center)
			if c2.Sub(s1.Center).Norm() > s1.Radius+s2.Radius {
				return true
			}
		}
	}
	return false
}

// LowerBoundDistance returns the best lower bound over all sphere pairs and
// the box pair.
func (b KIOS) LowerBoundDistance(rel spatialmath.RelativeFrame, other KIOS) float64 {
	best := b.Box.LowerBoundDistance(rel, other.Box)
	for _, s1 := range b.Spheres {
		for _, s2 := range other.Spheres {
			c2 := rel.TransformPoint(s2.Center)
			if d := c2.Sub(s1.Center).Norm() - s1.Radius - s2.Radius; d > best {
				best = d
			}
		}
	}
	return math.Max(0, best)
}

// DistanceWithWitness returns the best sphere-pair lower bound with witness
// points on that pair's center line. The center line of the maximizing pair
// separates every point of the two regions by at least the bound.
func (b KIOS) DistanceWithWitness(rel spatialmath.RelativeFrame, other KIOS) (float64, r3.Vector, r3.Vector) {
	best := math.Inf(-1)
	var p1, p2 r3.Vector
	for _, s1 := range b.Spheres {
		for _, s2 := range other.Spheres {
			c2 := rel.TransformPoint(s2.Center)
			d, w1, w2 := sphereWitness(s1.Center, s1.Radius, c2, s2.Radius)
			if d > best {
				best = d
				p1, p2 = w1, w2
			}
		}
	}
	return best, p1, p2
}
