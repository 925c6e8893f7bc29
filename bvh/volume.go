// Package bvh provides the bounding-volume types and the triangle-mesh model
// the narrow-phase traversal engine queries. Each bounding-volume type (OBB,
// RSS, KIOS, OBBRSS) supplies a disjointness test and a lower-bound distance
// in a shared relative frame; the model pairs an immutable triangle mesh with
// a tree of such volumes.
package bvh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/narrowphase/spatialmath"
)

// Volume is the capability set the traversal engine needs from a bounding
// volume type. The type parameter ties each implementation to its own concrete
// type, so dispatch stays static: a query is generic over exactly one volume
// type from start to finish.
//
// All tests take the other volume through the relative frame expressing body
// 2's local coordinates in body 1's.
type Volume[B any] interface {
	// Disjoint reports whether the two volumes provably do not overlap. It is
	// conservative: false only means "could not prove disjoint".
	Disjoint(rel spatialmath.RelativeFrame, other B) bool

	// LowerBoundDistance returns a value guaranteed to be less than or equal
	// to the minimum distance between any pair of points drawn from the two
	// volumes.
	LowerBoundDistance(rel spatialmath.RelativeFrame, other B) float64

	// DistanceWithWitness returns a lower-bound distance together with a pair
	// of points, one per volume, in body 1's local frame, such that every
	// point of the first volume and every point of the second are separated by
	// at least the returned distance along the witness direction. Continuous
	// collision queries rely on that directional guarantee.
	DistanceWithWitness(rel spatialmath.RelativeFrame, other B) (float64, r3.Vector, r3.Vector)

	// Center returns the volume's center point in its body's local frame.
	Center() r3.Vector

	// CircumRadius returns the radius of a sphere centered at Center that
	// contains the volume.
	CircumRadius() float64
}
