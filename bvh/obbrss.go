package bvh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/narrowphase/spatialmath"
)

// OBBRSS pairs an oriented box with a rectangle-swept sphere over the same
// region, using the box's cheap separating-axis test for collision pruning and
// the swept volume's tight distance for distance pruning.
type OBBRSS struct {
	Box OBB
	Rss RSS
}

var _ Volume[OBBRSS] = OBBRSS{}

// Center returns the box center in the body frame.
func (b OBBRSS) Center() r3.Vector {
	return b.Box.Pos
}

// CircumRadius returns the circumradius of the swept volume.
func (b OBBRSS) CircumRadius() float64 {
	return b.Rss.CircumRadius()
}

// Disjoint defers to the box's separating-axis test.
func (b OBBRSS) Disjoint(rel spatialmath.RelativeFrame, other OBBRSS) bool {
	return b.Box.Disjoint(rel, other.Box)
}

// LowerBoundDistance defers to the swept volume's exact distance.
func (b OBBRSS) LowerBoundDistance(rel spatialmath.RelativeFrame, other OBBRSS) float64 {
	return b.Rss.LowerBoundDistance(rel, other.Rss)
}

// DistanceWithWitness defers to the swept volume.
func (b OBBRSS) DistanceWithWitness(rel spatialmath.RelativeFrame, other OBBRSS) (float64, r3.Vector, r3.Vector) {
	return b.Rss.DistanceWithWitness(rel, other.Rss)
}
