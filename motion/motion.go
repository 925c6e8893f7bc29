// Package motion models rigid body trajectories over a unit time interval and
// the motion bounds used by conservative advancement.
package motion

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/narrowphase/spatialmath"
)

// Region is anything with a bounding sphere, used to bound how fast any point
// of a moving volume can approach along a direction.
type Region interface {
	Center() r3.Vector
	CircumRadius() float64
}

// Model is a rigid trajectory parameterized over t in [0, 1].
type Model interface {
	// Integrate advances the model's current pose to time t.
	Integrate(t float64)
	// Pose returns the current pose.
	Pose() spatialmath.Pose
	// CurrentRotation returns the rotation of the current pose.
	CurrentRotation() *spatialmath.RotationMatrix
	// RegionMotionBound bounds the speed at which any point of a region,
	// given in the body's local frame, can travel along the world direction
	// dir over the remainder of the interval.
	RegionMotionBound(region Region, dir r3.Vector) float64
	// TriangleMotionBound is RegionMotionBound for a local-frame triangle.
	TriangleMotionBound(a, b, c, dir r3.Vector) float64
}

// RigidMotion interpolates between a start and an end pose with constant
// linear and angular velocity.
type RigidMotion struct {
	start, end spatialmath.Pose
	// cur is the pose at the last Integrate time.
	cur spatialmath.Pose
	// linearVel is the world-frame displacement of the origin over the whole
	// interval, and angularSpeed the total rotation angle in radians.
	linearVel    r3.Vector
	angularSpeed float64
}

// NewRigidMotion builds a motion moving from start at t=0 to end at t=1.
func NewRigidMotion(start, end spatialmath.Pose) *RigidMotion {
	// Slerp does not pick a hemisphere, so keep the end quaternion in the
	// start's. Otherwise the interpolation sweeps the long way around while
	// angularSpeed measures the short way, and the motion bounds under-bound.
	q1, q2 := start.Quaternion(), end.Quaternion()
	if q1.Real*q2.Real+q1.Imag*q2.Imag+q1.Jmag*q2.Jmag+q1.Kmag*q2.Kmag < 0 {
		q2 = quat.Scale(-1, q2)
		end = spatialmath.NewPose(end.Point(), q2)
	}
	relQ := quat.Mul(quat.Conj(q1), q2)
	return &RigidMotion{
		start:        start,
		end:          end,
		cur:          start,
		linearVel:    end.Point().Sub(start.Point()),
		angularSpeed: spatialmath.QuatAngle(relQ),
	}
}

// NewStaticMotion builds a motion that stays at the given pose.
func NewStaticMotion(pose spatialmath.Pose) *RigidMotion {
	return &RigidMotion{start: pose, end: pose, cur: pose}
}

// Integrate sets the current pose to time t, clamped to [0, 1]. Translation
// is interpolated linearly and rotation by slerp.
func (m *RigidMotion) Integrate(t float64) {
	if t <= 0 {
		m.cur = m.start
		return
	}
	if t >= 1 {
		m.cur = m.end
		return
	}
	pt := m.start.Point().Add(m.linearVel.Mul(t))
	q := spatialmath.QuatSlerp(m.start.Quaternion(), m.end.Quaternion(), t)
	m.cur = spatialmath.NewPose(pt, q)
}

// Pose returns the pose at the last Integrate time.
func (m *RigidMotion) Pose() spatialmath.Pose { return m.cur }

// CurrentRotation returns the rotation at the last Integrate time.
func (m *RigidMotion) CurrentRotation() *spatialmath.RotationMatrix {
	return m.cur.RotationMatrix()
}

// RegionMotionBound bounds the directional speed of every point of the region.
// Translation contributes its component along dir; rotation contributes the
// angular speed times the farthest the region reaches from the body origin.
func (m *RigidMotion) RegionMotionBound(region Region, dir r3.Vector) float64 {
	reach := region.Center().Norm() + region.CircumRadius()
	return math.Max(0, m.linearVel.Dot(dir)) + m.angularSpeed*reach
}

// TriangleMotionBound bounds the directional speed of every point of a
// local-frame triangle.
func (m *RigidMotion) TriangleMotionBound(a, b, c, dir r3.Vector) float64 {
	reach := math.Max(a.Norm(), math.Max(b.Norm(), c.Norm()))
	return math.Max(0, m.linearVel.Dot(dir)) + m.angularSpeed*reach
}
