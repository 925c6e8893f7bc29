package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transformation in 3D space, backed by a unit dual
// quaternion. The real part encodes the rotation and the dual part encodes the
// translation. Since the real part of a valid dual quaternion is a unit
// quaternion, not all zeroes, poses should be created with the constructors
// below rather than as zero values.
type Pose struct {
	q dualquat.Number
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return Pose{dualquat.Number{Real: quat.Number{Real: 1}}}
}

// NewPose creates a pose from a point and a unit rotation quaternion.
func NewPose(pt r3.Vector, rot quat.Number) Pose {
	p := Pose{dualquat.Number{Real: rot}}
	return p.withTranslation(pt)
}

// NewPoseFromPoint creates a pose with an identity orientation at the given point.
func NewPoseFromPoint(pt r3.Vector) Pose {
	return NewPose(pt, quat.Number{Real: 1})
}

// NewPoseFromAxisAngle creates a pose at the given point, rotated by theta
// radians about the given axis.
func NewPoseFromAxisAngle(pt, axis r3.Vector, theta float64) Pose {
	mq := mgl64.QuatRotate(theta, mgl64.Vec3{axis.X, axis.Y, axis.Z}.Normalize())
	return NewPose(pt, quat.Number{Real: mq.W, Imag: mq.X(), Jmag: mq.Y(), Kmag: mq.Z()})
}

// withTranslation sets the dual part so that the pose's translation is pt.
func (p Pose) withTranslation(pt r3.Vector) Pose {
	tq := quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}
	p.q.Dual = quat.Scale(0.5, quat.Mul(tq, p.q.Real))
	return p
}

// Point returns the translation component of the pose.
func (p Pose) Point() r3.Vector {
	tq := quat.Scale(2, quat.Mul(p.q.Dual, quat.Conj(p.q.Real)))
	return r3.Vector{X: tq.Imag, Y: tq.Jmag, Z: tq.Kmag}
}

// Quaternion returns the rotation component of the pose as a unit quaternion.
func (p Pose) Quaternion() quat.Number {
	return p.q.Real
}

// RotationMatrix returns the rotation component of the pose in matrix form.
func (p Pose) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(p.q.Real)
}

// TransformPoint applies the rigid transformation to a point.
func (p Pose) TransformPoint(pt r3.Vector) r3.Vector {
	return p.RotationMatrix().MulVec(pt).Add(p.Point())
}

// Compose returns the pose equivalent to applying b first and then a.
func Compose(a, b Pose) Pose {
	return Pose{dualquat.Mul(a.q, b.q)}
}

// PoseInverse returns the inverse transformation of the given pose.
func PoseInverse(p Pose) Pose {
	return Pose{dualquat.Number{
		Real: quat.Conj(p.q.Real),
		Dual: quat.Conj(p.q.Dual),
	}}
}

// PoseAlmostCoincident checks that two poses place and orient a body identically
// to within epsilon, by comparing where each pose sends a probe point.
func PoseAlmostCoincident(a, b Pose, epsilon float64) bool {
	probes := []r3.Vector{{}, {X: 1}, {Y: 1}, {Z: 1}}
	for _, pt := range probes {
		if a.TransformPoint(pt).Sub(b.TransformPoint(pt)).Norm() > epsilon {
			return false
		}
	}
	return true
}

// RelativeFrame is a rotation and translation expressing body 2's local frame
// in body 1's local coordinates. It is computed once per query so that every
// node-pair test can work in a single shared frame rather than recomposing the
// two world transforms.
type RelativeFrame struct {
	R *RotationMatrix
	T r3.Vector
}

// NewRelativeFrame computes the relative frame for two bodies with world poses
// tf1 and tf2. For a point p in body 2's local frame, R*p + T is the same point
// in body 1's local frame.
func NewRelativeFrame(tf1, tf2 Pose) RelativeFrame {
	r1t := tf1.RotationMatrix().Transpose()
	return RelativeFrame{
		R: r1t.Mul(tf2.RotationMatrix()),
		T: r1t.MulVec(tf2.Point().Sub(tf1.Point())),
	}
}

// NewIdentityRelativeFrame returns the relative frame of two coincident bodies.
func NewIdentityRelativeFrame() RelativeFrame {
	return RelativeFrame{R: NewIdentityRotationMatrix()}
}

// TransformPoint brings a point from body 2's local frame into body 1's local frame.
func (f RelativeFrame) TransformPoint(p r3.Vector) r3.Vector {
	return f.R.MulVec(p).Add(f.T)
}

// RotateVector brings a direction from body 2's local frame into body 1's local frame.
func (f RelativeFrame) RotateVector(v r3.Vector) r3.Vector {
	return f.R.MulVec(v)
}

// QuatSlerp spherically interpolates between two unit rotation quaternions.
func QuatSlerp(q1, q2 quat.Number, amount float64) quat.Number {
	m1 := mgl64.Quat{W: q1.Real, V: mgl64.Vec3{q1.Imag, q1.Jmag, q1.Kmag}}
	m2 := mgl64.Quat{W: q2.Real, V: mgl64.Vec3{q2.Imag, q2.Jmag, q2.Kmag}}
	m := mgl64.QuatSlerp(m1, m2, amount)
	return quat.Number{Real: m.W, Imag: m.X(), Jmag: m.Y(), Kmag: m.Z()}
}

// QuatAngle returns the rotation angle in radians represented by a unit quaternion.
func QuatAngle(q quat.Number) float64 {
	w := math.Abs(q.Real)
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}
