package motion

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/narrowphase/spatialmath"
)

type sphereRegion struct {
	center r3.Vector
	radius float64
}

func (s sphereRegion) Center() r3.Vector     { return s.center }
func (s sphereRegion) CircumRadius() float64 { return s.radius }

func TestRigidMotionIntegrate(t *testing.T) {
	start := spatialmath.NewPoseFromPoint(r3.Vector{X: 1})
	end := spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 5, Y: 2}, r3.Vector{Z: 1}, math.Pi/2)
	m := NewRigidMotion(start, end)

	t.Run("endpoints", func(t *testing.T) {
		m.Integrate(0)
		test.That(t, spatialmath.PoseAlmostCoincident(m.Pose(), start, 1e-10), test.ShouldBeTrue)
		m.Integrate(1)
		test.That(t, spatialmath.PoseAlmostCoincident(m.Pose(), end, 1e-10), test.ShouldBeTrue)
	})

	t.Run("clamping outside the interval", func(t *testing.T) {
		m.Integrate(-0.5)
		test.That(t, spatialmath.PoseAlmostCoincident(m.Pose(), start, 1e-10), test.ShouldBeTrue)
		m.Integrate(2)
		test.That(t, spatialmath.PoseAlmostCoincident(m.Pose(), end, 1e-10), test.ShouldBeTrue)
	})

	t.Run("midpoint translation", func(t *testing.T) {
		m.Integrate(0.5)
		test.That(t, spatialmath.R3VectorAlmostEqual(m.Pose().Point(), r3.Vector{X: 3, Y: 1}, 1e-10), test.ShouldBeTrue)
	})

	t.Run("midpoint rotation halves the angle", func(t *testing.T) {
		m.Integrate(0.5)
		got := m.CurrentRotation().MulVec(r3.Vector{X: 1})
		want := r3.Vector{X: math.Cos(math.Pi / 4), Y: math.Sin(math.Pi / 4)}
		test.That(t, spatialmath.R3VectorAlmostEqual(got, want, 1e-10), test.ShouldBeTrue)
	})
}

func TestStaticMotion(t *testing.T) {
	pose := spatialmath.NewPoseFromAxisAngle(r3.Vector{Y: 3}, r3.Vector{X: 1}, 0.4)
	m := NewStaticMotion(pose)
	for _, tt := range []float64{0, 0.3, 1} {
		m.Integrate(tt)
		test.That(t, spatialmath.PoseAlmostCoincident(m.Pose(), pose, 1e-12), test.ShouldBeTrue)
	}
	test.That(t, m.RegionMotionBound(sphereRegion{r3.Vector{X: 10}, 5}, r3.Vector{X: 1}), test.ShouldEqual, 0)
}

func TestRegionMotionBound(t *testing.T) {
	t.Run("pure translation toward the direction", func(t *testing.T) {
		m := NewRigidMotion(
			spatialmath.NewZeroPose(),
			spatialmath.NewPoseFromPoint(r3.Vector{X: 3, Y: 4}),
		)
		bound := m.RegionMotionBound(sphereRegion{}, r3.Vector{X: 1})
		test.That(t, bound, test.ShouldAlmostEqual, 3, 1e-12)
	})

	t.Run("translation away clamps to zero", func(t *testing.T) {
		m := NewRigidMotion(
			spatialmath.NewZeroPose(),
			spatialmath.NewPoseFromPoint(r3.Vector{X: -3}),
		)
		bound := m.RegionMotionBound(sphereRegion{}, r3.Vector{X: 1})
		test.That(t, bound, test.ShouldEqual, 0)
	})

	t.Run("rotation scales with reach", func(t *testing.T) {
		m := NewRigidMotion(
			spatialmath.NewZeroPose(),
			spatialmath.NewPoseFromAxisAngle(r3.Vector{}, r3.Vector{Z: 1}, 0.5),
		)
		near := m.RegionMotionBound(sphereRegion{r3.Vector{X: 1}, 0.5}, r3.Vector{Y: 1})
		far := m.RegionMotionBound(sphereRegion{r3.Vector{X: 10}, 0.5}, r3.Vector{Y: 1})
		test.That(t, near, test.ShouldAlmostEqual, 0.5*1.5, 1e-12)
		test.That(t, far, test.ShouldAlmostEqual, 0.5*10.5, 1e-12)
	})
}

// The motion bound must dominate the true directional displacement of every
// point it covers, sampled over the whole interval.
func TestMotionBoundDominatesDisplacement(t *testing.T) {
	m := NewRigidMotion(
		spatialmath.NewPoseFromAxisAngle(r3.Vector{}, r3.Vector{Z: 1}, 0),
		spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 2, Y: -1, Z: 0.5}, r3.Vector{Z: 1}, 1.2),
	)
	dir := r3.Vector{X: 1, Y: 1}.Normalize()
	pts := []r3.Vector{{}, {X: 1}, {Y: -2, Z: 1}, {X: 0.5, Y: 0.5, Z: -0.5}}

	reach := 0.0
	for _, p := range pts {
		reach = math.Max(reach, p.Norm())
	}
	m.Integrate(0)
	bound := m.RegionMotionBound(sphereRegion{r3.Vector{}, reach}, dir)

	for _, p := range pts {
		m.Integrate(0)
		start := m.Pose().TransformPoint(p)
		for _, tt := range []float64{0.1, 0.25, 0.5, 0.75, 1} {
			m.Integrate(tt)
			disp := m.Pose().TransformPoint(p).Sub(start).Dot(dir)
			test.That(t, disp, test.ShouldBeLessThanOrEqualTo, bound*tt+1e-9)
		}
	}
}

// A rotation over pi flips the sign of the quaternion dot product; the bound
// and the interpolated path must still agree on how far points travel.
func TestMotionBoundRotationOverPi(t *testing.T) {
	m := NewRigidMotion(
		spatialmath.NewZeroPose(),
		spatialmath.NewPoseFromAxisAngle(r3.Vector{}, r3.Vector{Z: 1}, 3*math.Pi/2),
	)

	t.Run("angular speed takes the interpolated path", func(t *testing.T) {
		test.That(t, m.angularSpeed, test.ShouldAlmostEqual, math.Pi/2, 1e-10)
	})

	t.Run("endpoints are preserved", func(t *testing.T) {
		m.Integrate(1)
		got := m.CurrentRotation().MulVec(r3.Vector{X: 1})
		test.That(t, spatialmath.R3VectorAlmostEqual(got, r3.Vector{Y: -1}, 1e-10), test.ShouldBeTrue)
	})

	t.Run("bound dominates sampled displacement", func(t *testing.T) {
		p := r3.Vector{X: 2}
		dir := r3.Vector{Y: -1}
		m.Integrate(0)
		bound := m.RegionMotionBound(sphereRegion{r3.Vector{}, p.Norm()}, dir)
		start := m.Pose().TransformPoint(p)
		for _, tt := range []float64{0.1, 0.25, 0.5, 0.75, 1} {
			m.Integrate(tt)
			disp := m.Pose().TransformPoint(p).Sub(start).Dot(dir)
			test.That(t, disp, test.ShouldBeLessThanOrEqualTo, bound*tt+1e-9)
		}
	})
}

func TestTriangleMotionBound(t *testing.T) {
	m := NewRigidMotion(
		spatialmath.NewZeroPose(),
		spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 1}, r3.Vector{Z: 1}, 0.3),
	)
	a, b, c := r3.Vector{X: 2}, r3.Vector{Y: 3}, r3.Vector{Z: 1}
	bound := m.TriangleMotionBound(a, b, c, r3.Vector{X: 1})
	// Translation contributes 1; rotation contributes 0.3 times the farthest
	// vertex (norm 3).
	test.That(t, bound, test.ShouldAlmostEqual, 1+0.3*3, 1e-12)
}
