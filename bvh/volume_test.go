package bvh

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/narrowphase/spatialmath"
)

func axisAlignedOBB(pos, half r3.Vector) OBB {
	return OBB{Rot: spatialmath.NewIdentityRotationMatrix(), Pos: pos, HalfSize: half}
}

func identityRel() spatialmath.RelativeFrame {
	return spatialmath.NewIdentityRelativeFrame()
}

func TestOBBDisjoint(t *testing.T) {
	unit := axisAlignedOBB(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	rotated45 := OBB{
		Rot:      spatialmath.NewPoseFromAxisAngle(r3.Vector{}, r3.Vector{Z: 1}, math.Pi/4).RotationMatrix(),
		Pos:      r3.Vector{X: 3},
		HalfSize: r3.Vector{X: 1, Y: 1, Z: 1},
	}

	cases := []struct {
		name  string
		other OBB
		want  bool
	}{
		{"separated along X", axisAlignedOBB(r3.Vector{X: 3}, r3.Vector{X: 1, Y: 1, Z: 1}), true},
		{"overlapping along X", axisAlignedOBB(r3.Vector{X: 1.5}, r3.Vector{X: 1, Y: 1, Z: 1}), false},
		{"touching faces", axisAlignedOBB(r3.Vector{X: 2}, r3.Vector{X: 1, Y: 1, Z: 1}), false},
		{"separated along a diagonal", axisAlignedOBB(r3.Vector{X: 2.5, Y: 2.5, Z: 2.5}, r3.Vector{X: 1, Y: 1, Z: 1}), true},
		{"rotated but separated", rotated45, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, unit.Disjoint(identityRel(), tc.other), test.ShouldEqual, tc.want)
		})
	}
}

func TestOBBLowerBoundDistance(t *testing.T) {
	unit := axisAlignedOBB(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})

	t.Run("face gap along X", func(t *testing.T) {
		other := axisAlignedOBB(r3.Vector{X: 3}, r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, unit.LowerBoundDistance(identityRel(), other), test.ShouldAlmostEqual, 1, 1e-12)
	})

	t.Run("overlap clamps to zero", func(t *testing.T) {
		other := axisAlignedOBB(r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, unit.LowerBoundDistance(identityRel(), other), test.ShouldEqual, 0)
	})

	t.Run("relative frame translation", func(t *testing.T) {
		// Both boxes at their body origins, bodies 5 apart along Y.
		other := axisAlignedOBB(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
		rel := spatialmath.NewRelativeFrame(
			spatialmath.NewZeroPose(),
			spatialmath.NewPoseFromPoint(r3.Vector{Y: 5}),
		)
		test.That(t, unit.LowerBoundDistance(rel, other), test.ShouldAlmostEqual, 3, 1e-12)
	})
}

// boundSoundness checks the contract every volume type must honor: the lower
// bound never exceeds the true distance between contained point sets, and the
// witness distance never exceeds the lower bound realized between witnesses.
func boundSoundness[B Volume[B]](t *testing.T, fit FitFunc[B], cloud1, cloud2 []r3.Vector, rel spatialmath.RelativeFrame) {
	t.Helper()
	v1 := fit(cloud1)
	v2 := fit(cloud2)

	trueDist := math.Inf(1)
	for _, a := range cloud1 {
		for _, b := range cloud2 {
			if d := rel.TransformPoint(b).Sub(a).Norm(); d < trueDist {
				trueDist = d
			}
		}
	}

	lb := v1.LowerBoundDistance(rel, v2)
	test.That(t, lb, test.ShouldBeLessThanOrEqualTo, trueDist+1e-9)

	d, p1, p2 := v1.DistanceWithWitness(rel, v2)
	test.That(t, d, test.ShouldBeLessThanOrEqualTo, trueDist+1e-9)
	if d > 0 {
		// Directional guarantee: every cross pair spans at least d along the
		// witness direction.
		dir := p2.Sub(p1).Normalize()
		for _, a := range cloud1 {
			for _, b := range cloud2 {
				span := rel.TransformPoint(b).Sub(a).Dot(dir)
				test.That(t, span, test.ShouldBeGreaterThanOrEqualTo, d-1e-9)
			}
		}
	}

	if v1.Disjoint(rel, v2) {
		test.That(t, trueDist, test.ShouldBeGreaterThan, 0)
	}
}

func TestVolumeSoundness(t *testing.T) {
	cloud1 := []r3.Vector{
		{}, {X: 1}, {Y: 1}, {X: 1, Y: 1, Z: 0.5}, {X: 0.5, Y: 0.2, Z: 0.3},
	}
	cloud2 := []r3.Vector{
		{X: 0.2, Z: 0.1}, {X: 1.2, Y: 0.4}, {X: 0.7, Y: 1.1, Z: 0.6}, {X: 0.1, Y: 0.9, Z: 0.2},
	}
	rels := map[string]spatialmath.RelativeFrame{
		"identity": spatialmath.NewIdentityRelativeFrame(),
		"far": spatialmath.NewRelativeFrame(
			spatialmath.NewZeroPose(),
			spatialmath.NewPoseFromPoint(r3.Vector{X: 10, Y: -3, Z: 2}),
		),
		"rotated": spatialmath.NewRelativeFrame(
			spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 1}, r3.Vector{Z: 1}, 0.8),
			spatialmath.NewPoseFromAxisAngle(r3.Vector{Y: 4}, r3.Vector{X: 1, Y: 1}, -1.1),
		),
	}

	for name, rel := range rels {
		t.Run("obb "+name, func(t *testing.T) {
			boundSoundness(t, FitOBB, cloud1, cloud2, rel)
		})
		t.Run("rss "+name, func(t *testing.T) {
			boundSoundness(t, FitRSS, cloud1, cloud2, rel)
		})
		t.Run("kios "+name, func(t *testing.T) {
			boundSoundness(t, FitKIOS, cloud1, cloud2, rel)
		})
		t.Run("obbrss "+name, func(t *testing.T) {
			boundSoundness(t, FitOBBRSS, cloud1, cloud2, rel)
		})
	}
}

func TestRSSVolume(t *testing.T) {
	flat := RSS{
		Rot:    spatialmath.NewIdentityRotationMatrix(),
		Pos:    r3.Vector{},
		L:      [2]float64{2, 2},
		Radius: 0.5,
	}

	t.Run("offset along normal", func(t *testing.T) {
		other := flat
		other.Pos = r3.Vector{Z: 3}
		d, p1, p2 := flat.DistanceWithWitness(identityRel(), other)
		test.That(t, d, test.ShouldAlmostEqual, 2, 1e-9)
		test.That(t, p2.Sub(p1).Norm(), test.ShouldAlmostEqual, 2, 1e-9)
		test.That(t, flat.Disjoint(identityRel(), other), test.ShouldBeTrue)
	})

	t.Run("within sweep radius overlaps", func(t *testing.T) {
		other := flat
		other.Pos = r3.Vector{Z: 0.9}
		test.That(t, flat.Disjoint(identityRel(), other), test.ShouldBeFalse)
		d, _, _ := flat.DistanceWithWitness(identityRel(), other)
		test.That(t, d, test.ShouldEqual, 0)
	})
}
