package bvh

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func testClouds() map[string][]r3.Vector {
	return map[string][]r3.Vector{
		"axis aligned box corners": {
			{X: -1, Y: -2, Z: -3}, {X: 1, Y: -2, Z: -3}, {X: -1, Y: 2, Z: -3}, {X: -1, Y: -2, Z: 3},
			{X: 1, Y: 2, Z: 3}, {X: 1, Y: 2, Z: -3}, {X: 1, Y: -2, Z: 3}, {X: -1, Y: 2, Z: 3},
		},
		"elongated diagonal": {
			{}, {X: 1, Y: 1, Z: 0.1}, {X: 2, Y: 2, Z: -0.1}, {X: 3, Y: 3, Z: 0.05},
			{X: 4, Y: 4, Z: 0}, {X: 5, Y: 5, Z: 0.1},
		},
		"nearly planar patch": {
			{}, {X: 2}, {Y: 2}, {X: 2, Y: 2}, {X: 1, Y: 1, Z: 0.01},
		},
		"single point": {
			{X: 1, Y: 2, Z: 3},
		},
	}
}

// obbContains reports whether the box contains the point to within eps.
func obbContains(b OBB, p r3.Vector, eps float64) bool {
	d := p.Sub(b.Pos)
	return math.Abs(b.Rot.Row(0).Dot(d)) <= b.HalfSize.X+eps &&
		math.Abs(b.Rot.Row(1).Dot(d)) <= b.HalfSize.Y+eps &&
		math.Abs(b.Rot.Row(2).Dot(d)) <= b.HalfSize.Z+eps
}

// rssContains reports whether the swept volume contains the point to within eps.
func rssContains(b RSS, p r3.Vector, eps float64) bool {
	d := p.Sub(b.Pos)
	u := b.Rot.Row(0).Dot(d)
	v := b.Rot.Row(1).Dot(d)
	w := b.Rot.Row(2).Dot(d)
	du := math.Max(0, math.Abs(u)-b.L[0]/2)
	dv := math.Max(0, math.Abs(v)-b.L[1]/2)
	rectDist := math.Sqrt(du*du + dv*dv + w*w)
	return rectDist <= b.Radius+eps
}

func TestFitContainment(t *testing.T) {
	for name, cloud := range testClouds() {
		t.Run(name, func(t *testing.T) {
			obb := FitOBB(cloud)
			rss := FitRSS(cloud)
			kios := FitKIOS(cloud)
			hybrid := FitOBBRSS(cloud)
			for _, p := range cloud {
				test.That(t, obbContains(obb, p, 1e-9), test.ShouldBeTrue)
				test.That(t, rssContains(rss, p, 1e-9), test.ShouldBeTrue)
				test.That(t, obbContains(hybrid.Box, p, 1e-9), test.ShouldBeTrue)
				test.That(t, rssContains(hybrid.Rss, p, 1e-9), test.ShouldBeTrue)
				for _, s := range kios.Spheres {
					test.That(t, p.Sub(s.Center).Norm(), test.ShouldBeLessThanOrEqualTo, s.Radius+1e-9)
				}
				test.That(t, obbContains(kios.Box, p, 1e-9), test.ShouldBeTrue)
			}
		})
	}
}

func TestFitAxes(t *testing.T) {
	t.Run("axes are orthonormal and right handed", func(t *testing.T) {
		cloud := testClouds()["elongated diagonal"]
		obb := FitOBB(cloud)
		for i := 0; i < 3; i++ {
			test.That(t, obb.Rot.Row(i).Norm(), test.ShouldAlmostEqual, 1, 1e-9)
		}
		test.That(t, obb.Rot.Row(0).Dot(obb.Rot.Row(1)), test.ShouldAlmostEqual, 0, 1e-9)
		cross := obb.Rot.Row(0).Cross(obb.Rot.Row(1))
		test.That(t, cross.Sub(obb.Rot.Row(2)).Norm(), test.ShouldAlmostEqual, 0, 1e-9)
	})

	t.Run("dominant axis follows the spread", func(t *testing.T) {
		cloud := testClouds()["elongated diagonal"]
		obb := FitOBB(cloud)
		diag := r3.Vector{X: 1, Y: 1}.Normalize()
		test.That(t, math.Abs(obb.Rot.Row(0).Dot(diag)), test.ShouldBeGreaterThan, 0.99)
		test.That(t, obb.HalfSize.X, test.ShouldBeGreaterThan, obb.HalfSize.Y)
	})

	t.Run("rss sweep covers the thin axis", func(t *testing.T) {
		cloud := testClouds()["nearly planar patch"]
		rss := FitRSS(cloud)
		test.That(t, rss.Radius, test.ShouldBeLessThan, 0.1)
	})
}

func TestFitKIOSElongated(t *testing.T) {
	cloud := testClouds()["elongated diagonal"]
	kios := FitKIOS(cloud)
	// Elongated clouds get extra spheres whose intersection is tighter than
	// the bounding sphere alone.
	test.That(t, len(kios.Spheres), test.ShouldEqual, 3)
}
