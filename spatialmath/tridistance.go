package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// distEps is the separation below which two triangle features are considered touching.
const distEps = 1e-10

// TriangleDistance computes the minimum Euclidean distance between two
// triangles in the same frame, along with the pair of nearest points realizing
// it, one on each triangle. If the triangles intersect the distance is 0 and
// the nearest points are coincident at a point of the intersection.
func TriangleDistance(t1, t2 *Triangle) (float64, r3.Vector, r3.Vector) {
	d, p1, p2 := featureDistance(t1, t2)
	if d > distEps {
		// The closest boundary features can be separated while one triangle
		// pierces the interior of the other; the crossing segment detects it.
		if ok, segA, segB := triTriSegment(t1, t2); ok {
			mid := segA.Add(segB).Mul(0.5)
			return 0, mid, mid
		}
		return d, p1, p2
	}
	return 0, p1, p2
}

// featureDistance is the minimum distance over all boundary feature pairs: the
// nine edge-edge pairs plus each vertex against the opposite triangle's face.
// For non-piercing configurations this is the exact triangle-triangle distance.
func featureDistance(t1, t2 *Triangle) (float64, r3.Vector, r3.Vector) {
	pts1 := t1.Points()
	pts2 := t2.Points()

	best := math.Inf(1)
	var bp1, bp2 r3.Vector

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x, y := ClosestPointsSegmentSegment(pts1[i], pts1[(i+1)%3], pts2[j], pts2[(j+1)%3])
			if d2 := y.Sub(x).Norm2(); d2 < best {
				best = d2
				bp1, bp2 = x, y
			}
		}
	}
	for i := 0; i < 3; i++ {
		c := t2.ClosestPointToPoint(pts1[i])
		if d2 := c.Sub(pts1[i]).Norm2(); d2 < best {
			best = d2
			bp1, bp2 = pts1[i], c
		}
		c = t1.ClosestPointToPoint(pts2[i])
		if d2 := c.Sub(pts2[i]).Norm2(); d2 < best {
			best = d2
			bp1, bp2 = c, pts2[i]
		}
	}
	return math.Sqrt(best), bp1, bp2
}
