package traversal

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/narrowphase/bvh"
	"go.viam.com/narrowphase/spatialmath"
)

// CollisionNode tests two mesh models for intersection, recording contacts
// between occupied models and cost sources for overlap with unknown space.
type CollisionNode[B bvh.Volume[B]] struct {
	meshNode[B]
	req    CollisionRequest
	result *CollisionResult
}

// NewCollisionNode builds a collision tester over two posed models.
func NewCollisionNode[B bvh.Volume[B]](
	model1, model2 *bvh.Model[B],
	tf1, tf2 spatialmath.Pose,
	req CollisionRequest,
	result *CollisionResult,
	logger golog.Logger,
) (*CollisionNode[B], error) {
	if model1 == nil || model2 == nil {
		return nil, errors.New("collision query requires two models")
	}
	if result == nil {
		return nil, errors.New("collision query requires a result accumulator")
	}
	return &CollisionNode[B]{
		meshNode: newMeshNode(model1, model2, tf1, tf2, logger),
		req:      req.withDefaults(),
		result:   result,
	}, nil
}

func (n *CollisionNode[B]) Postprocess() {
	n.logger.Debugw("collision traversal finished",
		"bv_tests", n.numBVTests,
		"leaf_tests", n.numLeafTests,
		"contacts", n.result.NumContacts(),
		"cost_sources", len(n.result.CostSources()),
	)
}

// BVTesting reports whether the two bounding volumes are disjoint.
func (n *CollisionNode[B]) BVTesting(i, j int) bool {
	n.numBVTests++
	return n.model1.Node(i).BV().Disjoint(n.rel, n.model2.Node(j).BV())
}

// CanStop reports whether traversal may end early: once the contact budget is
// met, unless cost sources are still being gathered.
func (n *CollisionNode[B]) CanStop() bool {
	return !n.req.EnableCost &&
		n.result.IsCollision() &&
		n.result.NumContacts() >= n.req.NumMaxContacts
}

// LeafTesting intersects the triangles of two leaves. Contacts are only
// meaningful between occupied models; overlap involving unknown space is
// reported as a cost source instead.
func (n *CollisionNode[B]) LeafTesting(i, j int) {
	n.numLeafTests++
	id1 := n.model1.Node(i).PrimitiveID()
	id2 := n.model2.Node(j).PrimitiveID()
	t1 := n.firstTriangle(id1)
	t2 := n.secondTriangleInFirstFrame(id2)

	if n.model1.IsOccupied() && n.model2.IsOccupied() {
		if !n.req.EnableContact {
			if spatialmath.IntersectTriangles(t1, t2) &&
				n.result.NumContacts() < n.req.NumMaxContacts {
				n.result.AddContact(Contact{
					Model1: n.model1, Model2: n.model2,
					PrimitiveID1: id1, PrimitiveID2: id2,
				})
			}
		} else if n.result.NumContacts() < n.req.NumMaxContacts {
			if ok, points, normal, depth := spatialmath.TriangleContact(t1, t2); ok {
				worldNormal := n.tf1.RotationMatrix().MulVec(normal)
				budget := n.req.NumMaxContacts - n.result.NumContacts()
				if len(points) > budget {
					points = points[:budget]
				}
				for _, p := range points {
					n.result.AddContact(Contact{
						Model1: n.model1, Model2: n.model2,
						PrimitiveID1: id1, PrimitiveID2: id2,
						Point:  n.tf1.TransformPoint(p),
						Normal: worldNormal,
						Depth:  depth,
					})
				}
			}
		}
	}

	if n.req.EnableCost && !(n.model1.IsFree() && n.model2.IsFree()) {
		if spatialmath.IntersectTriangles(t1, t2) {
			lo, hi := triangleOverlapAABB(n.tf1, t1, t2)
			n.result.AddCostSource(CostSource{
				AABBMin: lo,
				AABBMax: hi,
				Density: n.req.CostDensity,
			})
		}
	}
}

// triangleOverlapAABB intersects the world-frame axis-aligned boxes of two
// triangles given in tf1's local frame.
func triangleOverlapAABB(tf1 spatialmath.Pose, t1, t2 *spatialmath.Triangle) (r3.Vector, r3.Vector) {
	lo1, hi1 := triangleAABB(tf1, t1)
	lo2, hi2 := triangleAABB(tf1, t2)
	lo := r3.Vector{X: math.Max(lo1.X, lo2.X), Y: math.Max(lo1.Y, lo2.Y), Z: math.Max(lo1.Z, lo2.Z)}
	hi := r3.Vector{X: math.Min(hi1.X, hi2.X), Y: math.Min(hi1.Y, hi2.Y), Z: math.Min(hi1.Z, hi2.Z)}
	return lo, hi
}

func triangleAABB(tf spatialmath.Pose, t *spatialmath.Triangle) (r3.Vector, r3.Vector) {
	pts := t.Points()
	lo := tf.TransformPoint(pts[0])
	hi := lo
	for _, p := range pts[1:] {
		w := tf.TransformPoint(p)
		lo = r3.Vector{X: math.Min(lo.X, w.X), Y: math.Min(lo.Y, w.Y), Z: math.Min(lo.Z, w.Z)}
		hi = r3.Vector{X: math.Max(hi.X, w.X), Y: math.Max(hi.Y, w.Y), Z: math.Max(hi.Z, w.Z)}
	}
	return lo, hi
}
