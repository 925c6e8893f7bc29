package traversal

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/narrowphase/bvh"
	"go.viam.com/narrowphase/spatialmath"
)

// DistanceNode computes the minimum distance between two mesh models along
// with the triangle pair and witness points realizing it.
type DistanceNode[B bvh.Volume[B]] struct {
	meshNode[B]
	req    DistanceRequest
	result *DistanceResult
}

// NewDistanceNode builds a distance tester over two posed models.
func NewDistanceNode[B bvh.Volume[B]](
	model1, model2 *bvh.Model[B],
	tf1, tf2 spatialmath.Pose,
	req DistanceRequest,
	result *DistanceResult,
	logger golog.Logger,
) (*DistanceNode[B], error) {
	if model1 == nil || model2 == nil {
		return nil, errors.New("distance query requires two models")
	}
	if result == nil {
		return nil, errors.New("distance query requires a result accumulator")
	}
	return &DistanceNode[B]{
		meshNode: newMeshNode(model1, model2, tf1, tf2, logger),
		req:      req,
		result:   result,
	}, nil
}

// Preprocess seeds the result with the first triangle pair so pruning has a
// finite bound from the start.
func (n *DistanceNode[B]) Preprocess() {
	n.leafTestingIDs(0, 0)
}

// Postprocess brings witness points, held in the first model's local frame
// during traversal, into the world frame.
func (n *DistanceNode[B]) Postprocess() {
	if n.req.EnableNearestPoints &&
		n.result.Model1 == any(n.model1) && n.result.Model2 == any(n.model2) {
		n.result.NearestPoints[0] = n.tf1.TransformPoint(n.result.NearestPoints[0])
		n.result.NearestPoints[1] = n.tf1.TransformPoint(n.result.NearestPoints[1])
	}
	n.logger.Debugw("distance traversal finished",
		"bv_tests", n.numBVTests,
		"leaf_tests", n.numLeafTests,
		"min_distance", n.result.MinDistance,
	)
}

// BVTesting returns a lower bound on the distance between the two volumes.
func (n *DistanceNode[B]) BVTesting(i, j int) float64 {
	n.numBVTests++
	return n.model1.Node(i).BV().LowerBoundDistance(n.rel, n.model2.Node(j).BV())
}

// CanStop prunes a subtree pair whose volume bound cannot beat the current
// minimum.
func (n *DistanceNode[B]) CanStop(c float64) bool {
	return c >= n.result.MinDistance
}

// LeafTesting measures the exact distance between the triangles of two leaves.
func (n *DistanceNode[B]) LeafTesting(i, j int) {
	n.leafTestingIDs(n.model1.Node(i).PrimitiveID(), n.model2.Node(j).PrimitiveID())
}

// leafTestingIDs is LeafTesting on raw triangle indices.
func (n *DistanceNode[B]) leafTestingIDs(id1, id2 int) {
	n.numLeafTests++
	t1 := n.firstTriangle(id1)
	t2 := n.secondTriangleInFirstFrame(id2)
	d, p1, p2 := spatialmath.TriangleDistance(t1, t2)
	n.result.Update(d, n.model1, n.model2, id1, id2, p1, p2)
}
