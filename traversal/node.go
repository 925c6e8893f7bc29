package traversal

import (
	"github.com/edaniels/golog"

	"go.viam.com/narrowphase/bvh"
	"go.viam.com/narrowphase/spatialmath"
)

// Tester is the contract the recursive drivers traverse against. A tester
// holds the two models being queried and answers per-node questions; the
// drivers never look inside the trees directly.
type Tester interface {
	// Preprocess runs once before traversal starts.
	Preprocess()
	// Postprocess runs once after traversal finishes.
	Postprocess()
	// IsFirstNodeLeaf reports whether node i of the first tree is a leaf, and
	// likewise for the second.
	IsFirstNodeLeaf(i int) bool
	IsSecondNodeLeaf(i int) bool
	// FirstOverSecond decides which tree to descend when both nodes are
	// internal.
	FirstOverSecond(i, j int) bool
	// FirstLeftChild and FirstRightChild return the children of node i of the
	// first tree, and likewise for the second.
	FirstLeftChild(i int) int
	FirstRightChild(i int) int
	SecondLeftChild(j int) int
	SecondRightChild(j int) int
	// LeafTesting runs the primitive test between leaf nodes i and j.
	LeafTesting(i, j int)
}

// CollisionTester extends Tester with volume pruning and early termination
// for collision queries.
type CollisionTester interface {
	Tester
	// BVTesting reports whether the volumes of nodes i and j are disjoint, in
	// which case the subtree pair is pruned.
	BVTesting(i, j int) bool
	// CanStop reports whether the query is already satisfied.
	CanStop() bool
}

// DistanceTester extends Tester with volume distance bounds for distance
// queries.
type DistanceTester interface {
	Tester
	// BVTesting returns a lower bound on the distance between the volumes of
	// nodes i and j.
	BVTesting(i, j int) float64
	// CanStop reports whether a subtree pair with volume lower bound c cannot
	// improve the result.
	CanStop(c float64) bool
}

// meshNode holds what every tester between two mesh models needs: the models,
// their world poses, and the relative frame taking the second model's local
// coordinates into the first's.
type meshNode[B bvh.Volume[B]] struct {
	model1, model2 *bvh.Model[B]
	tf1, tf2       spatialmath.Pose
	rel            spatialmath.RelativeFrame

	// numBVTests and numLeafTests count traversal work for the postprocess
	// log line.
	numBVTests   int
	numLeafTests int

	logger golog.Logger
}

func newMeshNode[B bvh.Volume[B]](
	model1, model2 *bvh.Model[B],
	tf1, tf2 spatialmath.Pose,
	logger golog.Logger,
) meshNode[B] {
	return meshNode[B]{
		model1: model1,
		model2: model2,
		tf1:    tf1,
		tf2:    tf2,
		rel:    spatialmath.NewRelativeFrame(tf1, tf2),
		logger: logger,
	}
}

func (n *meshNode[B]) Preprocess()  {}
func (n *meshNode[B]) Postprocess() {}

func (n *meshNode[B]) IsFirstNodeLeaf(i int) bool  { return n.model1.Node(i).IsLeaf() }
func (n *meshNode[B]) IsSecondNodeLeaf(j int) bool { return n.model2.Node(j).IsLeaf() }

// FirstOverSecond descends the first tree when the second node is a leaf or
// when the first volume is the larger of the two.
func (n *meshNode[B]) FirstOverSecond(i, j int) bool {
	l1 := n.model1.Node(i).IsLeaf()
	l2 := n.model2.Node(j).IsLeaf()
	if l2 {
		return true
	}
	if l1 {
		return false
	}
	sz1 := n.model1.Node(i).BV().CircumRadius()
	sz2 := n.model2.Node(j).BV().CircumRadius()
	return sz1 > sz2
}

func (n *meshNode[B]) FirstLeftChild(i int) int   { return n.model1.Node(i).LeftChild() }
func (n *meshNode[B]) FirstRightChild(i int) int  { return n.model1.Node(i).RightChild() }
func (n *meshNode[B]) SecondLeftChild(j int) int  { return n.model2.Node(j).LeftChild() }
func (n *meshNode[B]) SecondRightChild(j int) int { return n.model2.Node(j).RightChild() }

// secondTriangleInFirstFrame returns leaf j's triangle of the second model,
// brought into the first model's local frame.
func (n *meshNode[B]) secondTriangleInFirstFrame(id int) *spatialmath.Triangle {
	q1, q2, q3 := n.model2.TriangleVertices(id)
	return spatialmath.NewTriangle(q1, q2, q3).Transform(n.rel)
}

func (n *meshNode[B]) firstTriangle(id int) *spatialmath.Triangle {
	p1, p2, p3 := n.model1.TriangleVertices(id)
	return spatialmath.NewTriangle(p1, p2, p3)
}
