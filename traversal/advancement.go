package traversal

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/narrowphase/bvh"
	"go.viam.com/narrowphase/motion"
	"go.viam.com/narrowphase/spatialmath"
)

// advancementFrame records one bounding volume distance test: the witness
// points (in the first model's local frame), the node indices, and the
// distance. Frames are pushed by BVTesting and consumed by CanStop, so the
// frame on top always describes the test the driver just ran.
type advancementFrame struct {
	p1, p2 r3.Vector
	c1, c2 int
	d      float64
}

// AdvancementNode runs one distance pass of conservative advancement,
// computing both the minimum distance and the largest time step deltaT that
// provably cannot bring the two moving models into contact.
type AdvancementNode[B bvh.Volume[B]] struct {
	meshNode[B]
	motion1, motion2 motion.Model
	req              AdvancementRequest

	minDistance float64
	// witness points of the minimum distance, in the first model's local
	// frame at the current integration time.
	p1, p2   r3.Vector
	id1, id2 int
	deltaT   float64

	stack []advancementFrame
}

// NewAdvancementNode builds an advancement tester over two models at the
// poses their motions currently hold.
func NewAdvancementNode[B bvh.Volume[B]](
	model1, model2 *bvh.Model[B],
	motion1, motion2 motion.Model,
	req AdvancementRequest,
	logger golog.Logger,
) (*AdvancementNode[B], error) {
	if model1 == nil || model2 == nil {
		return nil, errors.New("advancement query requires two models")
	}
	if motion1 == nil || motion2 == nil {
		return nil, errors.New("advancement query requires two motions")
	}
	return &AdvancementNode[B]{
		meshNode: newMeshNode(model1, model2, motion1.Pose(), motion2.Pose(), logger),
		motion1:  motion1,
		motion2:  motion2,
		req:      req.withDefaults(),
	}, nil
}

func (n *AdvancementNode[B]) Preprocess() {
	n.minDistance = math.Inf(1)
	n.id1, n.id2 = -1, -1
	n.deltaT = 1
	n.stack = n.stack[:0]
	// Seed with the first triangle pair so pruning has a finite bound.
	n.leafTestingIDs(0, 0)
}

func (n *AdvancementNode[B]) Postprocess() {
	n.logger.Debugw("advancement traversal finished",
		"bv_tests", n.numBVTests,
		"leaf_tests", n.numLeafTests,
		"min_distance", n.minDistance,
		"delta_t", n.deltaT,
	)
}

// BVTesting returns the distance between the two volumes and records the
// witness pair for CanStop.
func (n *AdvancementNode[B]) BVTesting(i, j int) float64 {
	n.numBVTests++
	d, p1, p2 := n.model1.Node(i).BV().DistanceWithWitness(n.rel, n.model2.Node(j).BV())
	n.stack = append(n.stack, advancementFrame{p1: p1, p2: p2, c1: i, c2: j, d: d})
	return d
}

// CanStop decides whether the subtree pair whose volume distance is c can be
// pruned. A pair is prunable when c is admissibly close to the current
// minimum distance; before pruning, the witness pair of the pruned test
// tightens deltaT. The driver probes children in pairs, so when the top frame
// is not the one being judged the frame below it is, and the top frame is
// kept for the sibling's turn.
func (n *AdvancementNode[B]) CanStop(c float64) bool {
	if c >= n.req.W*(n.minDistance-n.req.AbsErr) &&
		c*(1+n.req.RelErr) >= n.req.W*n.minDistance {
		top := n.stack[len(n.stack)-1]
		frame := top
		if top.d > c {
			frame = n.stack[len(n.stack)-2]
			n.stack[len(n.stack)-2] = top
		}
		n.tightenDeltaT(frame, c)
		n.stack = n.stack[:len(n.stack)-1]
		return true
	}

	top := n.stack[len(n.stack)-1]
	if top.d > c {
		n.stack[len(n.stack)-2] = top
	}
	n.stack = n.stack[:len(n.stack)-1]
	return false
}

// tightenDeltaT shrinks deltaT using the separation witnessed by frame: the
// two volumes cannot close a gap of c faster than their combined motion
// bounds along the separation direction.
func (n *AdvancementNode[B]) tightenDeltaT(frame advancementFrame, c float64) {
	sep := frame.p2.Sub(frame.p1)
	if sep.Norm() <= 1e-12 {
		// Volumes already touch; no safe step exists.
		n.deltaT = 0
		return
	}
	dir := n.motion1.CurrentRotation().MulVec(sep.Normalize())

	bv1 := n.model1.Node(frame.c1).BV()
	bv2 := n.model2.Node(frame.c2).BV()
	bound := n.motion1.RegionMotionBound(bv1, dir) +
		n.motion2.RegionMotionBound(bv2, dir.Mul(-1))

	curDeltaT := 1.0
	if bound > c {
		curDeltaT = c / bound
	}
	if curDeltaT < n.deltaT {
		n.deltaT = curDeltaT
	}
}

// LeafTesting measures the triangle pair, updates the minimum distance, and
// tightens deltaT with the triangles' own motion bounds.
func (n *AdvancementNode[B]) LeafTesting(i, j int) {
	n.leafTestingIDs(n.model1.Node(i).PrimitiveID(), n.model2.Node(j).PrimitiveID())
}

// leafTestingIDs is LeafTesting on raw triangle indices.
func (n *AdvancementNode[B]) leafTestingIDs(id1, id2 int) {
	n.numLeafTests++
	t1 := n.firstTriangle(id1)
	t2 := n.secondTriangleInFirstFrame(id2)
	d, p1, p2 := spatialmath.TriangleDistance(t1, t2)
	if d < n.minDistance {
		n.minDistance = d
		n.p1, n.p2 = p1, p2
		n.id1, n.id2 = id1, id2
	}

	sep := p2.Sub(p1)
	if sep.Norm() <= 1e-12 {
		n.deltaT = 0
		return
	}
	dir := n.motion1.CurrentRotation().MulVec(sep.Normalize())

	// Motion bounds take body-local vertices; the second triangle must come
	// from its own model, not the relative-frame copy used for distance.
	a1, b1, c1 := n.model1.TriangleVertices(id1)
	a2, b2, c2 := n.model2.TriangleVertices(id2)
	bound := n.motion1.TriangleMotionBound(a1, b1, c1, dir) +
		n.motion2.TriangleMotionBound(a2, b2, c2, dir.Mul(-1))

	curDeltaT := 1.0
	if bound > d {
		curDeltaT = d / bound
	}
	if curDeltaT < n.deltaT {
		n.deltaT = curDeltaT
	}
}

// MinDistance returns the minimum distance found by the last traversal.
func (n *AdvancementNode[B]) MinDistance() float64 { return n.minDistance }

// DeltaT returns the provably safe time step found by the last traversal.
func (n *AdvancementNode[B]) DeltaT() float64 { return n.deltaT }

// WitnessPoints returns the nearest points in the first model's local frame.
func (n *AdvancementNode[B]) WitnessPoints() (r3.Vector, r3.Vector) { return n.p1, n.p2 }

// ClosestPrimitives returns the triangle indices realizing the minimum.
func (n *AdvancementNode[B]) ClosestPrimitives() (int, int) { return n.id1, n.id2 }
