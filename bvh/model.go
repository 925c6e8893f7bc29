package bvh

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/narrowphase/spatialmath"
)

// Occupancy describes what the interior of a mesh model represents.
type Occupancy int

const (
	// Occupied models solid geometry; overlap with another occupied model is
	// a collision.
	Occupied Occupancy = iota
	// Free models known-empty space.
	Free
	// Unknown models unsensed space; overlap with it yields cost sources
	// rather than contacts.
	Unknown
)

func (o Occupancy) String() string {
	switch o {
	case Occupied:
		return "occupied"
	case Free:
		return "free"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Triangle indexes three vertices of a mesh.
type Triangle [3]int

// Node is a single node of a bounding volume tree.
type Node[B Volume[B]] struct {
	bv B
	// first is the index of the left child for internal nodes, and
	// -(primitiveID+1) for leaves.
	first          int
	firstPrimitive int
	numPrimitives  int
}

// BV returns the node's bounding volume.
func (n *Node[B]) BV() B { return n.bv }

// IsLeaf reports whether the node bounds a single triangle.
func (n *Node[B]) IsLeaf() bool { return n.first < 0 }

// PrimitiveID returns the triangle index bounded by a leaf node.
func (n *Node[B]) PrimitiveID() int {
	if n.first >= 0 {
		panic("PrimitiveID called on internal node")
	}
	return -n.first - 1
}

// LeftChild returns the node index of an internal node's left child. The
// right child is always stored adjacently.
func (n *Node[B]) LeftChild() int  { return n.first }
func (n *Node[B]) RightChild() int { return n.first + 1 }

// NumPrimitives returns how many triangles the node's subtree bounds.
func (n *Node[B]) NumPrimitives() int { return n.numPrimitives }

// Model is a triangle mesh with a bounding volume tree over its triangles.
// Vertices are in the model's local frame; queries supply the world pose.
type Model[B Volume[B]] struct {
	vertices  []r3.Vector
	triangles []Triangle
	nodes     []Node[B]
	// primitives is the triangle index permutation produced by the build; the
	// contiguous range [firstPrimitive, firstPrimitive+numPrimitives) of each
	// node refers into it.
	primitives []int
	occupancy  Occupancy
}

// ModelOption configures a Model at construction.
type ModelOption[B Volume[B]] func(*Model[B])

// WithOccupancy sets the model's occupancy class. The default is Occupied.
func WithOccupancy[B Volume[B]](o Occupancy) ModelOption[B] {
	return func(m *Model[B]) { m.occupancy = o }
}

// NewModel builds a model from a vertex list and triangle list, fitting
// bounding volumes with fit and splitting triangle sets at the median of
// their centroids along the widest axis.
func NewModel[B Volume[B]](
	vertices []r3.Vector,
	triangles []Triangle,
	fit FitFunc[B],
	opts ...ModelOption[B],
) (*Model[B], error) {
	if len(vertices) == 0 {
		return nil, errors.New("mesh must have at least one vertex")
	}
	if len(triangles) == 0 {
		return nil, errors.New("mesh must have at least one triangle")
	}
	for i, tri := range triangles {
		for _, v := range tri {
			if v < 0 || v >= len(vertices) {
				return nil, errors.Errorf("triangle %d references vertex %d, mesh has %d vertices", i, v, len(vertices))
			}
		}
	}

	m := &Model[B]{
		vertices:   vertices,
		triangles:  triangles,
		nodes:      make([]Node[B], 0, 2*len(triangles)-1),
		primitives: make([]int, len(triangles)),
		occupancy:  Occupied,
	}
	for _, opt := range opts {
		opt(m)
	}
	for i := range m.primitives {
		m.primitives[i] = i
	}

	centroids := make([]r3.Vector, len(triangles))
	for i, tri := range triangles {
		centroids[i] = spatialmath.NewTriangle(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]).Centroid()
	}
	m.nodes = append(m.nodes, Node[B]{})
	m.build(fit, centroids, 0, 0, len(triangles))
	return m, nil
}

// build constructs the subtree over primitives[lo:hi] into the already
// reserved node slot idx. Both child slots are reserved before recursing so
// siblings always occupy adjacent indices.
func (m *Model[B]) build(fit FitFunc[B], centroids []r3.Vector, idx, lo, hi int) {
	m.nodes[idx].firstPrimitive = lo
	m.nodes[idx].numPrimitives = hi - lo

	pts := make([]r3.Vector, 0, 3*(hi-lo))
	for _, p := range m.primitives[lo:hi] {
		tri := m.triangles[p]
		pts = append(pts, m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]])
	}
	m.nodes[idx].bv = fit(pts)

	if hi-lo == 1 {
		m.nodes[idx].first = -(m.primitives[lo] + 1)
		return
	}

	axis := widestCentroidAxis(centroids, m.primitives[lo:hi])
	sort.Slice(m.primitives[lo:hi], func(i, j int) bool {
		a := centroids[m.primitives[lo+i]]
		b := centroids[m.primitives[lo+j]]
		return axisComponent(a, axis) < axisComponent(b, axis)
	})
	mid := lo + (hi-lo)/2

	left := len(m.nodes)
	m.nodes = append(m.nodes, Node[B]{}, Node[B]{})
	m.nodes[idx].first = left
	m.build(fit, centroids, left, lo, mid)
	m.build(fit, centroids, left+1, mid, hi)
}

func widestCentroidAxis(centroids []r3.Vector, prims []int) int {
	lo := centroids[prims[0]]
	hi := lo
	for _, p := range prims[1:] {
		c := centroids[p]
		lo = r3.Vector{X: min(lo.X, c.X), Y: min(lo.Y, c.Y), Z: min(lo.Z, c.Z)}
		hi = r3.Vector{X: max(hi.X, c.X), Y: max(hi.Y, c.Y), Z: max(hi.Z, c.Z)}
	}
	ext := hi.Sub(lo)
	switch {
	case ext.X >= ext.Y && ext.X >= ext.Z:
		return 0
	case ext.Y >= ext.Z:
		return 1
	default:
		return 2
	}
}

func axisComponent(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Vertices returns the mesh vertices in the model's local frame.
func (m *Model[B]) Vertices() []r3.Vector { return m.vertices }

// Triangles returns the mesh triangle list.
func (m *Model[B]) Triangles() []Triangle { return m.triangles }

// Node returns the tree node at the given index; index 0 is the root.
func (m *Model[B]) Node(i int) *Node[B] { return &m.nodes[i] }

// NumNodes returns the number of nodes in the tree.
func (m *Model[B]) NumNodes() int { return len(m.nodes) }

// Occupancy returns the model's occupancy class.
func (m *Model[B]) Occupancy() Occupancy { return m.occupancy }

// IsOccupied reports whether the model's interior is solid.
func (m *Model[B]) IsOccupied() bool { return m.occupancy == Occupied }

// IsFree reports whether the model's interior is known empty.
func (m *Model[B]) IsFree() bool { return m.occupancy == Free }

// TriangleVertices returns the three local-frame vertices of triangle id.
func (m *Model[B]) TriangleVertices(id int) (r3.Vector, r3.Vector, r3.Vector) {
	tri := m.triangles[id]
	return m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]
}
