package traversal

import (
	"math"

	"github.com/golang/geo/r3"
)

// Contact is a single point of intersection between two triangles, in the
// world frame. The normal points from the first model into the second.
type Contact struct {
	Model1, Model2             any
	PrimitiveID1, PrimitiveID2 int
	Point                      r3.Vector
	Normal                     r3.Vector
	Depth                      float64
}

// CostSource is an axis-aligned region of overlap with non-solid geometry,
// weighted by a traversal cost density.
type CostSource struct {
	AABBMin, AABBMax r3.Vector
	Density          float64
}

// CollisionResult accumulates the outcome of a collision query.
type CollisionResult struct {
	contacts    []Contact
	costSources []CostSource
	// maxCostSources bounds costSources; the lowest-density source is evicted
	// when full.
	maxCostSources int
}

// NewCollisionResult returns an empty result keeping at most maxCostSources
// cost sources.
func NewCollisionResult(maxCostSources int) *CollisionResult {
	if maxCostSources <= 0 {
		maxCostSources = 1
	}
	return &CollisionResult{maxCostSources: maxCostSources}
}

// IsCollision reports whether any contact was recorded.
func (r *CollisionResult) IsCollision() bool { return len(r.contacts) > 0 }

// NumContacts returns how many contacts were recorded.
func (r *CollisionResult) NumContacts() int { return len(r.contacts) }

// Contacts returns the recorded contacts.
func (r *CollisionResult) Contacts() []Contact { return r.contacts }

// AddContact records a contact.
func (r *CollisionResult) AddContact(c Contact) {
	r.contacts = append(r.contacts, c)
}

// CostSources returns the recorded cost sources.
func (r *CollisionResult) CostSources() []CostSource { return r.costSources }

// AddCostSource records a cost source, evicting the lowest-density one if the
// budget is exceeded.
func (r *CollisionResult) AddCostSource(c CostSource) {
	r.costSources = append(r.costSources, c)
	if len(r.costSources) <= r.maxCostSources {
		return
	}
	lowest := 0
	for i, s := range r.costSources {
		if s.Density < r.costSources[lowest].Density {
			lowest = i
		}
	}
	r.costSources = append(r.costSources[:lowest], r.costSources[lowest+1:]...)
}

// DistanceResult accumulates the outcome of a distance query.
type DistanceResult struct {
	MinDistance                float64
	NearestPoints              [2]r3.Vector
	Model1, Model2             any
	PrimitiveID1, PrimitiveID2 int
}

// NewDistanceResult returns a result with no candidate yet.
func NewDistanceResult() *DistanceResult {
	return &DistanceResult{
		MinDistance:  math.Inf(1),
		PrimitiveID1: -1,
		PrimitiveID2: -1,
	}
}

// Update records a candidate pair if it strictly improves the minimum.
func (r *DistanceResult) Update(dist float64, m1, m2 any, id1, id2 int, p1, p2 r3.Vector) {
	if dist >= r.MinDistance {
		return
	}
	r.MinDistance = dist
	r.Model1, r.Model2 = m1, m2
	r.PrimitiveID1, r.PrimitiveID2 = id1, id2
	r.NearestPoints[0] = p1
	r.NearestPoints[1] = p2
}
