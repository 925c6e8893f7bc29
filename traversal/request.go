// Package traversal runs narrow-phase queries between bounding volume tree
// models: discrete collision with contacts and cost sources, distance with
// witness points, and continuous collision via conservative advancement.
package traversal

// CollisionRequest configures a discrete collision query.
type CollisionRequest struct {
	// EnableContact asks for contact points, normals and penetration depths;
	// without it the query stops at the first intersecting triangle pair.
	EnableContact bool
	// NumMaxContacts caps how many contacts are recorded. Zero means one.
	NumMaxContacts int
	// EnableCost records cost sources for overlap involving non-occupied
	// models instead of contacts.
	EnableCost bool
	// NumMaxCostSources caps recorded cost sources, keeping the densest.
	// Zero means one.
	NumMaxCostSources int
	// CostDensity scales the density of emitted cost sources.
	CostDensity float64
}

func (r CollisionRequest) withDefaults() CollisionRequest {
	if r.NumMaxContacts <= 0 {
		r.NumMaxContacts = 1
	}
	if r.NumMaxCostSources <= 0 {
		r.NumMaxCostSources = 1
	}
	if r.CostDensity == 0 {
		r.CostDensity = 1
	}
	return r
}

// DistanceRequest configures a distance query.
type DistanceRequest struct {
	// EnableNearestPoints asks for the witness points realizing the minimum
	// distance, reported in the first model's world frame.
	EnableNearestPoints bool
}

// AdvancementRequest configures a continuous collision query.
type AdvancementRequest struct {
	// W scales how conservatively the advancement steps; values above 1
	// shorten steps. Zero means 1.
	W float64
	// AbsErr and RelErr loosen the stopping test, trading exactness of the
	// impact time for fewer iterations.
	AbsErr float64
	RelErr float64
	// TErr is the time resolution below which the query declares impact.
	// Zero means 1e-6.
	TErr float64
}

func (r AdvancementRequest) withDefaults() AdvancementRequest {
	if r.W <= 0 {
		r.W = 1
	}
	if r.TErr <= 0 {
		r.TErr = defaultTimeTolerance
	}
	return r
}

const defaultTimeTolerance = 1e-6
