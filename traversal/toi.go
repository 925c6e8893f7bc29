package traversal

import (
	"github.com/edaniels/golog"

	"go.viam.com/narrowphase/bvh"
	"go.viam.com/narrowphase/motion"
)

// maxAdvancementIterations caps the advancement loop. Hitting the cap means
// the step size collapsed without reaching the time tolerance, so the current
// time is reported as a conservative impact.
const maxAdvancementIterations = 10000

// ContinuousResult is the outcome of a continuous collision query.
type ContinuousResult struct {
	// IsCollide reports whether the models collide during the motion.
	IsCollide bool
	// TimeOfContact is the earliest impact time in [0, 1], valid only when
	// IsCollide is set.
	TimeOfContact float64
}

// TimeOfImpact advances two moving models through their motions, at each step
// taking the largest time step that provably cannot cause contact, until the
// remaining safe step falls below the time tolerance or the interval runs
// out.
func TimeOfImpact[B bvh.Volume[B]](
	model1, model2 *bvh.Model[B],
	motion1, motion2 motion.Model,
	req AdvancementRequest,
	logger golog.Logger,
) (ContinuousResult, error) {
	req = req.withDefaults()

	toc := 0.0
	for iter := 0; ; iter++ {
		motion1.Integrate(toc)
		motion2.Integrate(toc)

		node, err := NewAdvancementNode(model1, model2, motion1, motion2, req, logger)
		if err != nil {
			return ContinuousResult{}, err
		}
		Distance(node)

		if node.DeltaT() <= req.TErr {
			logger.Debugw("advancement converged", "toc", toc, "iterations", iter+1)
			return ContinuousResult{IsCollide: true, TimeOfContact: toc}, nil
		}
		if iter >= maxAdvancementIterations {
			logger.Warnw("advancement iteration cap reached", "toc", toc)
			return ContinuousResult{IsCollide: true, TimeOfContact: toc}, nil
		}

		toc += node.DeltaT()
		if toc >= 1 {
			return ContinuousResult{IsCollide: false, TimeOfContact: 1}, nil
		}
	}
}
