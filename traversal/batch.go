package traversal

import (
	"context"
	"runtime"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/narrowphase/bvh"
	"go.viam.com/narrowphase/spatialmath"
	goutils "go.viam.com/utils"
)

// CollisionPair is one posed model pair of a batch collision query.
type CollisionPair[B bvh.Volume[B]] struct {
	Model1, Model2 *bvh.Model[B]
	TF1, TF2       spatialmath.Pose
}

// CollideAll runs collision queries over the pairs in parallel and returns
// one result per pair, in order. The context cancels pairs not yet started.
func CollideAll[B bvh.Volume[B]](
	ctx context.Context,
	pairs []CollisionPair[B],
	req CollisionRequest,
	logger golog.Logger,
) ([]*CollisionResult, error) {
	req = req.withDefaults()
	results := make([]*CollisionResult, len(pairs))
	errs := make([]error, len(pairs))

	jobs := make(chan int, len(pairs))
	for i := range pairs {
		jobs <- i
	}
	close(jobs)

	workers := runtime.GOMAXPROCS(0)
	if workers > len(pairs) {
		workers = len(pairs)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				p := pairs[i]
				result := NewCollisionResult(req.NumMaxCostSources)
				node, err := NewCollisionNode(p.Model1, p.Model2, p.TF1, p.TF2, req, result, logger)
				if err != nil {
					errs[i] = errors.Wrapf(err, "pair %d", i)
					continue
				}
				Collide(node)
				results[i] = result
			}
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "batch collision pair %d", i)
		}
	}
	return results, nil
}
