package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/patterncut/unfold/internal/config"
	"github.com/patterncut/unfold/internal/mesh"
)

// patchJob and patchOutcome carry a patch's original index through the
// worker pool so results can be reassembled in the segmenter's
// deterministic order regardless of completion order.
type patchJob struct {
	index int
	patch *mesh.SubMesh
}

type patchOutcome struct {
	index  int
	result PatchResult
}

// processPatchesParallel fans the per-patch subpipeline out across a
// bounded pool of goroutines — the "embarrassingly parallel" opportunity
// §5 notes but does not require. Grounded on a fixed-worker-count job-
// channel pool: a fixed goroutine count draining a job channel, here
// simplified to one pool per Run call instead of a long-lived pool,
// since a flattening run is a single bounded batch of work rather than
// an ongoing stream of chunk jobs.
//
// Already-dispatched jobs always run to completion; ctx is checked only
// before dispatching each new job, so cancellation stops new work without
// ever truncating a patch mid-computation. The returned slice is the
// longest prefix of patch indices that completed, matching §5's "latest
// fully completed patch list" cancellation contract.
func processPatchesParallel(ctx context.Context, patches []*mesh.SubMesh, cfg config.Config, workers int) []PatchResult {
	if len(patches) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(patches) {
		workers = len(patches)
	}

	jobs := make(chan patchJob, len(patches))
	outcomes := make(chan patchOutcome, len(patches))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				outcomes <- patchOutcome{index: job.index, result: processPatch(job.patch, cfg)}
			}
		}()
	}

	for i, p := range patches {
		if ctx.Err() != nil {
			break
		}
		jobs <- patchJob{index: i, patch: p}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	byIndex := make(map[int]PatchResult, len(patches))
	for o := range outcomes {
		byIndex[o.index] = o.result
	}

	out := make([]PatchResult, 0, len(patches))
	for i := 0; i < len(patches); i++ {
		r, ok := byIndex[i]
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}
