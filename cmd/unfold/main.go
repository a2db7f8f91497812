// Command unfold runs the garment-unfolding pipeline over an OBJ mesh and
// reports the resulting patch layout.
//
// Grounded on a sequential setup-then-run CLI shape — flag/arg setup, one
// driving call into the core, then a summary printed to stdout — with
// the windowing/rendering half removed since this command has no
// display surface of its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/patterncut/unfold/internal/config"
	"github.com/patterncut/unfold/internal/objload"
	"github.com/patterncut/unfold/internal/pipeline"
	"github.com/patterncut/unfold/internal/profiling"
)

func main() {
	var (
		inputPath  = flag.String("in", "", "path to an input .obj mesh (required)")
		weldEps    = flag.Float64("weld-tolerance", config.DefaultConfig().WeldTolerance, "vertex weld tolerance, world units")
		minPatch   = flag.Int("min-patch-faces", config.DefaultConfig().MinPatchFaces, "minimum faces for a patch to survive")
		minComp    = flag.Int("min-component-faces", config.DefaultConfig().MinComponentFaces, "minimum faces for a mesh fragment to survive")
		iterations = flag.Int("relax-iterations", config.DefaultConfig().RelaxationIterations, "physics relaxation iterations")
		pinBound   = flag.Bool("pin-boundary", config.DefaultConfig().PinBoundary, "freeze boundary vertices during relaxation")
		lscmIters  = flag.Int("lscm-iterations", config.DefaultConfig().LSCMIterations, "LSCM smoothing iterations for disk patches")
		lscmAlpha  = flag.Float64("lscm-alpha", config.DefaultConfig().LSCMAlpha, "LSCM neighbor-averaging blend factor")
		parallel   = flag.Bool("parallel", false, "process patches concurrently (embarrassingly parallel, §5)")
		timeout    = flag.Duration("timeout", 0, "overall run timeout; 0 disables")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: unfold -in mesh.obj [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("unfold: %v", err)
	}
	defer f.Close()

	m, err := objload.Load(f)
	if err != nil {
		log.Fatalf("unfold: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.WeldTolerance = *weldEps
	cfg.MinPatchFaces = *minPatch
	cfg.MinComponentFaces = *minComp
	cfg.RelaxationIterations = *iterations
	cfg.PinBoundary = *pinBound
	cfg.LSCMIterations = *lscmIters
	cfg.LSCMAlpha = *lscmAlpha
	cfg.ParallelPatches = *parallel
	cfg = cfg.Validate()

	ctx := context.Background()
	var cancel context.CancelFunc
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	profiling.ResetFrame()
	start := time.Now()
	result := pipeline.Run(ctx, m, cfg)
	elapsed := time.Since(start)

	fmt.Printf("patches: %d\n", len(result.Patches))
	for i, p := range result.Patches {
		fmt.Printf("  patch %d: %d vertices, %d faces, strategy=%s, topology_error=%v\n",
			i, len(p.UV), len(p.LocalFaces), p.Strategy, p.TopologyError)
	}
	fmt.Printf("seams: %d\n", len(result.Seams))
	fmt.Printf("bounds: (%.4f, %.4f) - (%.4f, %.4f)\n",
		result.BoundsMin.X(), result.BoundsMin.Y(), result.BoundsMax.X(), result.BoundsMax.Y())
	fmt.Printf("total area: %.4f\n", result.TotalArea)
	fmt.Printf("elapsed: %s\n", elapsed)
	fmt.Printf("stage timings: %s\n", profiling.TopN(10))
}
