// Package pipeline orchestrates the full weld → segment → flatten →
// relax → pack flow (§4.K), single-threaded cooperative by default with
// an optional per-patch parallel fan-out (§5's noted-but-not-required
// parallelism opportunity, implemented in workerpool.go).
//
// Grounded on a fixed-tick-loop shape: one driving function that walks a
// fixed stage order every run, checking a cancellation signal between
// units of work instead of mid-unit.
package pipeline

import (
	"context"
	"sort"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/config"
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/connectivity"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
	"github.com/patterncut/unfold/internal/mesh/weld"
	"github.com/patterncut/unfold/internal/pack"
	"github.com/patterncut/unfold/internal/physics"
	"github.com/patterncut/unfold/internal/profiling"
	"github.com/patterncut/unfold/internal/seam"
	"github.com/patterncut/unfold/internal/segment"
	"github.com/patterncut/unfold/internal/surgery"
	"github.com/patterncut/unfold/internal/topology"
	"github.com/patterncut/unfold/internal/unfold"
)

// PatchResult is one flattened, packed patch in the consumer contract's
// shape (§6): UV coordinates, the local triangulation, the map back to
// the original mesh, its packed bounds, and whether topology inspection
// had to fall back.
type PatchResult struct {
	UV            []mgl64.Vec2
	LocalFaces    []mesh.Face
	GlobalFaces   []int
	VertexMap     []int
	BoundsMin     mgl64.Vec2
	BoundsMax     mgl64.Vec2
	TopologyError bool
	Strategy      unfold.Strategy
}

// Result is the full consumer contract: the ordered patch list, the
// overall packed bounds, total patch area, and an echo of the extracted
// seam paths for host-side display.
type Result struct {
	Patches   []PatchResult
	BoundsMin mgl64.Vec2
	BoundsMax mgl64.Vec2
	TotalArea float64
	Seams     []seam.Path
}

// Run executes the full pipeline over m with cfg. An empty mesh (zero
// vertices or zero faces) returns an empty Result without error, per
// §7's sole caller-visible exception. Cancellation via ctx is checked at
// patch boundaries: already-completed patches are kept, everything after
// the cancellation point is dropped, and no partial patch is ever
// returned.
func Run(ctx context.Context, m *mesh.Mesh, cfg config.Config) Result {
	defer profiling.Track("pipeline.Run")()
	if m.Empty() {
		return Result{}
	}
	cfg = cfg.Validate()

	welded, _ := weld.Weld(m, cfg.WeldTolerance)
	if welded.Empty() {
		return Result{}
	}

	trimmed := filterFragments(welded, cfg.MinComponentFaces)
	if trimmed.Empty() {
		return Result{}
	}

	seamResult := seam.Extract(trimmed, seam.Config{
		Threshold:          cfg.RedThreshold,
		ClusterEpsFraction: cfg.ClusterEpsFraction,
		UserEps:            cfg.UserClusterEps,
	})

	patches := segment.Segment(trimmed, seamResult.Barriers, cfg.RedThreshold, cfg.MinPatchFaces)

	var results []PatchResult
	if cfg.ParallelPatches {
		results = processPatchesParallel(ctx, patches, cfg, 0)
	} else {
		results = processPatchesSerial(ctx, patches, cfg)
	}

	return finalize(results, seamResult, cfg)
}

// filterFragments welds having already run, discovers connected
// components of the face graph and drops any fragment smaller than
// minComponentFaces, returning a compacted Mesh of only the surviving
// faces.
func filterFragments(m *mesh.Mesh, minComponentFaces int) *mesh.Mesh {
	defer profiling.Track("pipeline.filterFragments")()
	ix := halfedge.Build(m)
	comps := connectivity.Components(ix, len(m.Faces))
	comps = connectivity.FilterSmall(comps, minComponentFaces)
	if len(comps) == 0 {
		return &mesh.Mesh{}
	}

	var kept []int
	for _, c := range comps {
		kept = append(kept, c...)
	}
	sort.Ints(kept)

	sub := mesh.NewSubMesh(m, kept)
	return sub.ToMesh()
}

// processPatchesSerial runs the per-patch subpipeline in order, the
// default single-threaded cooperative mode. It stops at the first patch
// index where ctx is already done, keeping every patch completed so far.
func processPatchesSerial(ctx context.Context, patches []*mesh.SubMesh, cfg config.Config) []PatchResult {
	out := make([]PatchResult, 0, len(patches))
	for _, p := range patches {
		if ctx.Err() != nil {
			break
		}
		out = append(out, processPatch(p, cfg))
	}
	return out
}

// processPatch runs surgery → topology inspection → initial unfolding →
// physics relaxation for one pre-kerf patch (the orchestrator's per-patch
// loop body in §4.K).
func processPatch(p *mesh.SubMesh, cfg config.Config) PatchResult {
	defer profiling.Track("pipeline.processPatch")()

	if surgery.NeedsInternalCut(p) {
		p = surgery.InternalCut(p)
	}

	kerfed := segment.Kerf(p, cfg.RedThreshold)

	report := topology.Inspect(kerfed)
	wasCylinder := report.Class == topology.ClassCylinder
	if wasCylinder {
		kerfed = surgery.CylinderCut(kerfed)
		report = topology.Inspect(kerfed)
	}
	if report.Class == topology.ClassComplex {
		kerfed.TopologyError = true
	}

	initialUV, strategy := unfold.Unfold(kerfed, report, wasCylinder, unfold.Params{
		LSCMIterations: cfg.LSCMIterations,
		LSCMAlpha:      cfg.LSCMAlpha,
	})

	relaxCfg := physics.Config{
		Iterations:  cfg.RelaxationIterations,
		BoundaryK:   cfg.BoundaryStiffness,
		InteriorK:   cfg.InteriorStiffness,
		DeltaTime:   1.0 / 60.0,
		Mass:        1.0,
		Damping:     1.0,
		AnnealStart: 0.6,
		AnnealRate:  cfg.Damping,
		PinBoundary: cfg.PinBoundary,
	}
	relaxedUV := physics.Relax(kerfed, initialUV, relaxCfg)

	return PatchResult{
		UV:            relaxedUV,
		LocalFaces:    append([]mesh.Face(nil), kerfed.Faces...),
		GlobalFaces:   append([]int(nil), kerfed.GlobalFaces...),
		VertexMap:     append([]int(nil), kerfed.VertexMap...),
		TopologyError: kerfed.TopologyError,
		Strategy:      strategy,
	}
}

// finalize packs every processed patch onto a shared sheet and assembles
// the final Result, including the seam-path echo for display.
func finalize(results []PatchResult, seamResult seam.Result, cfg config.Config) Result {
	packed := make([]pack.Patch, len(results))
	for i, r := range results {
		packed[i] = pack.Patch{ID: strconv.Itoa(i), UV: r.UV}
	}
	packResult := pack.Pack(packed, pack.Config{MaxWidth: cfg.PackerRowWidth, Padding: cfg.PackerPadding})

	out := make([]PatchResult, len(results))
	for i, r := range results {
		r.UV = packResult.Patches[i].UV
		r.BoundsMin, r.BoundsMax = uvBounds(r.UV)
		out[i] = r
	}

	return Result{
		Patches:   out,
		BoundsMin: packResult.MinBound,
		BoundsMax: packResult.MaxBound,
		TotalArea: packResult.TotalArea,
		Seams:     seamResult.Paths,
	}
}

func uvBounds(uv []mgl64.Vec2) (min, max mgl64.Vec2) {
	if len(uv) == 0 {
		return mgl64.Vec2{}, mgl64.Vec2{}
	}
	min, max = uv[0], uv[0]
	for _, p := range uv[1:] {
		if p.X() < min.X() {
			min[0] = p.X()
		}
		if p.Y() < min.Y() {
			min[1] = p.Y()
		}
		if p.X() > max.X() {
			max[0] = p.X()
		}
		if p.Y() > max.Y() {
			max[1] = p.Y()
		}
	}
	return min, max
}
