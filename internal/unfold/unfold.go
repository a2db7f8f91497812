// Package unfold produces the first planar (UV) embedding of a patch,
// choosing between three strategies per §4.H/§4.K's priority order: tube
// unrolling for cylindrical or elongated patches, LSCM (uniform-Laplacian
// relaxation with two pins) as the default for topological disks, and a
// BFS geodesic fan as the last resort that never fails regardless of
// curvature or classification errors.
//
// Grounded on this corpus's model3d-style mesh parameterization reference
// files for the two-circle-intersection fan placement, and on this
// corpus's common use of github.com/go-gl/mathgl for all of the vector
// algebra involved.
package unfold

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/topology"
)

// Strategy names the initial-unfolder algorithm selected for a patch.
type Strategy int

const (
	StrategyLSCM Strategy = iota
	StrategyTube
	StrategyFan
)

func (s Strategy) String() string {
	switch s {
	case StrategyTube:
		return "tube"
	case StrategyFan:
		return "fan"
	default:
		return "lscm"
	}
}

// Params holds the caller-tunable knobs LSCM accepts, threaded down from
// config.Config so §6's lscm_iterations/lscm_alpha external-interface
// fields actually change behavior instead of being clamped and ignored.
type Params struct {
	LSCMIterations int
	LSCMAlpha      float64
}

// DefaultParams matches LSCM's own historical defaults.
func DefaultParams() Params {
	return Params{LSCMIterations: lscmIterations, LSCMAlpha: lscmAlpha}
}

// Select implements §4.K's strategy priority: tube unrolling wins if the
// patch was classified as a cylinder before geodesic cutting (wasCylinder
// — the post-cut re-inspection normally reclassifies a successfully cut
// cylinder as a disk, so this can't be read off the current report) or
// its bounding box is elongated; otherwise LSCM is used for disks, and
// the BFS fan covers everything else (spheres, complex topology, or a
// patch the inspector flagged with TopologyError).
func Select(sm *mesh.SubMesh, report topology.Report, wasCylinder bool) Strategy {
	if wasCylinder || report.Class == topology.ClassCylinder || IsElongated(sm) {
		return StrategyTube
	}
	if report.Class == topology.ClassDisk && !sm.TopologyError {
		return StrategyLSCM
	}
	return StrategyFan
}

// Unfold runs the strategy Select picks and returns its UV result. The
// fan strategy is always safe to fall back to, so Unfold itself never
// fails; callers that need to detect a degenerate result should check
// mesh.FiniteVec2 over the output themselves.
func Unfold(sm *mesh.SubMesh, report topology.Report, wasCylinder bool, params Params) ([]mgl64.Vec2, Strategy) {
	strategy := Select(sm, report, wasCylinder)
	switch strategy {
	case StrategyTube:
		return Tube(sm), strategy
	case StrategyLSCM:
		return LSCM(sm, params.LSCMIterations, params.LSCMAlpha), strategy
	default:
		return Fan(sm), strategy
	}
}
