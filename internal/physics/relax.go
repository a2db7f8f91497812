// Package physics relaxes an initial UV embedding with a 2D mass-spring
// system (§4.I, "Steel & Rubber"): every mesh edge is a Hookean spring,
// boundary edges nearly rigid, interior edges permissive, integrated with
// a semi-implicit Verlet-like step, mandatory centroid drift cancellation,
// and annealed damping in the final iterations.
//
// Grounded on a fixed-timestep game-loop integration idiom, adapted here
// from a 3D entity tick loop to a 2D spring relaxation over a patch.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/geom"
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
	"github.com/patterncut/unfold/internal/profiling"
)

// Config holds the relaxer's tunable parameters.
type Config struct {
	Iterations  int
	BoundaryK   float64
	InteriorK   float64
	DeltaTime   float64
	Mass        float64
	Damping     float64
	AnnealStart float64 // fraction of Iterations where annealing begins (0.6 = last 40%)
	AnnealRate  float64
	PinBoundary bool
}

// DefaultConfig matches spec's stated defaults.
func DefaultConfig() Config {
	return Config{
		Iterations:  200,
		BoundaryK:   50.0,
		InteriorK:   0.2,
		DeltaTime:   1.0 / 60.0,
		Mass:        1.0,
		Damping:     1.0,
		AnnealStart: 0.6,
		AnnealRate:  0.995,
		PinBoundary: false,
	}
}

type spring struct {
	a, b    int
	restLen float64
	k       float64
}

// Relax runs the mass-spring integration over sm starting from initialUV,
// and returns the relaxed positions. If the relaxer ever produces a
// non-finite coordinate, initialUV is returned unchanged (§4.I's failure
// mode) rather than propagating NaNs downstream.
func Relax(sm *mesh.SubMesh, initialUV []mgl64.Vec2, cfg Config) []mgl64.Vec2 {
	defer profiling.Track("physics.Relax")()
	n := len(initialUV)
	if n == 0 {
		return initialUV
	}

	ix := halfedge.Build(sm)
	springs := buildSprings(sm, ix, cfg)

	pos := make([]mgl64.Vec2, n)
	copy(pos, initialUV)
	vel := make([]mgl64.Vec2, n)

	pinned := make([]bool, n)
	if cfg.PinBoundary {
		for _, v := range ix.BoundaryVertices() {
			pinned[v] = true
		}
	}

	damping := cfg.Damping
	annealFrom := int(cfg.AnnealStart * float64(cfg.Iterations))

	for iter := 0; iter < cfg.Iterations; iter++ {
		preCentroid := centroid2D(pos)

		forces := make([]mgl64.Vec2, n)
		for _, s := range springs {
			delta := pos[s.b].Sub(pos[s.a])
			length := delta.Len()
			if length < 1e-12 {
				continue
			}
			dir := delta.Mul(1 / length)
			mag := s.k * (length - s.restLen)
			f := dir.Mul(mag)
			forces[s.a] = forces[s.a].Add(f)
			forces[s.b] = forces[s.b].Sub(f)
		}

		for v := 0; v < n; v++ {
			if pinned[v] {
				continue
			}
			vel[v] = vel[v].Add(forces[v].Mul(cfg.DeltaTime / cfg.Mass)).Mul(damping)
			pos[v] = pos[v].Add(vel[v].Mul(cfg.DeltaTime))
		}

		cancelDrift(pos, preCentroid)

		if iter >= annealFrom {
			damping *= cfg.AnnealRate
		}
	}

	if !allFinite(pos) {
		return initialUV
	}
	return pos
}

// buildSprings creates one spring per unique mesh edge, with stiffness
// chosen by whether the edge is on the patch boundary.
func buildSprings(sm *mesh.SubMesh, ix *halfedge.Index, cfg Config) []spring {
	seen := make(map[mesh.EdgeKey]bool)
	var springs []spring
	for fi := 0; fi < sm.NumFaces(); fi++ {
		for _, e := range ix.FaceEdges(fi) {
			if seen[e] {
				continue
			}
			seen[e] = true
			k := cfg.InteriorK
			if ix.IsBoundaryEdge(e) {
				k = cfg.BoundaryK
			}
			springs = append(springs, spring{
				a:       e.A,
				b:       e.B,
				restLen: sm.Position(e.A).Sub(sm.Position(e.B)).Len(),
				k:       k,
			})
		}
	}
	return springs
}

// cancelDrift recomputes pos's centroid after an integration step and
// translates every vertex to restore the centroid it had before that
// step — mandatory per §4.I.4, since an unpinned patch otherwise
// translates freely under spring forces.
func cancelDrift(pos []mgl64.Vec2, preStepCentroid mgl64.Vec2) {
	post := centroid2D(pos)
	shift := preStepCentroid.Sub(post)
	if shift.Len() == 0 {
		return
	}
	for i := range pos {
		pos[i] = pos[i].Add(shift)
	}
}

func centroid2D(pts []mgl64.Vec2) mgl64.Vec2 {
	pts3 := make([]mgl64.Vec3, len(pts))
	for i, p := range pts {
		pts3[i] = mgl64.Vec3{p.X(), p.Y(), 0}
	}
	c := geom.Centroid(pts3)
	return mgl64.Vec2{c.X(), c.Y()}
}

func allFinite(pos []mgl64.Vec2) bool {
	for _, p := range pos {
		if !mesh.FiniteVec2(p) {
			return false
		}
	}
	return true
}
