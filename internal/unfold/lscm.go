package unfold

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/geom"
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
	"github.com/patterncut/unfold/internal/profiling"
)

const (
	lscmIterations = 30
	lscmAlpha      = 0.4
)

// LSCM produces the default initial embedding (§4.H.1): a uniform-Laplacian
// relaxation of a PCA-projected initial guess, held in place by two
// farthest-first pins. It is intended for patches with Euler characteristic
// 1 (topological disks), but never errors on other input — the caller
// decides which strategy a patch gets (see Select). iterations<=0 or
// alpha<0 fall back to the package defaults (lscmIterations/lscmAlpha)
// rather than producing a degenerate (zero-iteration or negative-blend)
// relaxation.
func LSCM(sm *mesh.SubMesh, iterations int, alpha float64) []mgl64.Vec2 {
	defer profiling.Track("unfold.LSCM")()
	n := sm.NumVertices()
	if n == 0 {
		return nil
	}
	distinct := make(map[mgl64.Vec3]bool, 3)
	for v := 0; v < n && len(distinct) < 3; v++ {
		distinct[sm.Position(v)] = true
	}
	if len(distinct) < 3 {
		return deterministicFallback(n)
	}
	if iterations <= 0 {
		iterations = lscmIterations
	}
	if alpha < 0 {
		alpha = lscmAlpha
	}

	pinA, pinB := farthestFirstPins(sm)
	uv := pcaInitialize(sm)

	ix := halfedge.Build(sm)
	for iter := 0; iter < iterations; iter++ {
		next := make([]mgl64.Vec2, n)
		copy(next, uv)
		for v := 0; v < n; v++ {
			if v == pinA || v == pinB {
				continue
			}
			nbrs := ix.VertexNeighbors(v)
			if len(nbrs) == 0 {
				continue
			}
			var mean mgl64.Vec2
			for _, nb := range nbrs {
				mean = mean.Add(uv[nb])
			}
			mean = mean.Mul(1 / float64(len(nbrs)))
			next[v] = uv[v].Mul(1-alpha).Add(mean.Mul(alpha))
		}
		uv = next
	}

	return nanGuard(uv, ix)
}

// farthestFirstPins picks pin A as the vertex farthest (in 3D) from vertex
// 0, and pin B as the vertex farthest from pin A.
func farthestFirstPins(sm *mesh.SubMesh) (a, b int) {
	a = farthestFrom(sm, 0)
	b = farthestFrom(sm, a)
	return a, b
}

func farthestFrom(sm *mesh.SubMesh, from int) int {
	best, bestDist := from, -1.0
	p := sm.Position(from)
	for v := 0; v < sm.NumVertices(); v++ {
		d := sm.Position(v).Sub(p).Len()
		if d > bestDist {
			bestDist, best = d, v
		}
	}
	return best
}

// pcaInitialize projects every vertex onto the principal plane found by
// power iteration over the patch's covariance matrix.
func pcaInitialize(sm *mesh.SubMesh) []mgl64.Vec2 {
	n := sm.NumVertices()
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = sm.Position(i)
	}
	centroid := geom.Centroid(pts)
	axis := geom.PrincipalAxis(pts)
	axis, e1, _ := geom.OrthonormalBasis(axis)

	uv := make([]mgl64.Vec2, n)
	for i, p := range pts {
		d := p.Sub(centroid)
		uv[i] = mgl64.Vec2{d.Dot(axis), d.Dot(e1)}
	}
	return uv
}

// nanGuard replaces any non-finite UV with the mean of its finite
// neighbors; a vertex left without any finite neighbor gets (0,0).
func nanGuard(uv []mgl64.Vec2, ix *halfedge.Index) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(uv))
	copy(out, uv)
	for v, p := range uv {
		if mesh.FiniteVec2(p) {
			continue
		}
		var sum mgl64.Vec2
		count := 0
		for _, nb := range ix.VertexNeighbors(v) {
			if mesh.FiniteVec2(uv[nb]) {
				sum = sum.Add(uv[nb])
				count++
			}
		}
		if count == 0 {
			out[v] = mgl64.Vec2{0, 0}
			continue
		}
		out[v] = sum.Mul(1 / float64(count))
	}
	return out
}

// deterministicFallback handles degenerate patches with fewer than 3
// distinct points: every vertex gets a fixed, reproducible position rather
// than an error.
func deterministicFallback(n int) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, n)
	for i := range out {
		out[i] = mgl64.Vec2{float64(i), 0}
	}
	return out
}
