package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/patterncut/unfold/internal/mesh"
)

// stretchedSquare is a unit square in 3D whose initial UV guess has been
// squashed in X, so the relaxer has real spring error to correct.
func stretchedSquare() (*mesh.SubMesh, []mgl64.Vec2) {
	positions := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	faces := []mesh.Face{{0, 1, 2}, {0, 2, 3}}
	m := mesh.NewMesh(positions, nil, faces)
	sm := mesh.NewSubMesh(m, []int{0, 1})

	initial := []mgl64.Vec2{{0, 0}, {0.3, 0}, {0.3, 1}, {0, 1}}
	return sm, initial
}

func TestRelax_ProducesFiniteResultOfSameLength(t *testing.T) {
	sm, initial := stretchedSquare()
	cfg := DefaultConfig()
	cfg.Iterations = 50

	out := Relax(sm, initial, cfg)
	require.Len(t, out, len(initial))
	for _, p := range out {
		require.True(t, mesh.FiniteVec2(p))
	}
}

func TestRelax_BoundaryEdgesConvergeTowardRestLength(t *testing.T) {
	sm, initial := stretchedSquare()
	cfg := DefaultConfig()
	cfg.Iterations = 200

	out := Relax(sm, initial, cfg)

	before := initial[0].Sub(initial[1]).Len()
	after := out[0].Sub(out[1]).Len()
	target := sm.Position(0).Sub(sm.Position(1)).Len()

	require.Less(t, absDiff(after, target), absDiff(before, target),
		"relaxation should pull edge (0,1) closer to its 3D rest length")
}

func TestRelax_DriftCancellationKeepsCentroidStable(t *testing.T) {
	sm, initial := stretchedSquare()
	cfg := DefaultConfig()
	cfg.Iterations = 100

	before := centroid2D(initial)
	out := Relax(sm, initial, cfg)
	after := centroid2D(out)

	require.InDelta(t, before.X(), after.X(), 1e-6)
	require.InDelta(t, before.Y(), after.Y(), 1e-6)
}

func TestRelax_PinBoundaryFreezesBoundaryVertices(t *testing.T) {
	sm, initial := stretchedSquare()
	cfg := DefaultConfig()
	cfg.Iterations = 100
	cfg.PinBoundary = true

	out := Relax(sm, initial, cfg)
	// Every vertex here is on the boundary of a single-patch square, so
	// pinning should leave every position unchanged.
	for i := range initial {
		require.InDelta(t, initial[i].X(), out[i].X(), 1e-9)
		require.InDelta(t, initial[i].Y(), out[i].Y(), 1e-9)
	}
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
