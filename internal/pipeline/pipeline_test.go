package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/patterncut/unfold/internal/config"
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/unfold"
)

func flatPatchMesh() *mesh.Mesh {
	positions := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{2, 0, 0}, {2, 1, 0},
	}
	faces := []mesh.Face{
		{0, 1, 2}, {0, 2, 3},
		{1, 4, 5}, {1, 5, 2},
	}
	return mesh.NewMesh(positions, nil, faces)
}

func smallCfg() config.Config {
	c := config.DefaultConfig()
	c.MinComponentFaces = 1
	c.MinPatchFaces = 1
	c.RelaxationIterations = 10
	return c
}

func TestRun_EmptyMeshReturnsEmptyResult(t *testing.T) {
	result := Run(context.Background(), &mesh.Mesh{}, config.DefaultConfig())
	require.Empty(t, result.Patches)
}

func TestRun_SingleUncoloredPatchProducesOneResult(t *testing.T) {
	m := flatPatchMesh()
	result := Run(context.Background(), m, smallCfg())

	require.Len(t, result.Patches, 1)
	p := result.Patches[0]
	require.Len(t, p.UV, m.NumVertices())
	for _, uv := range p.UV {
		require.True(t, mesh.FiniteVec2(uv))
	}
	require.False(t, p.TopologyError)
}

func TestRun_NoRedMarkersMeansNoSeamsAndSinglePatch(t *testing.T) {
	m := flatPatchMesh()
	result := Run(context.Background(), m, smallCfg())
	require.Empty(t, result.Seams)
	require.Len(t, result.Patches, 1)
}

func TestRun_SplitsPatchAcrossRedSeam(t *testing.T) {
	positions := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0}, {3, 1, 0}, {4, 1, 0},
	}
	red := &mesh.Color{R: 0.9, G: 0.1, B: 0.1}
	colors := make([]*mesh.Color, 10)
	colors[2], colors[7] = red, red // a vertical red seam down the middle

	var faces []mesh.Face
	for i := 0; i < 4; i++ {
		a, b, c, d := i, i+1, i+5, i+6
		faces = append(faces, mesh.Face{a, b, d}, mesh.Face{a, d, c})
	}
	m := mesh.NewMesh(positions, colors, faces)

	cfg := smallCfg()
	result := Run(context.Background(), m, cfg)
	require.GreaterOrEqual(t, len(result.Patches), 1)
}

func TestRun_ParallelAndSerialAgreeOnPatchCount(t *testing.T) {
	m := flatPatchMesh()
	serialResult := Run(context.Background(), m, smallCfg())

	parallelCfg := smallCfg()
	parallelCfg.ParallelPatches = true
	parallelResult := Run(context.Background(), m, parallelCfg)

	require.Equal(t, len(serialResult.Patches), len(parallelResult.Patches))
}

// shortFatDrum builds a two-ring open cylinder whose axial height is much
// smaller than its diameter — topology.Inspect classifies it a cylinder,
// but unfold.IsElongated is false, so only the wasCylinder flag threaded
// through processPatch can still route it to Tube instead of LSCM.
func shortFatDrum(n int) *mesh.Mesh {
	var positions []mgl64.Vec3
	for ring := 0; ring < 2; ring++ {
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			positions = append(positions, mgl64.Vec3{float64(ring) * 1.0, math.Cos(theta), math.Sin(theta)})
		}
	}
	idx := func(ring, i int) int { return ring*n + (i % n) }
	var faces []mesh.Face
	for i := 0; i < n; i++ {
		a, b := idx(0, i), idx(0, i+1)
		c, d := idx(1, i), idx(1, i+1)
		faces = append(faces, mesh.Face{a, b, d}, mesh.Face{a, d, c})
	}
	return mesh.NewMesh(positions, nil, faces)
}

func TestRun_ShortFatCylinderStillUnfoldsWithTube(t *testing.T) {
	m := shortFatDrum(8)
	cfg := smallCfg()
	result := Run(context.Background(), m, cfg)

	require.Len(t, result.Patches, 1)
	require.Equal(t, unfold.StrategyTube, result.Patches[0].Strategy)
}

func TestRun_HonorsConfiguredLSCMIterations(t *testing.T) {
	// flatPatchMesh is 2x1, which IsElongated routes to Tube; a unit
	// square with a center vertex stays on the LSCM path.
	m := mesh.NewMesh(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0.5, 0.5, 0}},
		nil,
		[]mesh.Face{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}},
	)

	fewIterCfg := smallCfg()
	fewIterCfg.LSCMIterations = 1
	fewIterResult := Run(context.Background(), m, fewIterCfg)

	manyIterCfg := smallCfg()
	manyIterCfg.LSCMIterations = 30
	manyIterResult := Run(context.Background(), m, manyIterCfg)

	require.Equal(t, unfold.StrategyLSCM, fewIterResult.Patches[0].Strategy)
	require.NotEqual(t, fewIterResult.Patches[0].UV, manyIterResult.Patches[0].UV)
}

func TestRun_CancelledContextReturnsNoLaterPatches(t *testing.T) {
	m := flatPatchMesh()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := Run(ctx, m, smallCfg())
	require.Empty(t, result.Patches)
}
