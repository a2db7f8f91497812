package weld

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/patterncut/unfold/internal/mesh"
)

func TestWeld_MergesCoincidentVertices(t *testing.T) {
	// Two triangles that share an edge but were exported with duplicate
	// vertices at (1,0,0) and (0,1,0).
	positions := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, // face 0
		{1, 0, 0}, {1, 1, 0}, {0, 1, 0}, // face 1, dup of verts 1 and 2
	}
	faces := []mesh.Face{{0, 1, 2}, {3, 4, 5}}
	m := mesh.NewMesh(positions, nil, faces)

	out, mapping := Weld(m, 1e-6)
	require.Len(t, out.Vertices, 4)
	require.Equal(t, mapping[1], mapping[3])
	require.Equal(t, mapping[2], mapping[5])
	require.Len(t, out.Faces, 2)
}

func TestWeld_DropsDegenerateFaces(t *testing.T) {
	positions := []mgl64.Vec3{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	faces := []mesh.Face{{0, 1, 2}}
	m := mesh.NewMesh(positions, nil, faces)

	out, _ := Weld(m, 1e-6)
	require.Len(t, out.Vertices, 2)
	require.Empty(t, out.Faces)
}

func TestWeld_Idempotent(t *testing.T) {
	positions := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	faces := []mesh.Face{{0, 1, 2}, {3, 4, 5}}
	m := mesh.NewMesh(positions, nil, faces)

	first, _ := Weld(m, 1e-6)
	second, _ := Weld(first, 1e-6)

	require.Equal(t, len(first.Vertices), len(second.Vertices))
	require.Equal(t, len(first.Faces), len(second.Faces))
	for i := range first.Vertices {
		require.InDelta(t, 0, first.Vertices[i].Position.Sub(second.Vertices[i].Position).Len(), 1e-12)
	}
}

func TestWeld_MaxRedColorSurvives(t *testing.T) {
	positions := []mgl64.Vec3{{0, 0, 0}, {0, 0, 0}}
	dim := mesh.Color{R: 0.5, G: 0, B: 0}
	bright := mesh.Color{R: 0.9, G: 0, B: 0}
	colors := []*mesh.Color{&dim, &bright}
	m := mesh.NewMesh(positions, colors, nil)

	out, _ := Weld(m, 1e-6)
	require.Len(t, out.Vertices, 1)
	require.Equal(t, bright, out.Vertices[0].Color)
}
