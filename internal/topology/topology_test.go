package topology

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/patterncut/unfold/internal/mesh"
)

func singleTriangle() *mesh.SubMesh {
	m := mesh.NewMesh([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, []mesh.Face{{0, 1, 2}})
	return mesh.NewSubMesh(m, []int{0})
}

func TestInspect_SingleTriangleIsDisk(t *testing.T) {
	sm := singleTriangle()
	r := Inspect(sm)
	require.Equal(t, 1, r.EulerChar)
	require.Equal(t, ClassDisk, r.Class)
	require.Len(t, r.BoundaryLoops, 1)
}

func TestInspect_OpenCylinderHasTwoLoops(t *testing.T) {
	// An open cylinder approximated by a ring of quads (8 segments).
	const n = 8
	var positions []mgl64.Vec3
	for ring := 0; ring < 2; ring++ {
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			positions = append(positions, mgl64.Vec3{
				float64(ring), math.Cos(theta), math.Sin(theta),
			})
		}
	}
	var faces []mesh.Face
	idx := func(ring, i int) int { return ring*n + (i % n) }
	for i := 0; i < n; i++ {
		a, b := idx(0, i), idx(0, i+1)
		c, d := idx(1, i), idx(1, i+1)
		faces = append(faces, mesh.Face{a, b, d})
		faces = append(faces, mesh.Face{a, d, c})
	}
	m := mesh.NewMesh(positions, nil, faces)
	sm := mesh.NewSubMesh(m, indices(len(faces)))

	r := Inspect(sm)
	require.Equal(t, 0, r.EulerChar)
	require.Len(t, r.BoundaryLoops, 2)
	require.Equal(t, ClassCylinder, r.Class)
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
