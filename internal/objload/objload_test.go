package objload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesPlainTriangle(t *testing.T) {
	src := `
# a comment
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, m.NumVertices())
	require.Equal(t, 1, m.NumFaces())
	require.Equal(t, [3]int{0, 1, 2}, m.FaceAt(0))
}

func TestLoad_ParsesColorExtension(t *testing.T) {
	src := `
v 0 0 0 0.9 0.1 0.1
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.True(t, m.Vertices[0].HasColor)
	require.InDelta(t, 0.9, m.Vertices[0].Color.R, 1e-9)
	require.False(t, m.Vertices[1].HasColor)
}

func TestLoad_FanTriangulatesQuads(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, m.NumFaces())
}

func TestLoad_ParsesSlashedFaceIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1/1/1 2/2/1 3/3/1
`
	m, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, [3]int{0, 1, 2}, m.FaceAt(0))
}

func TestLoad_EmptyInputProducesEmptyMesh(t *testing.T) {
	m, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	require.True(t, m.Empty())
}
