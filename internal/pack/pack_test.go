package pack

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func unitSquare(id string) Patch {
	return Patch{ID: id, UV: []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}
}

func TestPack_PlacesFirstPatchAtOrigin(t *testing.T) {
	cfg := DefaultConfig()
	result := Pack([]Patch{unitSquare("a")}, cfg)
	uMin, vMin, _, _ := bounds(result.Patches[0].UV)
	require.InDelta(t, 0, uMin, 1e-9)
	require.InDelta(t, 0, vMin, 1e-9)
}

func TestPack_SecondPatchOffsetByPadding(t *testing.T) {
	cfg := DefaultConfig()
	result := Pack([]Patch{unitSquare("a"), unitSquare("b")}, cfg)
	uMin, _, _, _ := bounds(result.Patches[1].UV)
	require.InDelta(t, 1+cfg.Padding, uMin, 1e-9)
}

func TestPack_WrapsToNewRowWhenWidthExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWidth = 1.5 // only one unit square fits per row
	result := Pack([]Patch{unitSquare("a"), unitSquare("b")}, cfg)
	_, vMin, _, _ := bounds(result.Patches[1].UV)
	require.InDelta(t, 1+cfg.Padding, vMin, 1e-9, "second patch should wrap to a new row")
}

func TestPack_ComputesTotalAreaAndBounds(t *testing.T) {
	cfg := DefaultConfig()
	result := Pack([]Patch{unitSquare("a"), unitSquare("b")}, cfg)
	require.InDelta(t, 2.0, result.TotalArea, 1e-9)
	require.InDelta(t, 0, result.MinBound.X(), 1e-9)
	require.Greater(t, result.MaxBound.X(), 1.0)
}
