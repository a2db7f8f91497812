package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatchesSpecDefaults(t *testing.T) {
	c := DefaultConfig()
	require.Equal(t, 1e-5, c.WeldTolerance)
	require.Equal(t, 500, c.MinPatchFaces)
	require.Equal(t, 100, c.MinComponentFaces)
	require.Equal(t, 0.05, c.ClusterEpsFraction)
	require.Equal(t, 200, c.RelaxationIterations)
	require.Equal(t, 50.0, c.BoundaryStiffness)
	require.Equal(t, 0.2, c.InteriorStiffness)
	require.False(t, c.PinBoundary)
	require.Equal(t, 4.0, c.PackerRowWidth)
	require.Equal(t, 0.02, c.PackerPadding)
	require.Equal(t, 30, c.LSCMIterations)
	require.Equal(t, 0.4, c.LSCMAlpha)
}

func TestValidate_ClampsNegativeAndOutOfRangeFields(t *testing.T) {
	c := Config{
		WeldTolerance:      -1,
		MinPatchFaces:      -5,
		MinComponentFaces:  -5,
		ClusterEpsFraction: -0.1,
		Damping:            1.5,
		PackerRowWidth:     -1,
		LSCMAlpha:          2.0,
	}.Validate()

	require.Equal(t, 1e-5, c.WeldTolerance)
	require.Equal(t, 0, c.MinPatchFaces)
	require.Equal(t, 0, c.MinComponentFaces)
	require.Equal(t, 0.05, c.ClusterEpsFraction)
	require.Equal(t, 0.995, c.Damping)
	require.Equal(t, 4.0, c.PackerRowWidth)
	require.Equal(t, 0.4, c.LSCMAlpha)
}

func TestValidate_LeavesInRangeValuesUnchanged(t *testing.T) {
	c := DefaultConfig().Validate()
	require.Equal(t, DefaultConfig(), c)
}
