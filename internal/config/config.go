// Package config holds the pipeline's tunable parameters as an explicit
// value type, constructed and clamped once via DefaultConfig and threaded
// through every stage — never a package-level singleton (see DESIGN.md
// Open Question decision 5: the core borrows inputs and returns owned
// outputs, so no stage may reach into ambient mutable state).
package config

import "github.com/patterncut/unfold/internal/mesh"

// Config is every §6 external-interface tunable in one value.
type Config struct {
	WeldTolerance        float64
	MinPatchFaces        int
	MinComponentFaces    int
	RedThreshold         mesh.RedThreshold
	ClusterEpsFraction   float64
	UserClusterEps       float64
	RelaxationIterations int
	BoundaryStiffness    float64
	InteriorStiffness    float64
	PinBoundary          bool
	Damping              float64
	PackerRowWidth       float64
	PackerPadding        float64
	LSCMIterations       int
	LSCMAlpha            float64
	ParallelPatches      bool
}

// DefaultConfig returns spec §6's stated defaults.
func DefaultConfig() Config {
	return Config{
		WeldTolerance:        1e-5,
		MinPatchFaces:        500,
		MinComponentFaces:    100,
		RedThreshold:         mesh.DefaultRedThreshold(),
		ClusterEpsFraction:   0.05,
		UserClusterEps:       0,
		RelaxationIterations: 200,
		BoundaryStiffness:    50.0,
		InteriorStiffness:    0.2,
		PinBoundary:          false,
		Damping:              0.995,
		PackerRowWidth:       4.0,
		PackerPadding:        0.02,
		LSCMIterations:       30,
		LSCMAlpha:            0.4,
		ParallelPatches:      false,
	}
}

// Validate clamps every field to a sane range, following the same
// clamp-on-write idiom a render-distance/FPS-cap setter would use,
// applied here once at construction instead of on every setter call.
func (c Config) Validate() Config {
	if c.WeldTolerance <= 0 {
		c.WeldTolerance = 1e-5
	}
	if c.MinPatchFaces < 0 {
		c.MinPatchFaces = 0
	}
	if c.MinComponentFaces < 0 {
		c.MinComponentFaces = 0
	}
	if c.ClusterEpsFraction <= 0 {
		c.ClusterEpsFraction = 0.05
	}
	if c.UserClusterEps < 0 {
		c.UserClusterEps = 0
	}
	if c.RelaxationIterations < 0 {
		c.RelaxationIterations = 0
	}
	if c.BoundaryStiffness < 0 {
		c.BoundaryStiffness = 0
	}
	if c.InteriorStiffness < 0 {
		c.InteriorStiffness = 0
	}
	if c.Damping <= 0 || c.Damping > 1 {
		c.Damping = 0.995
	}
	if c.PackerRowWidth <= 0 {
		c.PackerRowWidth = 4.0
	}
	if c.PackerPadding < 0 {
		c.PackerPadding = 0.02
	}
	if c.LSCMIterations < 0 {
		c.LSCMIterations = 0
	}
	if c.LSCMAlpha < 0 || c.LSCMAlpha > 1 {
		c.LSCMAlpha = 0.4
	}
	return c
}
