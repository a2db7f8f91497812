// Package pack arranges flattened patches into a single UV sheet with
// shelf (row-based) packing (§4.J).
//
// Grounded on a greedy-meshing cursor idiom — a running (x, y) placement
// cursor advanced layer by layer — adapted here from voxel-face
// placement to patch placement on a 2D sheet.
package pack

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/profiling"
)

// Config holds the packer's tunable parameters.
type Config struct {
	MaxWidth float64
	Padding  float64
}

// DefaultConfig matches spec's stated defaults.
func DefaultConfig() Config {
	return Config{MaxWidth: 4.0, Padding: 0.02}
}

// Patch is the packer's view of a flattened piece: an identifier to
// correlate with the pipeline's patch list, and its UV coordinates.
type Patch struct {
	ID string
	UV []mgl64.Vec2
}

// Result is the outcome of packing: every patch's UVs translated into
// sheet space, plus the sheet's overall bounds and total patch area.
type Result struct {
	Patches   []Patch
	MinBound  mgl64.Vec2
	MaxBound  mgl64.Vec2
	TotalArea float64
}

// Pack places patches onto shelves in the order given — the pipeline
// hands patches through in a natural, reproducible order; callers wanting
// area-descending placement should sort before calling Pack.
func Pack(patches []Patch, cfg Config) Result {
	defer profiling.Track("pack.Pack")()
	out := make([]Patch, len(patches))

	var x, y0, rowHeight float64
	haveBounds := false
	var minBound, maxBound mgl64.Vec2
	var totalArea float64

	for i, p := range patches {
		uMin, vMin, uMax, vMax := bounds(p.UV)
		w := uMax - uMin
		h := vMax - vMin
		totalArea += w * h

		if x+w > cfg.MaxWidth && x > 0 {
			y0 += rowHeight + cfg.Padding
			x = 0
			rowHeight = 0
		}

		offset := mgl64.Vec2{x - uMin, y0 - vMin}
		placed := make([]mgl64.Vec2, len(p.UV))
		for j, uv := range p.UV {
			placed[j] = uv.Add(offset)
		}
		out[i] = Patch{ID: p.ID, UV: placed}

		placedMin, placedMax := mgl64.Vec2{x, y0}, mgl64.Vec2{x + w, y0 + h}
		if !haveBounds {
			minBound, maxBound = placedMin, placedMax
			haveBounds = true
		} else {
			minBound = componentMin(minBound, placedMin)
			maxBound = componentMax(maxBound, placedMax)
		}

		x += w + cfg.Padding
		if h > rowHeight {
			rowHeight = h
		}
	}

	return Result{Patches: out, MinBound: minBound, MaxBound: maxBound, TotalArea: totalArea}
}

func bounds(uv []mgl64.Vec2) (uMin, vMin, uMax, vMax float64) {
	if len(uv) == 0 {
		return 0, 0, 0, 0
	}
	uMin, vMin = uv[0].X(), uv[0].Y()
	uMax, vMax = uMin, vMin
	for _, p := range uv[1:] {
		if p.X() < uMin {
			uMin = p.X()
		}
		if p.X() > uMax {
			uMax = p.X()
		}
		if p.Y() < vMin {
			vMin = p.Y()
		}
		if p.Y() > vMax {
			vMax = p.Y()
		}
	}
	return uMin, vMin, uMax, vMax
}

func componentMin(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{minF(a.X(), b.X()), minF(a.Y(), b.Y())}
}

func componentMax(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{maxF(a.X(), b.X()), maxF(a.Y(), b.Y())}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
