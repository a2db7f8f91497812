package unfold

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/geom"
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/profiling"
)

// Tube implements §4.H.2: it treats the patch as a rolled sheet around its
// longest bounding-box axis and unrolls the cylindrical coordinate (height,
// angle) into (U, V).
func Tube(sm *mesh.SubMesh) []mgl64.Vec2 {
	defer profiling.Track("unfold.Tube")()
	n := sm.NumVertices()
	if n == 0 {
		return nil
	}

	centroid, axis := boundingBoxAxis(sm)
	_, e1, e2 := geom.OrthonormalBasis(axis)

	h := make([]float64, n)
	theta := make([]float64, n)
	radii := make([]float64, 0, n)
	for v := 0; v < n; v++ {
		d := sm.Position(v).Sub(centroid)
		h[v] = d.Dot(axis)
		x, y := d.Dot(e1), d.Dot(e2)
		theta[v] = math.Atan2(y, x)
		radii = append(radii, math.Hypot(x, y))
	}

	unwrapAngles(theta)

	thetaMin, thetaMax := minMax(theta)
	hMin, _ := minMax(h)
	rho := mean(radii)
	arcLen := rho * (thetaMax - thetaMin)
	if arcLen <= 0 {
		arcLen = 1
	}
	thetaSpan := thetaMax - thetaMin
	if thetaSpan == 0 {
		thetaSpan = 1
	}

	uv := make([]mgl64.Vec2, n)
	for v := 0; v < n; v++ {
		u := (theta[v] - thetaMin) / thetaSpan * arcLen
		uv[v] = mgl64.Vec2{u, h[v] - hMin}
	}
	return uv
}

// boundingBoxAxis returns the patch centroid and the world axis (X, Y, or
// Z) spanning the largest extent of its bounding box — the "principal
// axis" of §4.H.2, which intentionally skips full PCA.
func boundingBoxAxis(sm *mesh.SubMesh) (centroid, axis mgl64.Vec3) {
	n := sm.NumVertices()
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = sm.Position(i)
	}
	centroid = geom.Centroid(pts)

	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	extent := max.Sub(min)
	axis = mgl64.Vec3{1, 0, 0}
	best := extent.X()
	if extent.Y() > best {
		best, axis = extent.Y(), mgl64.Vec3{0, 1, 0}
	}
	if extent.Z() > best {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return centroid, axis
}

// unwrapAngles restores angular continuity: if the spread between max and
// min exceeds 1.5π, every negative angle is shifted by +2π.
func unwrapAngles(theta []float64) {
	min, max := minMax(theta)
	if max-min <= 1.5*math.Pi {
		return
	}
	for i, t := range theta {
		if t < 0 {
			theta[i] = t + 2*math.Pi
		}
	}
}

func minMax(vals []float64) (min, max float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// IsElongated reports whether sm's bounding box is "elongated" per §4.H.2's
// tube trigger: the longest side is at least 1.8x the second-longest.
func IsElongated(sm *mesh.SubMesh) bool {
	n := sm.NumVertices()
	if n == 0 {
		return false
	}
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = sm.Position(i)
	}
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	extent := max.Sub(min)
	sides := []float64{extent.X(), extent.Y(), extent.Z()}
	sort3Desc(sides)
	if sides[1] <= 0 {
		return sides[0] > 0
	}
	return sides[0] >= 1.8*sides[1]
}

func sort3Desc(s []float64) {
	if s[0] < s[1] {
		s[0], s[1] = s[1], s[0]
	}
	if s[1] < s[2] {
		s[1], s[2] = s[2], s[1]
	}
	if s[0] < s[1] {
		s[0], s[1] = s[1], s[0]
	}
}
