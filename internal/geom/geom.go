// Package geom holds small 3D/2D math helpers shared by the seam
// extractor, the LSCM PCA initialization, and the tube unroller: principal-axis
// extraction via power iteration, and orthonormal frame construction.
//
// Grounded on this module's use of github.com/go-gl/mathgl throughout
// (Vec3/Mat3), promoted to the mgl64 precision variant per SPEC_FULL.md's
// DOMAIN STACK rationale.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Centroid returns the mean of pts, or the zero vector for an empty slice.
func Centroid(pts []mgl64.Vec3) mgl64.Vec3 {
	if len(pts) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}

// covariance builds the 3x3 covariance matrix of pts about their centroid.
// The matrix is symmetric, so mgl64's column-major storage order does not
// matter for the values we place in it.
func covariance(pts []mgl64.Vec3, centroid mgl64.Vec3) mgl64.Mat3 {
	var xx, xy, xz, yy, yz, zz float64
	for _, p := range pts {
		d := p.Sub(centroid)
		xx += d.X() * d.X()
		xy += d.X() * d.Y()
		xz += d.X() * d.Z()
		yy += d.Y() * d.Y()
		yz += d.Y() * d.Z()
		zz += d.Z() * d.Z()
	}
	return mgl64.Mat3{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	}
}

// PrincipalAxis returns the leading eigenvector of the covariance matrix of
// pts, found by power iteration (30 iterations is enough for the
// low-dimensional, well-separated spectra these patches produce). Returns
// the zero vector if pts has fewer than 2 points.
func PrincipalAxis(pts []mgl64.Vec3) mgl64.Vec3 {
	if len(pts) < 2 {
		return mgl64.Vec3{}
	}
	centroid := Centroid(pts)
	cov := covariance(pts, centroid)

	axis := mgl64.Vec3{1, 1, 1}.Normalize()
	for i := 0; i < 30; i++ {
		next := cov.Mul3x1(axis)
		if next.Len() < 1e-15 {
			break
		}
		axis = next.Normalize()
	}
	if !mgl64Finite(axis) {
		return mgl64.Vec3{1, 0, 0}
	}
	return axis
}

// OrthonormalBasis builds a right-handed orthonormal frame (a, e1, e2)
// from the given primary axis a, choosing e1 perpendicular to a via
// Gram-Schmidt against a world axis not parallel to a.
func OrthonormalBasis(a mgl64.Vec3) (axis, e1, e2 mgl64.Vec3) {
	axis = a.Normalize()
	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(axis.Dot(ref)) > 0.95 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	e1 = ref.Sub(axis.Mul(axis.Dot(ref))).Normalize()
	e2 = axis.Cross(e1).Normalize()
	return axis, e1, e2
}

func mgl64Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
