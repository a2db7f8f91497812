package unfold

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/geom"
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
	"github.com/patterncut/unfold/internal/profiling"
)

// Fan implements §4.H.3, the last-resort unfolder: it places a seed
// triangle by the law of cosines, then walks the face adjacency graph
// breadth-first, placing each newly discovered vertex by two-circle
// intersection against its two already-placed neighbors. It never fails —
// any vertex the walk cannot reach gets the mean of its placed neighbors,
// or a planar projection as the ultimate fallback — so it is safe to use
// on any topology, including the TopologyError patches the inspector could
// not classify.
func Fan(sm *mesh.SubMesh) []mgl64.Vec2 {
	defer profiling.Track("unfold.Fan")()
	n := sm.NumVertices()
	uv := make([]mgl64.Vec2, n)
	if n == 0 {
		return uv
	}
	ix := halfedge.Build(sm)
	placed := make([]bool, n)

	if sm.NumFaces() > 0 {
		seed := closestFaceToCentroid(sm)
		placeSeedTriangle(sm, uv, placed, seed)

		visited := make([]bool, sm.NumFaces())
		visited[seed] = true
		queue := []int{seed}
		for len(queue) > 0 {
			fi := queue[0]
			queue = queue[1:]
			for _, nb := range ix.FaceNeighbors(fi) {
				if nb < 0 || visited[nb] {
					continue
				}
				visited[nb] = true
				placeFace(sm, uv, placed, nb)
				queue = append(queue, nb)
			}
		}
	}

	finalizeUnplaced(sm, ix, uv, placed)
	return uv
}

func closestFaceToCentroid(sm *mesh.SubMesh) int {
	n := sm.NumVertices()
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = sm.Position(i)
	}
	centroid := geom.Centroid(pts)

	best, bestDist := 0, math.Inf(1)
	for fi := 0; fi < sm.NumFaces(); fi++ {
		f := sm.FaceAt(fi)
		faceCentroid := geom.Centroid([]mgl64.Vec3{sm.Position(f[0]), sm.Position(f[1]), sm.Position(f[2])})
		d := faceCentroid.Sub(centroid).Len()
		if d < bestDist {
			bestDist, best = d, fi
		}
	}
	return best
}

// placeSeedTriangle places face fi's three vertices on the plane: one at
// the origin, one on the +U axis, the third in the upper half-plane via
// the law of cosines.
func placeSeedTriangle(sm *mesh.SubMesh, uv []mgl64.Vec2, placed []bool, fi int) {
	f := sm.FaceAt(fi)
	a, b, c := f[0], f[1], f[2]
	lab := dist3(sm, a, b)
	lbc := dist3(sm, b, c)
	lca := dist3(sm, c, a)

	uv[a] = mgl64.Vec2{0, 0}
	uv[b] = mgl64.Vec2{lab, 0}

	cosA := 1.0
	if lab > 0 && lca > 0 {
		cosA = clamp((lab*lab+lca*lca-lbc*lbc)/(2*lab*lca), -1, 1)
	}
	angle := math.Acos(cosA)
	uv[c] = mgl64.Vec2{lca * math.Cos(angle), lca * math.Sin(angle)}

	placed[a], placed[b], placed[c] = true, true, true
}

// placeFace places face fi's single unplaced vertex by two-circle
// intersection against its two already-placed neighbors. If fi has zero or
// more than one unplaced vertex (a closed loop, or a face the walk reached
// from more than one direction), it is left for finalizeUnplaced.
func placeFace(sm *mesh.SubMesh, uv []mgl64.Vec2, placed []bool, fi int) {
	f := sm.FaceAt(fi)
	var known []int
	unknown := -1
	for _, v := range f {
		if placed[v] {
			known = append(known, v)
		} else {
			unknown = v
		}
	}
	if unknown == -1 || len(known) != 2 {
		return
	}
	p1, p2 := known[0], known[1]
	r1 := dist3(sm, unknown, p1)
	r2 := dist3(sm, unknown, p2)
	d := uv[p1].Sub(uv[p2]).Len()
	if d < 1e-12 {
		return
	}

	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	hSq := r1*r1 - a*a
	if hSq < 0 {
		hSq = 0
	}
	h := math.Sqrt(hSq)

	dir := uv[p2].Sub(uv[p1]).Mul(1 / d)
	perp := mgl64.Vec2{-dir.Y(), dir.X()}
	mid := uv[p1].Add(dir.Mul(a))

	cand1 := mid.Add(perp.Mul(h))
	cand2 := mid.Sub(perp.Mul(h))

	uv[unknown] = chooseWinding(f, uv, unknown, cand1, cand2)
	placed[unknown] = true
}

// chooseWinding picks whichever candidate keeps face f's signed 2D area
// positive in its original vertex order, matching the seed triangle's
// orientation.
func chooseWinding(f mesh.Face, uv []mgl64.Vec2, unknown int, cand1, cand2 mgl64.Vec2) mgl64.Vec2 {
	area := func(val mgl64.Vec2) float64 {
		var tri [3]mgl64.Vec2
		for i, v := range f {
			if v == unknown {
				tri[i] = val
			} else {
				tri[i] = uv[v]
			}
		}
		return signedArea2D(tri[0], tri[1], tri[2])
	}
	if area(cand1) >= area(cand2) {
		return cand1
	}
	return cand2
}

func signedArea2D(a, b, c mgl64.Vec2) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}

// finalizeUnplaced handles vertices the BFS walk never reached: first by
// iterated averaging of any placed neighbor, then — for anything still
// untouched (an isolated vertex with no placed neighbor at all) — by
// planar projection of its 3D position onto the patch's principal plane.
func finalizeUnplaced(sm *mesh.SubMesh, ix *halfedge.Index, uv []mgl64.Vec2, placed []bool) {
	n := len(placed)
	for pass, changed := 0, true; pass < n && changed; pass++ {
		changed = false
		for v := 0; v < n; v++ {
			if placed[v] {
				continue
			}
			var sum mgl64.Vec2
			count := 0
			for _, nb := range ix.VertexNeighbors(v) {
				if placed[nb] {
					sum = sum.Add(uv[nb])
					count++
				}
			}
			if count == 0 {
				continue
			}
			uv[v] = sum.Mul(1 / float64(count))
			placed[v] = true
			changed = true
		}
	}

	remaining := false
	for _, p := range placed {
		if !p {
			remaining = true
			break
		}
	}
	if !remaining {
		return
	}

	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = sm.Position(i)
	}
	centroid := geom.Centroid(pts)
	axis := geom.PrincipalAxis(pts)
	axis, e1, _ := geom.OrthonormalBasis(axis)
	for v := 0; v < n; v++ {
		if placed[v] {
			continue
		}
		d := sm.Position(v).Sub(centroid)
		uv[v] = mgl64.Vec2{d.Dot(axis), d.Dot(e1)}
		placed[v] = true
	}
}

func dist3(sm *mesh.SubMesh, a, b int) float64 {
	return sm.Position(a).Sub(sm.Position(b)).Len()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
