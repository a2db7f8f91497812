// Package weld merges spatially coincident vertices of a mesh within a
// tolerance and drops any face that degenerates as a result.
//
// Grounded on a chunk-coordinate integer-keyed map idiom for hashing 3D
// positions into buckets, and the 27-cell neighborhood scan common to
// grid/spatial-hash geometry code in this corpus.
package weld

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/profiling"
)

// DefaultTolerance is the default weld epsilon in world units.
const DefaultTolerance = 1e-5

// cellKey identifies a cell in the spatial hash grid.
type cellKey struct{ x, y, z int64 }

func cellOf(p mgl64.Vec3, cellSide float64) cellKey {
	return cellKey{
		x: int64(math.Floor(p.X() / cellSide)),
		y: int64(math.Floor(p.Y() / cellSide)),
		z: int64(math.Floor(p.Z() / cellSide)),
	}
}

// Weld merges vertices of m within eps of each other, remaps faces
// accordingly, and drops faces that become degenerate. It returns the new
// mesh plus the old->new vertex index map. eps<=0 uses DefaultTolerance.
//
// Weld never fails: a mesh with zero vertices is returned unchanged.
func Weld(m *mesh.Mesh, eps float64) (*mesh.Mesh, []int) {
	defer profiling.Track("weld.Weld")()
	if eps <= 0 {
		eps = DefaultTolerance
	}
	if m == nil || len(m.Vertices) == 0 {
		return &mesh.Mesh{}, nil
	}

	cellSide := 10 * eps
	buckets := make(map[cellKey][]int)
	newVerts := make([]mesh.Vertex, 0, len(m.Vertices))
	oldToNew := make([]int, len(m.Vertices))

	for i, v := range m.Vertices {
		c := cellOf(v.Position, cellSide)
		found := findWithinEps(buckets, newVerts, c, v.Position, eps)
		if found >= 0 {
			oldToNew[i] = found
			mergeColor(&newVerts[found], v)
			continue
		}
		idx := len(newVerts)
		newVerts = append(newVerts, v)
		buckets[c] = append(buckets[c], idx)
		oldToNew[i] = idx
	}

	newFaces := make([]mesh.Face, 0, len(m.Faces))
	for _, f := range m.Faces {
		a, b, c := oldToNew[f[0]], oldToNew[f[1]], oldToNew[f[2]]
		if a != b && b != c && a != c {
			newFaces = append(newFaces, mesh.Face{a, b, c})
		}
	}

	return &mesh.Mesh{Vertices: newVerts, Faces: newFaces}, oldToNew
}

func findWithinEps(buckets map[cellKey][]int, verts []mesh.Vertex, c cellKey, p mgl64.Vec3, eps float64) int {
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				key := cellKey{c.x + dx, c.y + dy, c.z + dz}
				for _, idx := range buckets[key] {
					if verts[idx].Position.Sub(p).Len() <= eps {
						return idx
					}
				}
			}
		}
	}
	return -1
}

// mergeColor combines the merged-in vertex's color into the representative
// using the max-red rule: the representative keeps whichever color has
// the higher red channel, so seam markers survive the weld.
func mergeColor(rep *mesh.Vertex, incoming mesh.Vertex) {
	if !incoming.HasColor {
		return
	}
	if !rep.HasColor || incoming.Color.R > rep.Color.R {
		rep.HasColor = true
		rep.Color = incoming.Color
	}
}
