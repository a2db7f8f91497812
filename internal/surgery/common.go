// Package surgery performs the topological edits §4.G requires before a
// patch can be flattened: vertex splitting along internal seam edges, and
// a shortest-geodesic cylinder cut that reduces a cylinder's Euler
// characteristic from 0 to 1.
//
// Grounded on the vertex-duplication-during-topological-edit pattern in
// this corpus's DCEL reference implementations, and on
// katalvlaran-lvlath's bfs/dijkstra packages for the shortest-path search
// the cylinder cut performs over the patch's vertex graph.
package surgery

import (
	"sort"

	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
)

// splitAlongLocalEdges is the shared engine behind InternalCut and
// CylinderCut: it flood-fills the patch's faces without crossing any edge
// in cut, then allocates one duplicate vertex per extra group that uses a
// cut vertex (the first group touching a vertex keeps the original
// index), and rewrites every face to reference its group's duplicate.
//
// If cut does not actually separate the patch into more than one group
// (e.g. it only touches a single connected region), sm is returned
// unchanged: splitting never fabricates a cut that the edge set does not
// warrant.
func splitAlongLocalEdges(sm *mesh.SubMesh, cut map[mesh.EdgeKey]bool) *mesh.SubMesh {
	if len(cut) == 0 {
		return sm
	}
	ix := halfedge.Build(sm)
	nf := sm.NumFaces()
	labels := make([]int, nf)
	for i := range labels {
		labels[i] = -1
	}
	next := 0
	for fi := 0; fi < nf; fi++ {
		if labels[fi] != -1 {
			continue
		}
		floodWithoutCrossing(ix, cut, labels, fi, next)
		next++
	}
	if next <= 1 {
		return sm
	}

	out := sm.Clone()

	seamVerts := make(map[int]bool)
	for e := range cut {
		seamVerts[e.A] = true
		seamVerts[e.B] = true
	}

	for v := range seamVerts {
		groups := incidentGroups(ix, labels, v)
		if len(groups) <= 1 {
			continue
		}
		// First (lowest) group keeps the original vertex index;
		// every other group gets a fresh duplicate sharing the same
		// 3D coordinate.
		for _, g := range groups[1:] {
			newIdx := len(out.Vertices)
			out.Vertices = append(out.Vertices, sm.Vertices[v])
			out.VertexMap = append(out.VertexMap, sm.VertexMap[v])
			retargetFacesInGroup(out, labels, v, g, newIdx)
		}
	}

	return out
}

func floodWithoutCrossing(ix *halfedge.Index, cut map[mesh.EdgeKey]bool, labels []int, start, label int) {
	queue := []int{start}
	labels[start] = label
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for slot, n := range ix.FaceNeighbors(f) {
			if n < 0 || labels[n] != -1 {
				continue
			}
			e := ix.FaceEdge(f, slot)
			if cut[e] {
				continue
			}
			labels[n] = label
			queue = append(queue, n)
		}
	}
}

// incidentGroups returns the sorted, distinct group labels of the faces
// incident to vertex v.
func incidentGroups(ix *halfedge.Index, labels []int, v int) []int {
	seen := make(map[int]bool)
	for _, f := range ix.VertexFaces(v) {
		seen[labels[f]] = true
	}
	out := make([]int, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

// retargetFacesInGroup rewrites every reference to vertex oldV in faces
// belonging to group g to point at newV instead.
func retargetFacesInGroup(sm *mesh.SubMesh, labels []int, oldV, g, newV int) {
	for fi, f := range sm.Faces {
		if labels[fi] != g {
			continue
		}
		for k := 0; k < 3; k++ {
			if f[k] == oldV {
				f[k] = newV
			}
		}
		sm.Faces[fi] = f
	}
}
