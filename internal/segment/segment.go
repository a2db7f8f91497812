// Package segment performs face-level flood segmentation with kerf: it
// discovers patches separated by seam barrier edges, reassigns the faces
// frozen on those barriers by majority vote, drops undersized patches, and
// removes every face touching a red vertex ("laser-kerf").
//
// Grounded on the queue-based flood fill with a barrier predicate in
// other_examples' stdimg floodfill reference, generalized from a pixel
// grid to a face-adjacency graph, and on a worker-pool job-bookkeeping
// idiom for tracking per-patch face membership.
package segment

import (
	"sort"

	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
	"github.com/patterncut/unfold/internal/profiling"
)

// DefaultMinPatchFaces is the default minimum face count a patch must
// reach to survive filtering.
const DefaultMinPatchFaces = 500

const maxVoteRounds = 5

// Segment runs the flood + vote + filter steps over m; it does not kerf.
// The returned patches are the PRE-KERF face groups (see DESIGN.md Open
// Question 6): callers that need the final, kerf-clean geometry must call
// Kerf on each returned patch once any internal-seam surgery has run.
func Segment(m *mesh.Mesh, barriers map[mesh.EdgeKey]bool, th mesh.RedThreshold, minPatchFaces int) []*mesh.SubMesh {
	defer profiling.Track("segment.Segment")()
	if m.Empty() {
		return nil
	}
	if minPatchFaces <= 0 {
		minPatchFaces = DefaultMinPatchFaces
	}
	ix := halfedge.Build(m)
	nf := len(m.Faces)

	if len(barriers) == 0 {
		if nf < minPatchFaces {
			return nil
		}
		all := make([]int, nf)
		for i := range all {
			all[i] = i
		}
		return []*mesh.SubMesh{buildPatch(m, ix, all, barriers, th)}
	}

	labels := labelFaces(m, ix, barriers, nf)

	groups := groupByLabel(labels)
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})

	var patches []*mesh.SubMesh
	for _, faces := range groups {
		if len(faces) < minPatchFaces {
			continue
		}
		patches = append(patches, buildPatch(m, ix, faces, barriers, th))
	}
	return patches
}

// labelFaces implements steps 1-3 of 4.E: boundary-face freezing, base
// flood fill across non-barrier edges, and adjacency-vote reassignment.
func labelFaces(m *mesh.Mesh, ix *halfedge.Index, barriers map[mesh.EdgeKey]bool, nf int) []int {
	isBoundaryFace := make([]bool, nf)
	for fi := 0; fi < nf; fi++ {
		for _, e := range ix.FaceEdges(fi) {
			if barriers[e] {
				isBoundaryFace[fi] = true
				break
			}
		}
	}

	labels := make([]int, nf)
	for i := range labels {
		labels[i] = -1
	}
	nextLabel := 0
	// Frozen boundary faces start out visited so the base flood fill
	// never enters them; the vote below assigns them.
	visited := append([]bool(nil), isBoundaryFace...)
	for fi := 0; fi < nf; fi++ {
		if isBoundaryFace[fi] || visited[fi] {
			continue
		}
		floodAcrossNonBarriers(ix, barriers, visited, labels, fi, nextLabel)
		nextLabel++
	}

	// Adjacency vote reassignment for frozen boundary faces.
	for round := 0; round < maxVoteRounds; round++ {
		changed := false
		for fi := 0; fi < nf; fi++ {
			if !isBoundaryFace[fi] || labels[fi] != -1 {
				continue
			}
			votes := make(map[int]int)
			for slot, n := range ix.FaceNeighbors(fi) {
				if n < 0 {
					continue
				}
				e := ix.FaceEdge(fi, slot)
				if barriers[e] {
					continue
				}
				if labels[n] >= 0 {
					votes[labels[n]]++
				}
			}
			if best, ok := plurality(votes); ok {
				labels[fi] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Any face still unassigned (isolated by barriers on every
	// non-barrier neighbor) is grouped with its own flood fill so no
	// face silently disappears from the coverage invariant.
	for fi := range visited {
		visited[fi] = labels[fi] != -1
	}
	for fi := 0; fi < nf; fi++ {
		if labels[fi] == -1 {
			floodAcrossNonBarriers(ix, barriers, visited, labels, fi, nextLabel)
			nextLabel++
		}
	}

	return labels
}

func floodAcrossNonBarriers(ix *halfedge.Index, barriers map[mesh.EdgeKey]bool, visited []bool, labels []int, start, label int) {
	queue := []int{start}
	visited[start] = true
	labels[start] = label
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for slot, n := range ix.FaceNeighbors(f) {
			if n < 0 || visited[n] {
				continue
			}
			e := ix.FaceEdge(f, slot)
			if barriers[e] {
				continue
			}
			visited[n] = true
			labels[n] = label
			queue = append(queue, n)
		}
	}
}

func plurality(votes map[int]int) (int, bool) {
	best, bestCount := -1, 0
	for label, count := range votes {
		if count > bestCount || (count == bestCount && label < best) {
			best, bestCount = label, count
		}
	}
	return best, bestCount > 0
}

func groupByLabel(labels []int) [][]int {
	byLabel := make(map[int][]int)
	for fi, l := range labels {
		byLabel[l] = append(byLabel[l], fi)
	}
	groups := make([][]int, 0, len(byLabel))
	for _, faces := range byLabel {
		groups = append(groups, faces)
	}
	return groups
}

// buildPatch constructs a pre-kerf SubMesh and its internal-seam metadata
// for one group of global face indices.
func buildPatch(m *mesh.Mesh, ix *halfedge.Index, faces []int, barriers map[mesh.EdgeKey]bool, th mesh.RedThreshold) *mesh.SubMesh {
	sm := mesh.NewSubMesh(m, faces)

	inPatch := make(map[int]bool, len(faces))
	for _, f := range faces {
		inPatch[f] = true
	}

	redSeen := make(map[int]bool)
	for _, v := range sm.VertexMap {
		if mesh.IsRed(m.Vertices[v], th) {
			redSeen[v] = true
		}
	}
	for v := range redSeen {
		sm.InternalRedVertices = append(sm.InternalRedVertices, v)
	}
	sort.Ints(sm.InternalRedVertices)

	for e := range barriers {
		incident := ix.EdgeFaces(e)
		if len(incident) != 2 {
			continue
		}
		if inPatch[incident[0]] && inPatch[incident[1]] {
			sm.InternalSeamEdges = append(sm.InternalSeamEdges, e)
		}
	}
	sort.Slice(sm.InternalSeamEdges, func(i, j int) bool {
		a, b := sm.InternalSeamEdges[i], sm.InternalSeamEdges[j]
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})

	return sm
}

// Kerf removes every face with any red vertex from sm and rebuilds the
// local vertex list, producing the final, kerf-clean patch geometry
// invariant #3 requires. Metadata fields (InternalRedVertices,
// InternalSeamEdges) are carried over unchanged as historical diagnostics;
// they may reference vertices no longer present in sm.Vertices.
func Kerf(sm *mesh.SubMesh, th mesh.RedThreshold) *mesh.SubMesh {
	defer profiling.Track("segment.Kerf")()
	keep := make([]mesh.Face, 0, len(sm.Faces))
	keepGlobal := make([]int, 0, len(sm.Faces))
	for i, f := range sm.Faces {
		if anyRed(sm, f, th) {
			continue
		}
		keep = append(keep, f)
		keepGlobal = append(keepGlobal, sm.GlobalFaces[i])
	}

	out := &mesh.SubMesh{
		InternalRedVertices: sm.InternalRedVertices,
		InternalSeamEdges:   sm.InternalSeamEdges,
		TopologyError:       sm.TopologyError,
	}
	localOf := make(map[int]int, len(keep)*3)
	for i, f := range keep {
		var lf mesh.Face
		for k := 0; k < 3; k++ {
			oldLocal := f[k]
			nl, ok := localOf[oldLocal]
			if !ok {
				nl = len(out.Vertices)
				localOf[oldLocal] = nl
				out.Vertices = append(out.Vertices, sm.Vertices[oldLocal])
				out.VertexMap = append(out.VertexMap, sm.VertexMap[oldLocal])
			}
			lf[k] = nl
		}
		out.Faces = append(out.Faces, lf)
		out.GlobalFaces = append(out.GlobalFaces, keepGlobal[i])
	}
	return out
}

func anyRed(sm *mesh.SubMesh, f mesh.Face, th mesh.RedThreshold) bool {
	for _, v := range f {
		if mesh.IsRed(sm.Vertices[v], th) {
			return true
		}
	}
	return false
}
