package surgery

import (
	"math"
	"sort"

	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
	"github.com/patterncut/unfold/internal/profiling"
)

const maxLoopSubsample = 20

// CylinderCut implements §4.G.2: it finds the two largest boundary loops,
// searches for the closest pair of points between them, walks the
// shortest mesh-edge path connecting that pair, snaps the path's ends
// onto the boundary loops if needed, and splits the patch along that path
// the same way InternalCut splits along a seam.
//
// If sm has fewer than two boundary loops, it is returned unchanged —
// there is nothing to cut between.
func CylinderCut(sm *mesh.SubMesh) *mesh.SubMesh {
	defer profiling.Track("surgery.CylinderCut")()
	ix := halfedge.Build(sm)
	loops := orderedBoundaryLoops(ix)
	if len(loops) < 2 {
		return sm
	}
	sort.SliceStable(loops, func(i, j int) bool { return len(loops[i]) > len(loops[j]) })
	a, b := loops[0], loops[1]

	subA := subsample(a, maxLoopSubsample)
	subB := subsample(b, maxLoopSubsample)

	start, end := closestPair(sm, subA, subB)
	path := bfsPath(ix, start, end)
	if len(path) == 0 {
		return sm
	}

	path = snapToLoop(sm, path, a, true)
	path = snapToLoop(sm, path, b, false)

	cut := make(map[mesh.EdgeKey]bool, len(path))
	for i := 0; i+1 < len(path); i++ {
		cut[mesh.NewEdgeKey(path[i], path[i+1])] = true
	}

	return splitAlongLocalEdges(sm, cut)
}

// orderedBoundaryLoops partitions the boundary edge graph into vertex
// cycles, walking each loop in order. Patch boundaries in this domain are
// simple (boundary-vertex degree 2), which this walk assumes.
func orderedBoundaryLoops(ix *halfedge.Index) [][]int {
	edges := ix.BoundaryEdges()
	if len(edges) == 0 {
		return nil
	}
	adj := make(map[int][]int)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}

	used := make(map[mesh.EdgeKey]bool, len(edges))
	var loops [][]int
	for _, start := range edges {
		if used[start] {
			continue
		}
		loop := []int{start.A}
		used[start] = true
		prev, cur := start.A, start.B
		for cur != start.A {
			loop = append(loop, cur)
			next := -1
			for _, nb := range adj[cur] {
				e := mesh.NewEdgeKey(cur, nb)
				if used[e] {
					continue
				}
				next = nb
				used[e] = true
				break
			}
			if next == -1 {
				break
			}
			prev, cur = cur, next
		}
		_ = prev
		loops = append(loops, loop)
	}
	return loops
}

func subsample(loop []int, maxN int) []int {
	if len(loop) <= maxN {
		return loop
	}
	out := make([]int, 0, maxN)
	step := float64(len(loop)) / float64(maxN)
	for i := 0; i < maxN; i++ {
		out = append(out, loop[int(float64(i)*step)])
	}
	return out
}

func closestPair(sm *mesh.SubMesh, a, b []int) (int, int) {
	bestA, bestB := a[0], b[0]
	bestDist := math.Inf(1)
	for _, va := range a {
		pa := sm.Position(va)
		for _, vb := range b {
			d := pa.Sub(sm.Position(vb)).Len()
			if d < bestDist {
				bestDist = d
				bestA, bestB = va, vb
			}
		}
	}
	return bestA, bestB
}

// bfsPath returns the shortest mesh-edge path from start to end, or nil if
// they are disconnected.
func bfsPath(ix *halfedge.Index, start, end int) []int {
	if start == end {
		return []int{start}
	}
	parent := map[int]int{start: start}
	queue := []int{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if v == end {
			break
		}
		for _, n := range ix.VertexNeighbors(v) {
			if _, seen := parent[n]; !seen {
				parent[n] = v
				queue = append(queue, n)
			}
		}
	}
	if _, ok := parent[end]; !ok {
		return nil
	}
	var path []int
	for v := end; ; v = parent[v] {
		path = append([]int{v}, path...)
		if v == start {
			break
		}
	}
	return path
}

// snapToLoop prepends (atStart=true) or appends (atStart=false) the
// nearest vertex of loop to path if path's corresponding end is not
// already a member of loop.
func snapToLoop(sm *mesh.SubMesh, path []int, loop []int, atStart bool) []int {
	if len(path) == 0 {
		return path
	}
	end := path[len(path)-1]
	if atStart {
		end = path[0]
	}
	inLoop := make(map[int]bool, len(loop))
	for _, v := range loop {
		inLoop[v] = true
	}
	if inLoop[end] {
		return path
	}
	nearest, bestDist := loop[0], math.Inf(1)
	p := sm.Position(end)
	for _, v := range loop {
		d := p.Sub(sm.Position(v)).Len()
		if d < bestDist {
			bestDist, nearest = d, v
		}
	}
	if atStart {
		return append([]int{nearest}, path...)
	}
	return append(path, nearest)
}
