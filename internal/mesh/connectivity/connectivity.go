// Package connectivity discovers connected components of the face graph
// induced by shared edges, and filters out small fragments.
//
// Grounded on the visited-set-driven component discovery in
// katalvlaran-lvlath's algorithms/dfs.go, adapted to traverse a
// halfedge.Index's face adjacency instead of a core.Graph.
package connectivity

import (
	"sort"

	"github.com/patterncut/unfold/internal/mesh/halfedge"
)

// DefaultMinComponentFaces is the default fragment-filtering threshold.
const DefaultMinComponentFaces = 100

// Components returns the connected components of the face graph induced
// by ix, each as a slice of face indices, sorted by descending size. Ties
// are broken by the lowest face index appearing in each component, which
// keeps the ordering deterministic for a fixed input.
func Components(ix *halfedge.Index, numFaces int) [][]int {
	visited := make([]bool, numFaces)
	var comps [][]int

	for start := 0; start < numFaces; start++ {
		if visited[start] {
			continue
		}
		comp := bfsComponent(ix, visited, start)
		comps = append(comps, comp)
	}

	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
	return comps
}

func bfsComponent(ix *halfedge.Index, visited []bool, start int) []int {
	queue := []int{start}
	visited[start] = true
	comp := make([]int, 0, 16)
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		comp = append(comp, f)
		for _, n := range ix.FaceNeighborList(f) {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return comp
}

// FilterSmall drops components with fewer than minFaces faces.
func FilterSmall(comps [][]int, minFaces int) [][]int {
	out := make([][]int, 0, len(comps))
	for _, c := range comps {
		if len(c) >= minFaces {
			out = append(out, c)
		}
	}
	return out
}

// Largest returns the component with the most faces, or nil if comps is
// empty. Since Components already sorts descending, this is comps[0].
func Largest(comps [][]int) []int {
	if len(comps) == 0 {
		return nil
	}
	return comps[0]
}
