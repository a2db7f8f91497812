// Package topology inspects a patch's Euler characteristic and boundary
// structure, and classifies it as disk, cylinder, sphere, or complex per
// spec's classification table.
package topology

import (
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/mesh/halfedge"
)

// Class is the topological classification of a patch.
type Class int

const (
	ClassDisk Class = iota
	ClassCylinder
	ClassSphere
	ClassComplex
)

func (c Class) String() string {
	switch c {
	case ClassDisk:
		return "disk"
	case ClassCylinder:
		return "cylinder"
	case ClassSphere:
		return "sphere"
	default:
		return "complex"
	}
}

// Report is the result of Inspect.
type Report struct {
	NumVertices   int
	NumEdges      int
	NumFaces      int
	EulerChar     int
	BoundaryLoops [][]mesh.EdgeKey
	Class         Class
}

// Inspect computes V, E, F, chi, boundary loops, and classification for sm.
func Inspect(sm *mesh.SubMesh) Report {
	ix := halfedge.Build(sm)

	uniqueEdges := make(map[mesh.EdgeKey]bool)
	for fi := 0; fi < sm.NumFaces(); fi++ {
		for _, e := range ix.FaceEdges(fi) {
			uniqueEdges[e] = true
		}
	}

	loops := boundaryLoops(ix)

	r := Report{
		NumVertices:   sm.NumVertices(),
		NumEdges:      len(uniqueEdges),
		NumFaces:      sm.NumFaces(),
		BoundaryLoops: loops,
	}
	r.EulerChar = r.NumVertices - r.NumEdges + r.NumFaces
	r.Class = classify(r.EulerChar, len(loops))
	return r
}

func classify(chi, loops int) Class {
	switch {
	case chi == 1 && loops >= 1:
		return ClassDisk
	case chi == 0 && loops >= 2:
		return ClassCylinder
	case chi == 2 && loops == 0:
		return ClassSphere
	default:
		return ClassComplex
	}
}

// boundaryLoops partitions the boundary edge set into connected loops by
// walking the boundary-vertex adjacency graph.
func boundaryLoops(ix *halfedge.Index) [][]mesh.EdgeKey {
	edges := ix.BoundaryEdges()
	if len(edges) == 0 {
		return nil
	}

	adj := make(map[int][]mesh.EdgeKey)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e)
		adj[e.B] = append(adj[e.B], e)
	}

	visited := make(map[mesh.EdgeKey]bool, len(edges))
	var loops [][]mesh.EdgeKey
	for _, start := range edges {
		if visited[start] {
			continue
		}
		var loop []mesh.EdgeKey
		queue := []mesh.EdgeKey{start}
		visited[start] = true
		for len(queue) > 0 {
			e := queue[0]
			queue = queue[1:]
			loop = append(loop, e)
			for _, v := range [2]int{e.A, e.B} {
				for _, ne := range adj[v] {
					if !visited[ne] {
						visited[ne] = true
						queue = append(queue, ne)
					}
				}
			}
		}
		loops = append(loops, loop)
	}
	return loops
}
