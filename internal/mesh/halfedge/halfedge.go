// Package halfedge builds an ephemeral adjacency index over a triangle
// mesh: edge->faces, face->face, vertex->faces, and vertex->vertex maps,
// plus boundary detection. It is built on entry to a stage and discarded
// on exit; nothing here is held durably.
//
// Grounded on the indexed half-edge array pattern used by this corpus's
// DCEL implementations (faces holding directed-edge ids, opposites
// resolved by a hash over endpoint pairs) rather than a heap-linked node
// graph, per the design note that array-of-structs avoids needless
// allocation churn for meshes with tens of thousands of faces.
package halfedge

import "github.com/patterncut/unfold/internal/mesh"

// FaceSource is the minimal surface Build needs. *mesh.Mesh and
// *mesh.SubMesh both implement it.
type FaceSource interface {
	NumVertices() int
	NumFaces() int
	FaceAt(i int) [3]int
}

// Index is the adjacency index for one FaceSource, built in O(|F|).
type Index struct {
	numVerts int
	numFaces int

	// faceEdges[f] holds the three canonical edge keys of face f, in
	// FaceAt's winding order, so face-face adjacency can be resolved
	// against a specific edge slot after the full incidence count of
	// every edge is known.
	faceEdges [][3]mesh.EdgeKey

	// edgeFaces maps an undirected edge to every face incident to it.
	// Incidence of 1 means boundary; 2 means interior; >=3 is
	// non-manifold and is treated as boundary on both sides (no face
	// link is synthesized across it).
	edgeFaces map[mesh.EdgeKey][]int

	// faceNeighbors[f][k] is the face sharing face f's k-th edge, or -1
	// if that edge has incidence != 2.
	faceNeighbors [][3]int

	vertexFaces     map[int][]int
	vertexNeighbors map[int]map[int]struct{}

	boundaryEdges map[mesh.EdgeKey]bool
	boundaryVerts map[int]bool
}

// Build constructs the adjacency index for src.
func Build(src FaceSource) *Index {
	nf := src.NumFaces()
	ix := &Index{
		numVerts:        src.NumVertices(),
		numFaces:        nf,
		faceEdges:       make([][3]mesh.EdgeKey, nf),
		edgeFaces:       make(map[mesh.EdgeKey][]int, nf*3/2+1),
		faceNeighbors:   make([][3]int, nf),
		vertexFaces:     make(map[int][]int, src.NumVertices()),
		vertexNeighbors: make(map[int]map[int]struct{}, src.NumVertices()),
		boundaryEdges:   make(map[mesh.EdgeKey]bool),
		boundaryVerts:   make(map[int]bool),
	}

	for fi := 0; fi < nf; fi++ {
		f := src.FaceAt(fi)
		edges := [3]mesh.EdgeKey{
			mesh.NewEdgeKey(f[0], f[1]),
			mesh.NewEdgeKey(f[1], f[2]),
			mesh.NewEdgeKey(f[2], f[0]),
		}
		ix.faceEdges[fi] = edges
		for k := 0; k < 3; k++ {
			ix.faceNeighbors[fi][k] = -1
			v := f[k]
			ix.vertexFaces[v] = append(ix.vertexFaces[v], fi)
		}
		for _, e := range edges {
			ix.edgeFaces[e] = append(ix.edgeFaces[e], fi)
		}
		pairs := [3][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}}
		for _, p := range pairs {
			ix.link(p[0], p[1])
		}
	}

	// Resolve face-face adjacency and boundary classification now that
	// every edge's full incidence is known.
	for e, faces := range ix.edgeFaces {
		switch len(faces) {
		case 1:
			ix.boundaryEdges[e] = true
			ix.boundaryVerts[e.A] = true
			ix.boundaryVerts[e.B] = true
		case 2:
			ix.setNeighborSlot(faces[0], faces[1], e)
			ix.setNeighborSlot(faces[1], faces[0], e)
		default:
			// Non-manifold: treat as boundary on both sides, no
			// face-face link is created across it.
			ix.boundaryVerts[e.A] = true
			ix.boundaryVerts[e.B] = true
		}
	}

	return ix
}

func (ix *Index) link(a, b int) {
	if ix.vertexNeighbors[a] == nil {
		ix.vertexNeighbors[a] = make(map[int]struct{})
	}
	if ix.vertexNeighbors[b] == nil {
		ix.vertexNeighbors[b] = make(map[int]struct{})
	}
	ix.vertexNeighbors[a][b] = struct{}{}
	ix.vertexNeighbors[b][a] = struct{}{}
}

func (ix *Index) setNeighborSlot(face, neighbor int, e mesh.EdgeKey) {
	for k, fe := range ix.faceEdges[face] {
		if fe == e {
			ix.faceNeighbors[face][k] = neighbor
			return
		}
	}
}

// FaceNeighbors returns, for face f, the neighboring face across each of
// its three edges (in FaceAt winding order), or -1 where that edge is a
// boundary or non-manifold edge.
func (ix *Index) FaceNeighbors(f int) [3]int { return ix.faceNeighbors[f] }

// FaceNeighborList returns the (<=3) distinct valid neighbor face indices
// of f, without the -1 placeholders.
func (ix *Index) FaceNeighborList(f int) []int {
	out := make([]int, 0, 3)
	for _, n := range ix.faceNeighbors[f] {
		if n >= 0 {
			out = append(out, n)
		}
	}
	return out
}

// FaceEdge returns the canonical edge key at face f's slot (0, 1, or 2).
func (ix *Index) FaceEdge(f, slot int) mesh.EdgeKey { return ix.faceEdges[f][slot] }

// FaceEdges returns all three canonical edge keys of face f, in FaceAt
// winding order.
func (ix *Index) FaceEdges(f int) [3]mesh.EdgeKey { return ix.faceEdges[f] }

// EdgeFaces returns every face incident to edge e (0, 1, 2, or more).
func (ix *Index) EdgeFaces(e mesh.EdgeKey) []int { return ix.edgeFaces[e] }

// VertexFaces returns every face incident to vertex v.
func (ix *Index) VertexFaces(v int) []int { return ix.vertexFaces[v] }

// VertexNeighbors returns the distinct vertices connected to v by an edge.
func (ix *Index) VertexNeighbors(v int) []int {
	nbrs := ix.vertexNeighbors[v]
	out := make([]int, 0, len(nbrs))
	for n := range nbrs {
		out = append(out, n)
	}
	return out
}

// IsBoundaryEdge reports whether e has incidence exactly 1.
func (ix *Index) IsBoundaryEdge(e mesh.EdgeKey) bool { return ix.boundaryEdges[e] }

// IsBoundaryVertex reports whether v touches a boundary or non-manifold edge.
func (ix *Index) IsBoundaryVertex(v int) bool { return ix.boundaryVerts[v] }

// BoundaryEdges returns all edges with incidence exactly 1.
func (ix *Index) BoundaryEdges() []mesh.EdgeKey {
	out := make([]mesh.EdgeKey, 0, len(ix.boundaryEdges))
	for e := range ix.boundaryEdges {
		out = append(out, e)
	}
	return out
}

// BoundaryVertices returns all vertices touching a boundary or
// non-manifold edge.
func (ix *Index) BoundaryVertices() []int {
	out := make([]int, 0, len(ix.boundaryVerts))
	for v := range ix.boundaryVerts {
		out = append(out, v)
	}
	return out
}
