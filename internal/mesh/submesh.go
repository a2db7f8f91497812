package mesh

import "github.com/go-gl/mathgl/mgl64"

// SubMesh ("patch" / 裁片) is a self-contained mesh carved out of a global
// Mesh by the flood segmenter. It owns a local vertex/face list plus the
// maps back to the global mesh that consumers need to reassemble results.
type SubMesh struct {
	// Vertices holds local vertex data copied from the global mesh at
	// construction time (position + color), so later stages never need
	// to dereference back into the original mesh.
	Vertices []Vertex

	// Faces index into Vertices.
	Faces []Face

	// VertexMap maps a local vertex index to its global mesh index.
	VertexMap []int

	// GlobalFaces maps a local face index to its index in the original
	// mesh's face list.
	GlobalFaces []int

	// InternalRedVertices holds the global indices of red vertices that
	// were incident to this patch's faces before kerf removal. Retained
	// as metadata so the orchestrator can decide whether an internal
	// seam cut (surgery) is required; see DESIGN.md Open Question 6.
	InternalRedVertices []int

	// InternalSeamEdges holds barrier edges (global vertex indices) that
	// lie entirely inside this patch's pre-kerf face set, i.e. whose two
	// incident faces both belong to this patch. These are the edges the
	// internal-seam cutter (surgery.InternalCut) splits along.
	InternalSeamEdges []EdgeKey

	// TopologyError flags a patch the topology inspector could not
	// classify into disk/cylinder/sphere. It is still flattened (via the
	// BFS fan, last resort) and emitted, never silently dropped.
	TopologyError bool
}

// NumVertices implements the halfedge/connectivity FaceSource interface.
func (s *SubMesh) NumVertices() int { return len(s.Vertices) }

// NumFaces implements the halfedge/connectivity FaceSource interface.
func (s *SubMesh) NumFaces() int { return len(s.Faces) }

// FaceAt implements the halfedge/connectivity FaceSource interface.
func (s *SubMesh) FaceAt(i int) [3]int { return [3]int(s.Faces[i]) }

// Position returns the 3D position of local vertex i.
func (s *SubMesh) Position(i int) mgl64.Vec3 { return s.Vertices[i].Position }

// NewSubMesh builds a SubMesh from a global mesh and the list of global
// face indices that belong to the patch. Local vertex indices are assigned
// in order of first appearance among the given faces, which keeps patch
// construction deterministic for a fixed face order.
func NewSubMesh(m *Mesh, globalFaceIdx []int) *SubMesh {
	localOf := make(map[int]int, len(globalFaceIdx)*3)
	sm := &SubMesh{
		Faces:       make([]Face, 0, len(globalFaceIdx)),
		GlobalFaces: make([]int, 0, len(globalFaceIdx)),
	}
	for _, gf := range globalFaceIdx {
		f := m.Faces[gf]
		var lf Face
		for k := 0; k < 3; k++ {
			gv := f[k]
			lv, ok := localOf[gv]
			if !ok {
				lv = len(sm.Vertices)
				localOf[gv] = lv
				sm.Vertices = append(sm.Vertices, m.Vertices[gv])
				sm.VertexMap = append(sm.VertexMap, gv)
			}
			lf[k] = lv
		}
		sm.Faces = append(sm.Faces, lf)
		sm.GlobalFaces = append(sm.GlobalFaces, gf)
	}
	return sm
}

// ToMesh discards s's patch metadata (VertexMap, GlobalFaces, seam/red
// bookkeeping) and returns its vertices and faces as a standalone Mesh.
// Used by the orchestrator to feed a fragment-filtered subset of faces
// back into stages (seam extraction, segmentation) that operate on a
// whole Mesh rather than a patch.
func (s *SubMesh) ToMesh() *Mesh {
	return &Mesh{
		Vertices: append([]Vertex(nil), s.Vertices...),
		Faces:    append([]Face(nil), s.Faces...),
	}
}

// Clone returns a deep-enough copy of s that mutating the copy's slices
// never touches s (used by surgery, which needs to rewrite face/vertex
// lists without corrupting the segmenter's original patch).
func (s *SubMesh) Clone() *SubMesh {
	out := &SubMesh{
		Vertices:    append([]Vertex(nil), s.Vertices...),
		Faces:       append([]Face(nil), s.Faces...),
		VertexMap:   append([]int(nil), s.VertexMap...),
		GlobalFaces: append([]int(nil), s.GlobalFaces...),
		InternalRedVertices: append([]int(nil), s.InternalRedVertices...),
		InternalSeamEdges:   append([]EdgeKey(nil), s.InternalSeamEdges...),
		TopologyError:       s.TopologyError,
	}
	return out
}
