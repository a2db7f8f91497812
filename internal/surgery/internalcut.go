package surgery

import (
	"github.com/patterncut/unfold/internal/mesh"
	"github.com/patterncut/unfold/internal/profiling"
)

// NeedsInternalCut reports whether sm's pre-kerf metadata indicates an
// internal seam that must be surgically separated before flattening: at
// least two red vertices recorded as internal to the patch, and at least
// one barrier edge entirely interior to it (§4.G.1's trigger).
func NeedsInternalCut(sm *mesh.SubMesh) bool {
	return len(sm.InternalRedVertices) >= 2 && len(sm.InternalSeamEdges) >= 1
}

// InternalCut performs the vertex-splitting internal seam cut: it labels
// sm's faces by flood-fill without crossing any recorded internal seam
// edge, then duplicates every seam vertex once per extra group that uses
// it, so the two sides of the seam no longer share geometry.
//
// sm is expected to be the pre-kerf patch produced by segment.Segment,
// since its InternalSeamEdges are recorded against that face set (see
// DESIGN.md Open Question 6). Kerf should be applied to the result.
func InternalCut(sm *mesh.SubMesh) *mesh.SubMesh {
	defer profiling.Track("surgery.InternalCut")()
	if !NeedsInternalCut(sm) {
		return sm
	}

	globalToLocal := make(map[int]int, len(sm.VertexMap))
	for local, global := range sm.VertexMap {
		globalToLocal[global] = local
	}

	localCut := make(map[mesh.EdgeKey]bool, len(sm.InternalSeamEdges))
	for _, ge := range sm.InternalSeamEdges {
		la, oka := globalToLocal[ge.A]
		lb, okb := globalToLocal[ge.B]
		if oka && okb {
			localCut[mesh.NewEdgeKey(la, lb)] = true
		}
	}

	return splitAlongLocalEdges(sm, localCut)
}
