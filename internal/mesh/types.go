// Package mesh defines the core 3D mesh data model: vertices, triangular
// faces, edge keys, and the patch ("SubMesh") type produced by segmentation.
//
// The raw mesh is produced once by an external loader and treated as
// immutable thereafter; every stage in this module borrows a *Mesh or
// *SubMesh and returns a new owned value rather than mutating in place.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color is a vertex color in [0,1]^3.
type Color struct {
	R, G, B float64
}

// Vertex is a single 3D point with an optional color.
type Vertex struct {
	Position mgl64.Vec3
	HasColor bool
	Color    Color
}

// Face is an ordered triple of vertex indices. The order defines the
// face's winding/orientation.
type Face [3]int

// EdgeKey is the unordered-pair identity of a mesh edge: (min(u,v), max(u,v)).
type EdgeKey struct {
	A, B int
}

// NewEdgeKey normalizes an (u,v) pair into its canonical EdgeKey.
func NewEdgeKey(u, v int) EdgeKey {
	if u <= v {
		return EdgeKey{u, v}
	}
	return EdgeKey{v, u}
}

// Edges returns the three canonical edge keys of a face.
func (f Face) Edges() [3]EdgeKey {
	return [3]EdgeKey{
		NewEdgeKey(f[0], f[1]),
		NewEdgeKey(f[1], f[2]),
		NewEdgeKey(f[2], f[0]),
	}
}

// Mesh is a finite set of 3D vertices and triangular faces.
type Mesh struct {
	Vertices []Vertex
	Faces    []Face
}

// NewMesh constructs a Mesh from raw positions/colors and faces. colors may
// be nil, in which case no vertex carries color data.
func NewMesh(positions []mgl64.Vec3, colors []*Color, faces []Face) *Mesh {
	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{Position: p}
		if colors != nil && colors[i] != nil {
			v.HasColor = true
			v.Color = *colors[i]
		}
		verts[i] = v
	}
	fs := make([]Face, len(faces))
	copy(fs, faces)
	return &Mesh{Vertices: verts, Faces: fs}
}

// NumVertices implements the halfedge/connectivity FaceSource interface.
func (m *Mesh) NumVertices() int { return len(m.Vertices) }

// NumFaces implements the halfedge/connectivity FaceSource interface.
func (m *Mesh) NumFaces() int { return len(m.Faces) }

// FaceAt implements the halfedge/connectivity FaceSource interface.
func (m *Mesh) FaceAt(i int) [3]int { return [3]int(m.Faces[i]) }

// Position returns the 3D position of vertex i.
func (m *Mesh) Position(i int) mgl64.Vec3 { return m.Vertices[i].Position }

// Empty reports whether the mesh has no vertices or no faces.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Bounds returns the axis-aligned bounding box of the mesh's vertices.
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	min = m.Vertices[0].Position
	max = min
	for _, v := range m.Vertices[1:] {
		p := v.Position
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// Diameter returns the length of the bounding box's diagonal.
func (m *Mesh) Diameter() float64 {
	min, max := m.Bounds()
	return max.Sub(min).Len()
}

// RedThreshold is the color predicate used to classify a vertex as a seam
// marker: r >= RMin && g <= GMax && b <= BMax.
type RedThreshold struct {
	RMin, GMax, BMax float64
}

// DefaultRedThreshold matches spec: r>=0.7, g<=0.4, b<=0.4.
func DefaultRedThreshold() RedThreshold {
	return RedThreshold{RMin: 0.7, GMax: 0.4, BMax: 0.4}
}

// IsRed classifies a vertex against a red threshold. Vertices without color
// data are never red.
func IsRed(v Vertex, th RedThreshold) bool {
	if !v.HasColor {
		return false
	}
	return v.Color.R >= th.RMin && v.Color.G <= th.GMax && v.Color.B <= th.BMax
}

// FiniteVec3 reports whether every component of v is finite.
func FiniteVec3(v mgl64.Vec3) bool {
	return isFinite(v.X()) && isFinite(v.Y()) && isFinite(v.Z())
}

// FiniteVec2 reports whether every component of v is finite.
func FiniteVec2(v mgl64.Vec2) bool {
	return isFinite(v.X()) && isFinite(v.Y())
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
