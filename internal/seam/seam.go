// Package seam extracts garment seams from a colored, welded mesh: the red
// vertex set, a density-based clustering of that set for diagnostics, and
// the barrier edge set the flood segmenter treats as impassable.
//
// Grounded on the transitive-absorption traversal shape of
// katalvlaran-lvlath's bfs/algorithms-bfs packages, adapted from explicit
// graph edges to epsilon-radius spatial neighbor queries (DBSCAN).
package seam

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/geom"
	"github.com/patterncut/unfold/internal/mesh"
)

// DefaultClusterEpsFraction is the fraction of the mesh's bounding-box
// diagonal used as the DBSCAN radius when no larger user epsilon is given.
const DefaultClusterEpsFraction = 0.05

// Config controls seam extraction.
type Config struct {
	Threshold          mesh.RedThreshold
	ClusterEpsFraction float64
	UserEps            float64
}

// DefaultConfig returns spec defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:          mesh.DefaultRedThreshold(),
		ClusterEpsFraction: DefaultClusterEpsFraction,
	}
}

// Path is an ordered polyline of red-vertex positions built from one
// cluster, for host-side visualization only; downstream stages never
// consume it.
type Path struct {
	VertexIndices []int
	Points        []mgl64.Vec3
}

// Result is the output of Extract.
type Result struct {
	// Red holds the global indices of every vertex classified red.
	Red []int

	// Barriers holds every mesh edge whose both endpoints are red.
	Barriers map[mesh.EdgeKey]bool

	// Clusters holds DBSCAN clusters of size >= 2, ordered by
	// descending size. Diagnostic only; not consumed downstream.
	Clusters [][]int

	// Paths holds one ordered polyline per cluster, for visualization.
	Paths []Path
}

// RedSet returns Red as a lookup set.
func (r Result) RedSet() map[int]bool {
	set := make(map[int]bool, len(r.Red))
	for _, v := range r.Red {
		set[v] = true
	}
	return set
}

// Extract runs seam extraction over m.
func Extract(m *mesh.Mesh, cfg Config) Result {
	var result Result
	if m.Empty() {
		return result
	}

	for i, v := range m.Vertices {
		if mesh.IsRed(v, cfg.Threshold) {
			result.Red = append(result.Red, i)
		}
	}

	result.Barriers = barrierEdges(m, result.Red)

	eps := clusterEps(m, cfg)
	clusters := dbscan(m, result.Red, eps)
	sort.SliceStable(clusters, func(i, j int) bool { return len(clusters[i]) > len(clusters[j]) })
	result.Clusters = clusters

	for _, c := range clusters {
		result.Paths = append(result.Paths, buildPath(m, c))
	}

	return result
}

func clusterEps(m *mesh.Mesh, cfg Config) float64 {
	frac := cfg.ClusterEpsFraction
	if frac <= 0 {
		frac = DefaultClusterEpsFraction
	}
	return math.Max(cfg.UserEps, frac*m.Diameter())
}

func barrierEdges(m *mesh.Mesh, red []int) map[mesh.EdgeKey]bool {
	redSet := make(map[int]bool, len(red))
	for _, v := range red {
		redSet[v] = true
	}
	barriers := make(map[mesh.EdgeKey]bool)
	for _, f := range m.Faces {
		for _, e := range f.Edges() {
			if redSet[e.A] && redSet[e.B] {
				barriers[e] = true
			}
		}
	}
	return barriers
}

// dbscan clusters the red vertex indices by transitive eps-absorption: any
// two red vertices within eps of each other end up in the same cluster.
// Clusters of size < 2 are dropped (they carry no seam information).
func dbscan(m *mesh.Mesh, red []int, eps float64) [][]int {
	if len(red) == 0 {
		return nil
	}
	cellSide := math.Max(eps, 1e-9)
	type cellKey struct{ x, y, z int64 }
	cellOf := func(p mgl64.Vec3) cellKey {
		return cellKey{
			int64(math.Floor(p.X() / cellSide)),
			int64(math.Floor(p.Y() / cellSide)),
			int64(math.Floor(p.Z() / cellSide)),
		}
	}
	buckets := make(map[cellKey][]int)
	for _, v := range red {
		c := cellOf(m.Vertices[v].Position)
		buckets[c] = append(buckets[c], v)
	}

	visited := make(map[int]bool, len(red))
	var clusters [][]int
	for _, seed := range red {
		if visited[seed] {
			continue
		}
		queue := []int{seed}
		visited[seed] = true
		cluster := []int{}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			cluster = append(cluster, v)
			p := m.Vertices[v].Position
			c := cellOf(p)
			for dx := int64(-1); dx <= 1; dx++ {
				for dy := int64(-1); dy <= 1; dy++ {
					for dz := int64(-1); dz <= 1; dz++ {
						key := cellKey{c.x + dx, c.y + dy, c.z + dz}
						for _, cand := range buckets[key] {
							if visited[cand] {
								continue
							}
							if m.Vertices[cand].Position.Sub(p).Len() <= eps {
								visited[cand] = true
								queue = append(queue, cand)
							}
						}
					}
				}
			}
		}
		if len(cluster) >= 2 {
			clusters = append(clusters, cluster)
		}
	}
	return clusters
}

// buildPath orders a cluster's vertices along its dominant axis, giving a
// deterministic polyline suitable for display.
func buildPath(m *mesh.Mesh, cluster []int) Path {
	pts := make([]mgl64.Vec3, len(cluster))
	for i, v := range cluster {
		pts[i] = m.Vertices[v].Position
	}
	axis := geom.PrincipalAxis(pts)
	if axis.Len() == 0 {
		axis = mgl64.Vec3{1, 0, 0}
	}
	idx := append([]int(nil), cluster...)
	sort.SliceStable(idx, func(i, j int) bool {
		return m.Vertices[idx[i]].Position.Dot(axis) < m.Vertices[idx[j]].Position.Dot(axis)
	})
	ordered := make([]mgl64.Vec3, len(idx))
	for i, v := range idx {
		ordered[i] = m.Vertices[v].Position
	}
	return Path{VertexIndices: idx, Points: ordered}
}
