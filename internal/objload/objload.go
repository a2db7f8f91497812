// Package objload reads a Wavefront OBJ file into the core's mesh.Mesh
// type: vertex positions, an optional inline `v x y z r g b` color
// extension used by several garment-authoring exporters to paint seam
// markers directly onto vertices, and triangulated faces.
//
// Grounded on the Wavefront-parsing shape of this corpus's other_examples
// OBJ loader reference (gazed/vu's load.Obj: line-by-line tokenizing into
// vertex/face slices, 1-based index conversion), simplified here to the
// single-object, triangles-only case the pipeline consumes.
package objload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/patterncut/unfold/internal/mesh"
)

// Load parses r as a Wavefront OBJ stream and returns the mesh it
// describes. Faces with more than 3 vertices are fan-triangulated around
// their first vertex. r is expected to be opened and closed by the
// caller.
func Load(r io.Reader) (*mesh.Mesh, error) {
	var positions []mgl64.Vec3
	var colors []*mesh.Color
	var faces []mesh.Face

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			pos, color, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("objload: line %d: %w", lineNo, err)
			}
			positions = append(positions, pos)
			colors = append(colors, color)
		case "f":
			fs, err := parseFace(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("objload: line %d: %w", lineNo, err)
			}
			faces = append(faces, fs...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return mesh.NewMesh(positions, colors, faces), nil
}

// parseVertex handles both the plain "v x y z" form and the "v x y z r g
// b" color extension.
func parseVertex(fields []string) (mgl64.Vec3, *mesh.Color, error) {
	if len(fields) < 3 {
		return mgl64.Vec3{}, nil, fmt.Errorf("vertex needs at least 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return mgl64.Vec3{}, nil, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return mgl64.Vec3{}, nil, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return mgl64.Vec3{}, nil, err
	}
	pos := mgl64.Vec3{x, y, z}

	if len(fields) < 6 {
		return pos, nil, nil
	}
	r, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return pos, nil, nil
	}
	g, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return pos, nil, nil
	}
	b, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return pos, nil, nil
	}
	return pos, &mesh.Color{R: r, G: g, B: b}, nil
}

// parseFace handles "v", "v/vt", "v/vt/vn", and "v//vn" index groups,
// fan-triangulating polygons with more than 3 vertices, and converting
// OBJ's 1-based indices to 0-based.
func parseFace(fields []string) ([]mesh.Face, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	indices := make([]int, len(fields))
	for i, f := range fields {
		v, err := vertexIndex(f)
		if err != nil {
			return nil, err
		}
		indices[i] = v
	}

	faces := make([]mesh.Face, 0, len(indices)-2)
	for i := 1; i+1 < len(indices); i++ {
		faces = append(faces, mesh.Face{indices[0], indices[i], indices[i+1]})
	}
	return faces, nil
}

func vertexIndex(token string) (int, error) {
	parts := strings.Split(token, "/")
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad vertex index %q: %w", token, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("vertex index 0 is invalid in OBJ (1-based)")
	}
	if n < 0 {
		// OBJ allows negative indices relative to the current vertex
		// count; the pipeline's inputs never use this, so it is
		// treated as unsupported rather than silently mishandled.
		return 0, fmt.Errorf("relative vertex index %q is unsupported", token)
	}
	return n - 1, nil
}
