package kernel

import "github.com/chazu/spacepick/pkg/geom"

// Mesh is a flat triangle mesh. Vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// The JSON form is what the frontend draws.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // scene part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Positions returns the vertices widened to float64 points.
func (m *Mesh) Positions() []geom.Point3 {
	out := make([]geom.Point3, 0, m.VertexCount())
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		out = append(out, geom.FromFloat32(m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]))
	}
	return out
}

// TriangleIndices returns the index buffer as ints.
func (m *Mesh) TriangleIndices() []int {
	out := make([]int, len(m.Indices))
	for i, idx := range m.Indices {
		out[i] = int(idx)
	}
	return out
}

// Bounds returns the bounding box of the vertices.
func (m *Mesh) Bounds() geom.Box {
	return geom.BoundsOf(m.Positions())
}

// MeshName returns the part name, reported by the picker on a hit.
func (m *Mesh) MeshName() string {
	return m.Name
}
