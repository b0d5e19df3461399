package pick

import "github.com/chazu/spacepick/pkg/geom"

// Mesh is the geometry the executor tests against: a vertex list, a flat
// triangle index list (three indices per triangle) and a bounding box in
// the same space as the pick ray.
type Mesh interface {
	Positions() []geom.Point3
	TriangleIndices() []int
	Bounds() geom.Box
}

// MeshData is a plain in-memory Mesh.
type MeshData struct {
	Name    string
	Points  []geom.Point3
	Indices []int
}

var _ Mesh = (*MeshData)(nil)

func (m *MeshData) Positions() []geom.Point3 { return m.Points }
func (m *MeshData) TriangleIndices() []int   { return m.Indices }

// Bounds is computed from the points on every call.
func (m *MeshData) Bounds() geom.Box { return geom.BoundsOf(m.Points) }

// MeshName returns Name. The executor reports it for the winning mesh.
func (m *MeshData) MeshName() string { return m.Name }

// named is implemented by meshes that carry a display name.
type named interface {
	MeshName() string
}

// meshName returns the mesh's name, or "" when it has none.
func meshName(m Mesh) string {
	if n, ok := m.(named); ok {
		return n.MeshName()
	}
	return ""
}
