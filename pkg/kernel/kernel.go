// Package kernel defines the geometry kernel that produces the meshes the
// picker tests against. A kernel builds solids from primitives, booleans
// and transforms, then tessellates them into flat triangle meshes.
package kernel

import "github.com/chazu/spacepick/pkg/geom"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() geom.Box
}

// Kernel is the solid modeling interface used by scene scripts.
type Kernel interface {
	// Primitives. Boxes have their minimum corner at the origin; cylinders
	// and spheres are centered on it.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, offset geom.Vector3) Solid
	Rotate(s Solid, degrees geom.Vector3) Solid // Euler angles, applied X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
