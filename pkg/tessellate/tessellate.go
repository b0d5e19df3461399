// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per part, named after the part.
package tessellate

import (
	"fmt"

	"github.com/chazu/spacepick/pkg/kernel"
	"github.com/chazu/spacepick/pkg/scene"
)

// builder turns scene nodes into kernel solids. Solids are immutable, so a
// node shared between parts is built once and reused.
type builder struct {
	s      *scene.Scene
	k      kernel.Kernel
	solids map[scene.NodeID]kernel.Solid
}

func newBuilder(s *scene.Scene, k kernel.Kernel) *builder {
	return &builder{s: s, k: k, solids: make(map[scene.NodeID]kernel.Solid)}
}

// Tessellate produces one mesh per part, in definition order. The scene is
// never mutated.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	return tessellateParts(newBuilder(s, k), s.Parts())
}

// TessellateParts is Tessellate restricted to the named parts. Meshes come
// back in definition order regardless of the order of names. Unknown names
// are an error.
func TessellateParts(s *scene.Scene, k kernel.Kernel, names []string) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		n := s.Lookup(name)
		if n == nil || n.Kind != scene.NodePart {
			return nil, fmt.Errorf("tessellate: no part named %q", name)
		}
		wanted[name] = true
	}

	var parts []*scene.Node
	for _, p := range s.Parts() {
		if wanted[p.Name] {
			parts = append(parts, p)
		}
	}
	return tessellateParts(newBuilder(s, k), parts)
}

func tessellateParts(b *builder, parts []*scene.Node) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		if len(p.Children) != 1 {
			return nil, fmt.Errorf("tessellate: part %q has %d bodies, want 1", p.Name, len(p.Children))
		}
		solid, err := b.build(p.Children[0])
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
		}
		mesh, err := b.k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %q: %w", p.Name, err)
		}
		mesh.Name = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// build returns the solid for node id, building its children first.
func (b *builder) build(id scene.NodeID) (kernel.Solid, error) {
	if solid, ok := b.solids[id]; ok {
		return solid, nil
	}
	n := b.s.Get(id)
	if n == nil {
		return nil, fmt.Errorf("missing node %s", id.Short())
	}

	var solid kernel.Solid
	var err error
	switch n.Kind {
	case scene.NodePrimitive:
		solid, err = b.primitive(n)
	case scene.NodeTransform:
		solid, err = b.transform(n)
	case scene.NodeBoolean:
		solid, err = b.boolean(n)
	case scene.NodePart:
		// A part used inside another part contributes its body.
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("part %q has %d bodies, want 1", n.Name, len(n.Children))
		}
		solid, err = b.build(n.Children[0])
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
	if err != nil {
		return nil, err
	}

	b.solids[id] = solid
	return solid, nil
}

func (b *builder) primitive(n *scene.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case scene.BoxData:
		return b.k.Box(data.Size.X, data.Size.Y, data.Size.Z)
	case scene.CylinderData:
		return b.k.Cylinder(data.Height, data.Radius)
	case scene.SphereData:
		return b.k.Sphere(data.Radius)
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// transform applies the rotation first, then the translation.
func (b *builder) transform(n *scene.Node) (kernel.Solid, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("transform node %s has %d children, want 1", n.ID.Short(), len(n.Children))
	}

	solid, err := b.build(n.Children[0])
	if err != nil {
		return nil, err
	}
	if td.Rotation != nil {
		solid = b.k.Rotate(solid, *td.Rotation)
	}
	if td.Translation != nil {
		solid = b.k.Translate(solid, *td.Translation)
	}
	return solid, nil
}

// boolean folds the children left to right: (a op b) op c ...
func (b *builder) boolean(n *scene.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(scene.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	if len(n.Children) < 2 {
		return nil, fmt.Errorf("boolean node %s has %d children, want at least 2", n.ID.Short(), len(n.Children))
	}

	var combine func(a, c kernel.Solid) kernel.Solid
	switch bd.Op {
	case scene.OpUnion:
		combine = b.k.Union
	case scene.OpDifference:
		combine = b.k.Difference
	case scene.OpIntersection:
		combine = b.k.Intersection
	default:
		return nil, fmt.Errorf("boolean node %s has unknown op %v", n.ID.Short(), bd.Op)
	}

	acc, err := b.build(n.Children[0])
	if err != nil {
		return nil, err
	}
	for _, cid := range n.Children[1:] {
		next, err := b.build(cid)
		if err != nil {
			return nil, err
		}
		acc = combine(acc, next)
	}
	return acc, nil
}
