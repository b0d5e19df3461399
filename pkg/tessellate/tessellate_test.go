package tessellate_test

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/spacepick/pkg/geom"
	"github.com/chazu/spacepick/pkg/kernel"
	"github.com/chazu/spacepick/pkg/kernel/sdfx"
	"github.com/chazu/spacepick/pkg/scene"
	"github.com/chazu/spacepick/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New(30)
}

// add inserts an anonymous node and returns its ID.
func add(s *scene.Scene, kind scene.NodeKind, data scene.NodeData, children ...scene.NodeID) scene.NodeID {
	n := &scene.Node{ID: s.AnonID(kind.String()), Kind: kind, Data: data, Children: children}
	s.AddNode(n)
	return n.ID
}

func makeBox(s *scene.Scene, x, y, z float64) scene.NodeID {
	return add(s, scene.NodePrimitive, scene.BoxData{Size: geom.Vector3{X: x, Y: y, Z: z}})
}

func makeTranslate(s *scene.Scene, child scene.NodeID, x, y, z float64) scene.NodeID {
	v := geom.Vector3{X: x, Y: y, Z: z}
	return add(s, scene.NodeTransform, scene.TransformData{Translation: &v}, child)
}

func mustPart(t *testing.T, s *scene.Scene, name string, body scene.NodeID) {
	t.Helper()
	if _, err := s.AddPart(name, body); err != nil {
		t.Fatal(err)
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSingleBox(t *testing.T) {
	s := scene.New()
	mustPart(t, s, "plate", makeBox(s, 100, 50, 10))

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if meshes[0].Name != "plate" {
		t.Errorf("Name = %q, want plate", meshes[0].Name)
	}
	if meshes[0].IsEmpty() {
		t.Error("mesh is empty")
	}
}

func TestPartsInDefinitionOrder(t *testing.T) {
	s := scene.New()
	mustPart(t, s, "b", makeBox(s, 10, 10, 10))
	mustPart(t, s, "a", makeBox(s, 20, 20, 20))
	mustPart(t, s, "c", makeBox(s, 5, 5, 5))

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range meshes {
		got = append(got, m.Name)
	}
	if strings.Join(got, ",") != "b,a,c" {
		t.Errorf("mesh names = %v, want [b a c]", got)
	}
}

func TestTranslateMovesMesh(t *testing.T) {
	s := scene.New()
	mustPart(t, s, "moved", makeTranslate(s, makeBox(s, 10, 10, 10), 100, 0, 0))

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	b := meshes[0].Bounds()
	if !approx(b.Min.X, 100, 1) || !approx(b.Max.X, 110, 1) {
		t.Errorf("X extent = [%g, %g], want about [100, 110]", b.Min.X, b.Max.X)
	}
}

func TestRotateThenTranslate(t *testing.T) {
	s := scene.New()
	box := makeBox(s, 40, 4, 4)
	rot := geom.Vector3{Z: 90}
	tr := geom.Vector3{X: 50}
	both := add(s, scene.NodeTransform, scene.TransformData{Rotation: &rot, Translation: &tr}, box)
	mustPart(t, s, "post", both)

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	// Rotating first puts the long side on Y around X = 0; the translation
	// then moves it to X = 50. The other order would leave it near X = 0.
	b := meshes[0].Bounds()
	if !approx(b.Max.X, 50, 1.5) || b.Max.Y-b.Min.Y < 35 {
		t.Errorf("bounds = %v, want long side on Y ending near X = 50", b)
	}
}

func TestBooleanDifference(t *testing.T) {
	s := scene.New()
	outer := makeBox(s, 20, 20, 20)
	cut := makeTranslate(s, makeBox(s, 20, 20, 20), 10, 0, 0)
	mustPart(t, s, "half", add(s, scene.NodeBoolean, scene.BooleanData{Op: scene.OpDifference}, outer, cut))

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	b := meshes[0].Bounds()
	if !approx(b.Max.X, 10, 1.5) {
		t.Errorf("Max.X = %g, want about 10", b.Max.X)
	}
}

func TestSharedBodyReused(t *testing.T) {
	s := scene.New()
	peg := makeBox(s, 2, 2, 10)
	mustPart(t, s, "peg", peg)
	// A part referencing another part is tessellated from the same body.
	ref := s.Lookup("peg").ID
	mustPart(t, s, "peg2", makeTranslate(s, ref, 20, 0, 0))

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if got, want := meshes[1].TriangleCount(), meshes[0].TriangleCount(); got != want {
		t.Errorf("translated copy has %d triangles, original %d", got, want)
	}
}

func TestTessellateParts(t *testing.T) {
	s := scene.New()
	mustPart(t, s, "a", makeBox(s, 10, 10, 10))
	mustPart(t, s, "b", makeBox(s, 10, 10, 10))
	mustPart(t, s, "c", makeBox(s, 10, 10, 10))

	meshes, err := tessellate.TessellateParts(s, newKernel(), []string{"c", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 2 || meshes[0].Name != "a" || meshes[1].Name != "c" {
		t.Errorf("got %d meshes, want a then c", len(meshes))
	}

	if _, err := tessellate.TessellateParts(s, newKernel(), []string{"ghost"}); err == nil {
		t.Error("expected error for unknown part")
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Tessellate(scene.New(), newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}

	meshes, err = tessellate.Tessellate(nil, newKernel())
	if err != nil || meshes != nil {
		t.Errorf("Tessellate(nil) = %v, %v, want nil, nil", meshes, err)
	}
}

// ---------------------------------------------------------------------------
// Fold order
// ---------------------------------------------------------------------------

// traceSolid records how it was built.
type traceSolid string

func (traceSolid) BoundingBox() geom.Box { return geom.Box{} }

// traceKernel builds traceSolids describing the operation tree.
type traceKernel struct{}

func (traceKernel) Box(x, y, z float64) (kernel.Solid, error) {
	return traceSolid("box"), nil
}
func (traceKernel) Cylinder(h, r float64) (kernel.Solid, error) { return traceSolid("cyl"), nil }
func (traceKernel) Sphere(r float64) (kernel.Solid, error)      { return traceSolid("sph"), nil }
func (traceKernel) Union(a, b kernel.Solid) kernel.Solid {
	return traceSolid("U(" + string(a.(traceSolid)) + "," + string(b.(traceSolid)) + ")")
}
func (traceKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return traceSolid("D(" + string(a.(traceSolid)) + "," + string(b.(traceSolid)) + ")")
}
func (traceKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return traceSolid("I(" + string(a.(traceSolid)) + "," + string(b.(traceSolid)) + ")")
}
func (traceKernel) Translate(s kernel.Solid, v geom.Vector3) kernel.Solid {
	return traceSolid("T(" + string(s.(traceSolid)) + ")")
}
func (traceKernel) Rotate(s kernel.Solid, v geom.Vector3) kernel.Solid {
	return traceSolid("R(" + string(s.(traceSolid)) + ")")
}
func (traceKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{Name: string(s.(traceSolid))}, nil
}

func TestBooleanFoldsLeft(t *testing.T) {
	s := scene.New()
	box := makeBox(s, 1, 1, 1)
	sph := add(s, scene.NodePrimitive, scene.SphereData{Radius: 1})
	cyl := add(s, scene.NodePrimitive, scene.CylinderData{Height: 1, Radius: 1})
	mustPart(t, s, "p", add(s, scene.NodeBoolean, scene.BooleanData{Op: scene.OpDifference}, box, sph, cyl))

	var built string
	k := recordingKernel{traceKernel{}, &built}
	if _, err := tessellate.Tessellate(s, k); err != nil {
		t.Fatal(err)
	}
	if want := "D(D(box,sph),cyl)"; built != want {
		t.Errorf("built %s, want %s", built, want)
	}
}

// recordingKernel captures the solid passed to ToMesh, since Tessellate
// overwrites the mesh name with the part name.
type recordingKernel struct {
	traceKernel
	built *string
}

func (r recordingKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	*r.built = string(s.(traceSolid))
	return &kernel.Mesh{}, nil
}
