package kernel

import (
	"testing"

	"github.com/chazu/spacepick/pkg/geom"
	"github.com/chazu/spacepick/pkg/pick"
)

// Compile-time check that meshes feed the picker directly.
var _ pick.Mesh = (*Mesh)(nil)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

// --- pick.Mesh adapter ---

func quad() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 2, 0, 0, 2, 1, 0, 0, 1, 0.5},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
		Name:     "quad",
	}
}

func TestMeshPositions(t *testing.T) {
	got := quad().Positions()
	if len(got) != 4 {
		t.Fatalf("got %d positions, want 4", len(got))
	}
	if want := (geom.Point3{X: 0, Y: 1, Z: 0.5}); got[3] != want {
		t.Errorf("positions[3] = %v, want %v", got[3], want)
	}
}

func TestMeshTriangleIndices(t *testing.T) {
	got := quad().TriangleIndices()
	want := []int{0, 1, 2, 2, 3, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indices[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMeshBounds(t *testing.T) {
	b := quad().Bounds()
	if b.Min != (geom.Point3{}) {
		t.Errorf("Min = %v, want origin", b.Min)
	}
	if want := (geom.Point3{X: 2, Y: 1, Z: 0.5}); b.Max != want {
		t.Errorf("Max = %v, want %v", b.Max, want)
	}
}

func TestMeshIsPickable(t *testing.T) {
	e := pick.NewExecutor()
	if err := e.SetModel([]pick.Mesh{quad()}); err != nil {
		t.Fatalf("SetModel: %v", err)
	}
	ray, err := pick.NewApertureRay(geom.Point3{X: 1.5, Y: 0.2, Z: 3}, geom.Vector3{Z: -1}, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if !e.HitTest(ray) {
		t.Fatal("expected a hit on the quad")
	}
	if e.HitMesh() != "quad" {
		t.Errorf("HitMesh = %q, want quad", e.HitMesh())
	}
}
