package pick

import (
	"math"
	"testing"

	"github.com/chazu/spacepick/pkg/geom"
)

func unitTriangle() *Triangle {
	return NewTriangle(
		geom.Point3{X: 0, Y: 0, Z: 0},
		geom.Point3{X: 1, Y: 0, Z: 0},
		geom.Point3{X: 0, Y: 1, Z: 0},
	)
}

func mustRay(t *testing.T, origin geom.Point3, dir geom.Vector3, aperture float64) *ApertureRay {
	t.Helper()
	ray, err := NewApertureRay(origin, dir, aperture)
	if err != nil {
		t.Fatalf("NewApertureRay: %v", err)
	}
	ray.SetPlaneDistance(1)
	return ray
}

// countFaceTests installs faceTestHook for the duration of the test.
func countFaceTests(t *testing.T) *int {
	t.Helper()
	n := 0
	faceTestHook = func() { n++ }
	t.Cleanup(func() { faceTestHook = nil })
	return &n
}

func TestHitDistanceFromEquation(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    float64
	}{
		{"no real root", 1, 0, 1, NoHit},
		{"tangent behind origin", 1, 2, 1, NoHit},
		{"tangent in front", 1, -2, 1, 1},
		{"two roots in front", 1, -5, 6, 2},
		{"origin inside", 1, 0, -4, 2},
		{"both behind", 1, 5, 6, NoHit},
		{"normalized by a", 2, -10, 12, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HitDistanceFromEquation(tt.a, tt.b, tt.c)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("HitDistanceFromEquation(%g, %g, %g) = %g, want %g", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestTriangleDerivedValues(t *testing.T) {
	tri := unitTriangle()
	if got, want := tri.Normal(), (geom.Vector3{X: 0, Y: 0, Z: 1}); got != want {
		t.Errorf("Normal = %v, want %v", got, want)
	}
	if got := tri.MaxLength(); math.Abs(got-math.Sqrt2) > 1e-12 {
		t.Errorf("MaxLength = %g, want sqrt(2)", got)
	}
	if got := Area(tri.V1(), tri.V2(), tri.V3()); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Area = %g, want 0.5", got)
	}
}

func TestTriangleContains(t *testing.T) {
	tri := unitTriangle()
	tests := []struct {
		name string
		pt   geom.Point3
		want bool
	}{
		{"interior", geom.Point3{X: 0.2, Y: 0.2}, true},
		{"vertex", geom.Point3{X: 1, Y: 0}, true},
		{"on hypotenuse", geom.Point3{X: 0.5, Y: 0.5}, true},
		{"outside hypotenuse", geom.Point3{X: 0.8, Y: 0.8}, false},
		{"off plane", geom.Point3{X: 0.2, Y: 0.2, Z: 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tri.Contains(tt.pt); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestTriangleIdentity(t *testing.T) {
	a := unitTriangle()
	b := NewTriangle(a.V3(), a.V1(), a.V2())
	c := NewTriangle(a.V1(), a.V2(), geom.Point3{X: 0, Y: 2, Z: 0})

	if !a.Equals(b) || !b.Equals(a) {
		t.Error("permuted triangles should be equal")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("permuted triangles hash differently: %x vs %x", a.Hash(), b.Hash())
	}
	if a.Equals(c) {
		t.Error("triangles with a different vertex should not be equal")
	}
	if a.Equals(nil) {
		t.Error("triangle should not equal nil")
	}
}

func TestHitTestFace(t *testing.T) {
	tri := unitTriangle()
	ray := mustRay(t, geom.Point3{X: 0.2, Y: 0.2, Z: 5}, down, 0.01)

	res := tri.HitTest(ray)
	if res.HitLocation != HitTriangle {
		t.Fatalf("HitLocation = %v, want triangle", res.HitLocation)
	}
	if math.Abs(res.HitDistance-5) > 1e-9 {
		t.Errorf("HitDistance = %g, want 5", res.HitDistance)
	}
	if res.Triangle != tri {
		t.Error("result does not reference the tested triangle")
	}
}

func TestHitTestPointRayAtCentroid(t *testing.T) {
	n := countFaceTests(t)
	tri := unitTriangle()
	ray := &ApertureRay{origin: geom.Point3{X: 1.0 / 3, Y: 1.0 / 3, Z: 5}, direction: down}

	res := tri.HitTest(ray)
	if res.HitLocation != HitTriangle {
		t.Fatalf("HitLocation = %v, want triangle", res.HitLocation)
	}
	if *n != 1 {
		t.Errorf("face test ran %d times, want 1", *n)
	}
}

func TestHitTestEdge(t *testing.T) {
	tri := unitTriangle()
	dir := geom.Vector3{X: 0.2, Y: 0.2, Z: -5}.Normalize()
	ray := mustRay(t, geom.Point3{X: 0.4, Y: 0.4, Z: 5}, dir, 0.5)

	res := tri.HitTest(ray)
	if res.HitLocation != HitCylinder {
		t.Fatalf("HitLocation = %v, want cylinder", res.HitLocation)
	}
	if math.Abs(res.HitDistance-4.7937) > 1e-3 {
		t.Errorf("HitDistance = %g, want about 4.794", res.HitDistance)
	}
}

func TestHitTestMissSkipsFaceTest(t *testing.T) {
	n := countFaceTests(t)
	tri := unitTriangle()
	ray := mustRay(t, geom.Point3{X: 10, Y: 10, Z: 5}, down, 0.01)

	res := tri.HitTest(ray)
	if res.HitLocation != HitNone {
		t.Fatalf("HitLocation = %v, want none", res.HitLocation)
	}
	if res.Triangle != nil {
		t.Error("bounding rejection should not reference a triangle")
	}
	if *n != 0 {
		t.Errorf("face test ran %d times after bounding rejection", *n)
	}
}

func TestHitTestBehindOrigin(t *testing.T) {
	tri := unitTriangle()
	ray := mustRay(t, geom.Point3{X: 0.2, Y: 0.2, Z: 5}, geom.Vector3{X: 0, Y: 0, Z: 1}, 0.01)

	if res := tri.HitTest(ray); res.HitLocation != HitNone {
		t.Errorf("HitLocation = %v for a ray pointing away, want none", res.HitLocation)
	}
}

func TestHitLocationString(t *testing.T) {
	tests := map[HitLocation]string{
		HitNone:        "none",
		HitTriangle:    "triangle",
		HitCylinder:    "cylinder",
		HitSphere:      "sphere",
		HitLocation(9): "unknown",
	}
	for loc, want := range tests {
		if got := loc.String(); got != want {
			t.Errorf("HitLocation(%d).String() = %q, want %q", int(loc), got, want)
		}
	}
}
