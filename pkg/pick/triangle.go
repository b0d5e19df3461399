package pick

import (
	"math"

	"github.com/chazu/spacepick/pkg/geom"
)

// NoHit is the distance reported by the intersection solvers when there is
// no intersection in front of the ray origin.
const NoHit = -1.0

// faceTestHook, when set, is called every time the face (barycentric) test
// runs. Tests use it to observe the bounding-sphere short circuit.
var faceTestHook func()

// Triangle is an immutable triangle. Its normal and longest edge are
// computed once at construction.
type Triangle struct {
	vertices  [3]geom.Point3
	normal    geom.Vector3
	maxLength float64
}

// NewTriangle creates a triangle from three vertices. The normal follows
// the V1->V2, V1->V3 winding.
func NewTriangle(v1, v2, v3 geom.Point3) *Triangle {
	t := &Triangle{vertices: [3]geom.Point3{v1, v2, v3}}

	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	e3 := v3.Sub(v2)

	t.normal = e1.Cross(e2).Normalize()
	t.maxLength = math.Max(e1.Length(), math.Max(e2.Length(), e3.Length()))
	return t
}

// Vertices returns the three vertices in construction order.
func (t *Triangle) Vertices() [3]geom.Point3 { return t.vertices }

func (t *Triangle) V1() geom.Point3 { return t.vertices[0] }
func (t *Triangle) V2() geom.Point3 { return t.vertices[1] }
func (t *Triangle) V3() geom.Point3 { return t.vertices[2] }

// Normal returns the unit normal.
func (t *Triangle) Normal() geom.Vector3 { return t.normal }

// MaxLength returns the length of the longest edge.
func (t *Triangle) MaxLength() float64 { return t.maxLength }

// Area returns the area of the triangle p1 p2 p3.
func Area(p1, p2, p3 geom.Point3) float64 {
	return p2.Sub(p1).Cross(p3.Sub(p1)).Length() / 2
}

// Contains reports whether pt lies in the triangle, using the sum of the
// areas of the three sub-triangles formed with pt.
func (t *Triangle) Contains(pt geom.Point3) bool {
	s := Area(t.V1(), t.V2(), t.V3())

	s1 := Area(pt, t.V2(), t.V3())
	s2 := Area(t.V1(), pt, t.V3())
	s3 := Area(t.V1(), t.V2(), pt)

	return geom.ConsideredEqual(s, s1+s2+s3)
}

// Equals reports whether both triangles are made of the same three points,
// irrespective of order.
func (t *Triangle) Equals(other *Triangle) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Hash() != other.Hash() {
		return false
	}

	equalities := 0
	for _, p1 := range t.vertices {
		for _, p2 := range other.vertices {
			if p1 == p2 {
				equalities++
				break
			}
		}
	}
	return equalities == 3
}

// Hash is the XOR of the vertex hashes, so it does not depend on vertex
// order.
func (t *Triangle) Hash() uint64 {
	if t == nil {
		return 0
	}
	return geom.HashPoint(t.V1()) ^ geom.HashPoint(t.V2()) ^ geom.HashPoint(t.V3())
}

// HitTest tests the triangle against ray. The face is tried first, then the
// edges, then the vertices; the first success wins.
func (t *Triangle) HitTest(ray *ApertureRay) HitTestResult {
	if !t.boundingTest(ray) {
		return HitTestResult{HitLocation: HitNone}
	}

	result := HitTestResult{Triangle: t, HitLocation: HitTriangle}
	hitDistance := t.faceTest(ray)

	if hitDistance == NoHit {
		hitDistance = t.edgeTest(ray)
		result.HitLocation = HitCylinder
	}

	if hitDistance == NoHit {
		hitDistance = t.vertexTest(ray)
		result.HitLocation = HitSphere
	}

	if hitDistance == NoHit {
		result.HitLocation = HitNone
	}

	result.HitDistance = hitDistance
	return result
}

// circumsphere returns the center and radius of the sphere through the
// three vertices whose center lies in the triangle's plane.
func (t *Triangle) circumsphere() (geom.Point3, float64) {
	a, b, c := t.V1(), t.V2(), t.V3()

	vBA := a.Sub(b)
	vCB := b.Sub(c)
	vCA := a.Sub(c)

	lenBAcrossCB := vBA.Cross(vCB).Length()

	lenBA := vBA.Length()
	lenCB := vCB.Length()
	lenCA := vCA.Length()

	denominator := 2 * lenBAcrossCB * lenBAcrossCB

	alpha := (lenCB * lenCB * vBA.Dot(vCA)) / denominator
	beta := (lenCA * lenCA * b.Sub(a).Dot(vCB)) / denominator
	gamma := (lenBA * lenBA * c.Sub(a).Dot(c.Sub(b))) / denominator

	radius := (lenBA * lenCB * lenCA) / (2 * lenBAcrossCB)
	center := a.MulScalar(alpha).Add(b.MulScalar(beta)).Add(c.MulScalar(gamma))
	return center, radius
}

// boundingTest rejects rays that miss the circumscribed sphere inflated by
// half the local ray radius.
func (t *Triangle) boundingTest(ray *ApertureRay) bool {
	center, radius := t.circumsphere()
	inflated := radius + ray.Radius(geom.Distance(ray.Origin(), center))*0.5
	return sphereTest(ray, center, inflated) != NoHit
}

// faceTest is the Moller-Trumbore ray/triangle intersection.
func (t *Triangle) faceTest(ray *ApertureRay) float64 {
	if faceTestHook != nil {
		faceTestHook()
	}

	edge1 := t.V2().Sub(t.V1())
	edge2 := t.V3().Sub(t.V1())

	h := ray.Direction().Cross(edge2)
	a := edge1.Dot(h)
	if geom.ConsideredZero(a) {
		return NoHit
	}

	f := 1 / a
	s := ray.Origin().Sub(t.V1())
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return NoHit
	}

	q := s.Cross(edge1)
	v := f * ray.Direction().Dot(q)
	if v < 0 || u+v > 1 {
		return NoHit
	}

	dist := f * edge2.Dot(q)
	if dist > geom.Epsilon {
		return dist
	}
	return NoHit
}

func (t *Triangle) edgeTest(ray *ApertureRay) float64 {
	hitDistance := cylinderTest(ray, t.V1(), t.V2())
	if hitDistance == NoHit {
		hitDistance = cylinderTest(ray, t.V2(), t.V3())
	}
	if hitDistance == NoHit {
		hitDistance = cylinderTest(ray, t.V1(), t.V3())
	}
	return hitDistance
}

func (t *Triangle) vertexTest(ray *ApertureRay) float64 {
	hitDistance := vertexSphereTest(ray, t.V1())
	if hitDistance == NoHit {
		hitDistance = vertexSphereTest(ray, t.V2())
	}
	if hitDistance == NoHit {
		hitDistance = vertexSphereTest(ray, t.V3())
	}
	return hitDistance
}

// cylinderTest intersects the ray with the cylinder around the line p1 p2.
// The radius is the ray radius at the mean distance of p1 and p2.
func cylinderTest(ray *ApertureRay, p1, p2 geom.Point3) float64 {
	vAB := p2.Sub(p1)
	vAO := ray.Origin().Sub(p1)
	vAOcrossAB := vAO.Cross(vAB)
	dirCrossAB := ray.Direction().Cross(vAB)

	firstDistance := geom.Distance(p1, ray.Origin())
	secondDistance := geom.Distance(p2, ray.Origin())
	radius := ray.Radius((firstDistance + secondDistance) / 2)

	a := dirCrossAB.Dot(dirCrossAB)
	b := 2 * dirCrossAB.Dot(vAOcrossAB)
	c := vAOcrossAB.Dot(vAOcrossAB) - radius*radius*vAB.Dot(vAB)

	return HitDistanceFromEquation(a, b, c)
}

func vertexSphereTest(ray *ApertureRay, o geom.Point3) float64 {
	return sphereTest(ray, o, ray.Radius(geom.Distance(o, ray.Origin())))
}

func sphereTest(ray *ApertureRay, o geom.Point3, radius float64) float64 {
	originsSegment := ray.Origin().Sub(o)

	b := 2 * ray.Direction().Dot(originsSegment)
	c := originsSegment.Dot(originsSegment) - radius*radius

	return HitDistanceFromEquation(1, b, c)
}

// HitDistanceFromEquation returns the nearest root of a*t^2 + b*t + c = 0
// lying in front of the ray origin, or NoHit. When the nearer root is at or
// behind the origin the farther root is used, except for a double root,
// which is a graze and never counts as a hit.
func HitDistanceFromEquation(a, b, c float64) float64 {
	if a != 1 {
		b = b / a
		c = c / a
	}

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return NoHit
	}

	result := (-b - math.Sqrt(discriminant)) / 2
	if result < geom.Epsilon {
		if geom.ConsideredZero(discriminant) {
			return NoHit
		}
		result = (-b + math.Sqrt(discriminant)) / 2
	}

	if result > geom.Epsilon {
		return result
	}
	return NoHit
}
