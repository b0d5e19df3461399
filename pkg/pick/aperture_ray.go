// Package pick implements aperture-ray hit testing against triangle meshes.
//
// A pick ray is not an infinitesimal line: it carries an aperture and widens
// into a cylinder (orthographic views) or a cone (perspective views). A
// triangle is hit on its face, within the ray radius of one of its edges, or
// within the ray radius of one of its vertices. All candidate hits are then
// resolved to a single point, the one closest to the ray origin.
package pick

import (
	"errors"
	"fmt"

	"github.com/chazu/spacepick/pkg/geom"
)

// ErrInvalidAperture is returned when a ray is built with a non-positive
// aperture.
var ErrInvalidAperture = errors.New("invalid aperture value")

// ApertureRay is a pick ray with an aperture.
type ApertureRay struct {
	origin    geom.Point3
	direction geom.Vector3
	aperture  float64

	perspective   bool
	planeDistance float64
	tangentAlpha  float64
}

// NewApertureRay creates a ray starting at origin and pointing along
// direction, which the caller must already have normalized. aperture is the
// diameter of the ray on the near plane and must be positive.
func NewApertureRay(origin geom.Point3, direction geom.Vector3, aperture float64) (*ApertureRay, error) {
	if aperture <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidAperture, aperture)
	}
	return &ApertureRay{
		origin:    origin,
		direction: direction,
		aperture:  aperture,
	}, nil
}

// Origin returns the starting point of the ray.
func (r *ApertureRay) Origin() geom.Point3 { return r.origin }

// Direction returns the unit direction of the ray.
func (r *ApertureRay) Direction() geom.Vector3 { return r.direction }

// Aperture returns the diameter of the ray on the near plane.
func (r *ApertureRay) Aperture() float64 { return r.aperture }

// IsPerspective reports whether the ray widens into a cone.
func (r *ApertureRay) IsPerspective() bool { return r.perspective }

// SetPerspective selects cone (true) or cylinder (false) widening.
func (r *ApertureRay) SetPerspective(perspective bool) { r.perspective = perspective }

// PlaneDistance returns the distance from the origin to the plane the
// aperture is measured on.
func (r *ApertureRay) PlaneDistance() float64 { return r.planeDistance }

// SetPlaneDistance sets the aperture plane distance and recomputes the
// cone's half-angle tangent.
func (r *ApertureRay) SetPlaneDistance(d float64) {
	r.planeDistance = d
	r.tangentAlpha = (r.aperture / 2) / d
}

// Radius returns the radius of the ray at the given distance from its origin.
func (r *ApertureRay) Radius(distance float64) float64 {
	if r.perspective {
		return r.tangentAlpha*distance + r.aperture/2
	}
	return r.aperture / 2
}

// At returns the point at parameter t along the ray.
func (r *ApertureRay) At(t float64) geom.Point3 {
	return r.origin.Add(r.direction.MulScalar(t))
}
