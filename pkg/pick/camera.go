package pick

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/spacepick/pkg/geom"
)

// ErrInvalidCamera is returned when the camera cannot produce a usable ray.
var ErrInvalidCamera = errors.New("invalid camera")

// Camera is the subset of view state needed to build a pick ray.
type Camera struct {
	Position          geom.Point3
	LookDirection     geom.Vector3
	IsPerspective     bool
	NearPlaneDistance float64
	// Width is the width of the view on the near plane, in model units.
	Width float64
}

// RayFromCamera builds the pick ray through click, a point on the near
// plane in model space. The aperture is one viewport pixel.
//
// A perspective ray starts at the camera and points at click. An
// orthographic ray runs along the look direction and starts one unit in
// front of click.
func RayFromCamera(cam Camera, click geom.Point3, viewportPixelWidth float64) (*ApertureRay, error) {
	if err := cam.validate(click); err != nil {
		return nil, err
	}

	var origin geom.Point3
	var dir geom.Vector3

	if cam.IsPerspective {
		origin = cam.Position
		dir = click.Sub(cam.Position).Normalize()
	} else {
		dir = cam.LookDirection.Normalize()
		origin = click.Sub(dir)
	}

	ray, err := NewApertureRay(origin, dir, cam.Width/viewportPixelWidth)
	if err != nil {
		return nil, err
	}
	ray.SetPerspective(cam.IsPerspective)
	ray.SetPlaneDistance(cam.NearPlaneDistance)
	return ray, nil
}

func (cam Camera) validate(click geom.Point3) error {
	if !geom.IsFinite(cam.Position) || !geom.IsFinite(click) {
		return fmt.Errorf("%w: position and click must be finite", ErrInvalidCamera)
	}
	if !geom.IsFinite(cam.LookDirection) || cam.LookDirection == (geom.Vector3{}) {
		return fmt.Errorf("%w: look direction %v", ErrInvalidCamera, cam.LookDirection)
	}
	if !cam.IsPerspective {
		return nil
	}
	// The near plane fixes the cone angle, so it must be a real distance.
	if !(cam.NearPlaneDistance > 0) || math.IsInf(cam.NearPlaneDistance, 0) {
		return fmt.Errorf("%w: near plane distance %g", ErrInvalidCamera, cam.NearPlaneDistance)
	}
	if click == cam.Position {
		return fmt.Errorf("%w: click is at the camera position", ErrInvalidCamera)
	}
	return nil
}
