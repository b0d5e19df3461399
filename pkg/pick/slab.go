package pick

import (
	"github.com/chazu/spacepick/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// RayIntersectsBox reports whether the ray line crosses box after the box
// has been grown by the ray radius at the mean distance of its two corners.
// The slab test runs X, then Y, then Z. Boxes entirely behind the origin
// are not rejected; the per-triangle tests handle that.
func RayIntersectsBox(ray *ApertureRay, box geom.Box) bool {
	origin := ray.Origin()
	dir := ray.Direction()

	closeDist := geom.Distance(origin, box.Min)
	farDist := geom.Distance(origin, box.Max)
	bounds := geom.Inflate(box, ray.Radius((closeDist+farDist)/2))

	inv := v3.Vec{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z}
	sx, sy, sz := signIndex(inv.X), signIndex(inv.Y), signIndex(inv.Z)

	tMin := (geom.Corner(bounds, sx).X - origin.X) * inv.X
	tMax := (geom.Corner(bounds, 1-sx).X - origin.X) * inv.X
	yMin := (geom.Corner(bounds, sy).Y - origin.Y) * inv.Y
	yMax := (geom.Corner(bounds, 1-sy).Y - origin.Y) * inv.Y

	if tMin > yMax || yMin > tMax {
		return false
	}
	if yMin > tMin {
		tMin = yMin
	}
	if yMax < tMax {
		tMax = yMax
	}

	zMin := (geom.Corner(bounds, sz).Z - origin.Z) * inv.Z
	zMax := (geom.Corner(bounds, 1-sz).Z - origin.Z) * inv.Z

	return !(tMin > zMax || zMin > tMax)
}

func signIndex(inv float64) int {
	if inv < 0 {
		return 1
	}
	return 0
}
