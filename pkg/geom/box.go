package geom

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is an axis-aligned bounding box. It is used for coarse rejection
// only; there is no hierarchy built on top of it.
type Box = sdf.Box3

// NewBox returns the box spanning the two corners.
func NewBox(min, max Point3) Box {
	return Box{Min: min, Max: max}
}

// BoundsOf returns the smallest box containing all points. An empty
// slice yields the zero box.
func BoundsOf(points []Point3) Box {
	if len(points) == 0 {
		return Box{}
	}

	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Include(p)
	}
	return b
}

// Inflate grows the box by amount on every side.
func Inflate(b Box, amount float64) Box {
	// Enlarge takes the total growth per axis.
	return b.Enlarge(v3.Vec{X: 2 * amount, Y: 2 * amount, Z: 2 * amount})
}

// Corner returns Min for i == 0 and Max otherwise.
func Corner(b Box, i int) Point3 {
	if i == 0 {
		return b.Min
	}
	return b.Max
}
