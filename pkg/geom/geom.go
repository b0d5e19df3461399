// Package geom holds the value types shared by the picking core.
// Points and vectors are sdfx vectors, boxes are sdfx boxes; this package
// only adds the tolerance helpers and hashing the hit tester needs.
package geom

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the tolerance used by all "considered zero" comparisons.
const Epsilon = 1e-6

// Point3 is a position in model space.
type Point3 = v3.Vec

// Vector3 is a direction or offset in model space.
type Vector3 = v3.Vec

// ConsideredZero reports whether d lies strictly within +/- Epsilon.
func ConsideredZero(d float64) bool {
	return d > -Epsilon && d < Epsilon
}

// ConsideredEqual reports whether a and b differ by less than Epsilon.
func ConsideredEqual(a, b float64) bool {
	return ConsideredZero(a - b)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point3) float64 {
	return a.Sub(b).Length()
}

// IsFinite reports whether no component of p is NaN or infinite.
func IsFinite(p Point3) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FromFloat32 builds a point from three float32 components, the layout
// used by flat GPU-style vertex buffers.
func FromFloat32(x, y, z float32) Point3 {
	return Point3{X: float64(x), Y: float64(y), Z: float64(z)}
}

// HashPoint returns a hash of the bit pattern of p. Points that compare
// equal with == hash equally.
func HashPoint(p Point3) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], canonicalBits(p.X))
	binary.LittleEndian.PutUint64(buf[8:], canonicalBits(p.Y))
	binary.LittleEndian.PutUint64(buf[16:], canonicalBits(p.Z))
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

// canonicalBits folds -0 onto +0 so that == and the hash agree.
func canonicalBits(v float64) uint64 {
	if v == 0 {
		return 0
	}
	return math.Float64bits(v)
}
