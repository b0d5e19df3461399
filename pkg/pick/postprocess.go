package pick

import (
	"errors"
	"math"
	"sort"

	"github.com/chazu/spacepick/pkg/geom"
)

var (
	errVertexTooFar = errors.New("vertex is too far from the sphere center")
	errNoEdge       = errors.New("no edge within ray radius")
)

// Resolution is a resolved pick: the final point and the candidate it was
// derived from.
type Resolution struct {
	Point  geom.Point3
	Source HitTestResult
}

// PostProcessor turns raw candidate hits into one point.
type PostProcessor struct {
	Ray *ApertureRay
}

// HitPoint returns the best point for results. It reports false, with the
// zero point, when no candidate could be resolved.
func (p PostProcessor) HitPoint(results []HitTestResult) (geom.Point3, bool) {
	res, ok := p.Resolve(results)
	return res.Point, ok
}

// Resolve sorts the candidates by distance and resolves every candidate
// lying within its triangle's longest edge of the nearest one (always at
// least until one resolves). Of all resolved points the one closest to the
// ray origin wins.
func (p PostProcessor) Resolve(results []HitTestResult) (Resolution, bool) {
	if len(results) == 0 {
		return Resolution{}, false
	}

	sorted := make([]HitTestResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].HitDistance < sorted[j].HitDistance
	})

	first := sorted[0].HitDistance
	var resolved []Resolution

	for _, r := range sorted {
		if !(r.HitDistance-first < r.Triangle.MaxLength() || len(resolved) == 0) {
			break
		}
		pt, err := p.resolveCandidate(r)
		if err != nil {
			continue
		}
		resolved = append(resolved, Resolution{Point: pt, Source: r})
	}

	if len(resolved) == 0 {
		return Resolution{}, false
	}

	best := resolved[0]
	bestDist := geom.Distance(p.Ray.Origin(), best.Point)
	for _, r := range resolved[1:] {
		if d := geom.Distance(p.Ray.Origin(), r.Point); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best, true
}

// candidate is the per-result working state.
type candidate struct {
	result      HitTestResult
	hit         geom.Point3
	hitDistance float64
	rayRadius   float64
}

func (p PostProcessor) resolveCandidate(r HitTestResult) (geom.Point3, error) {
	hit := p.Ray.At(r.HitDistance)
	dist := geom.Distance(p.Ray.Origin(), hit)
	c := candidate{
		result:      r,
		hit:         hit,
		hitDistance: dist,
		rayRadius:   p.Ray.Radius(dist),
	}

	if r.HitLocation == HitSphere {
		return p.sphereHit(c)
	}
	return p.surfaceHit(c)
}

// sphereHit snaps a vertex hit to the vertex, or to a point on one of the
// two edges leaving it, whichever is closest to the ray origin.
func (p PostProcessor) sphereHit(c candidate) (geom.Point3, error) {
	verts := c.result.Triangle.Vertices()

	index := 0
	projLen := geom.Distance(c.hit, verts[0])
	for i := 1; i < 3; i++ {
		if l := geom.Distance(c.hit, verts[i]); l < projLen {
			projLen, index = l, i
		}
	}
	if projLen >= c.rayRadius {
		return geom.Point3{}, errVertexTooFar
	}

	center := verts[index]
	points := []geom.Point3{center}
	for i := 0; i < 3; i++ {
		if i == index {
			continue
		}
		// Not normalized: the offset scales with the edge length.
		edge := verts[i].Sub(center)
		points = append(points, center.Add(edge.MulScalar(c.rayRadius-projLen)))
	}
	return p.closestToOrigin(points), nil
}

// surfaceHit slides a face or edge hit down the triangle's slope by the ray
// radius. If that leaves the triangle, the nearest edge projection within
// the ray radius is used instead.
func (p PostProcessor) surfaceHit(c candidate) (geom.Point3, error) {
	tri := c.result.Triangle
	potential := c.hit.Add(p.slopeDirection(tri).MulScalar(c.rayRadius))

	if tri.Contains(potential) {
		return potential, nil
	}

	limit := p.Ray.Radius(c.hitDistance)
	projected := make(map[float64]geom.Point3, 3)
	add := func(p1, p2 geom.Point3) {
		pt := projectOnSegment(potential, p1, p2)
		d := geom.Distance(potential, pt)
		if d > limit {
			return
		}
		if existing, ok := projected[d]; ok {
			projected[d] = p.closestToOrigin([]geom.Point3{pt, existing})
			return
		}
		projected[d] = pt
	}
	add(tri.V1(), tri.V2())
	add(tri.V1(), tri.V3())
	add(tri.V2(), tri.V3())

	if len(projected) == 0 {
		return geom.Point3{}, errNoEdge
	}

	minKey := math.Inf(1)
	for k := range projected {
		if k < minKey {
			minKey = k
		}
	}
	return projected[minKey], nil
}

// slopeDirection is the in-plane direction of steepest descent along the
// ray, or zero when the ray is parallel to the normal.
func (p PostProcessor) slopeDirection(tri *Triangle) geom.Vector3 {
	cross := p.Ray.Direction().Cross(tri.Normal())
	if cross.Length() == 0 {
		return geom.Vector3{}
	}
	return cross.Cross(tri.Normal()).Normalize()
}

// closestToOrigin returns the first of points nearest to the ray origin.
func (p PostProcessor) closestToOrigin(points []geom.Point3) geom.Point3 {
	best := geom.Point3{}
	bestDist := math.MaxFloat64
	for _, pt := range points {
		if d := geom.Distance(p.Ray.Origin(), pt); d < bestDist {
			best, bestDist = pt, d
		}
	}
	return best
}

// projectOnSegment projects pt onto the segment p1 p2, clamped to its ends.
func projectOnSegment(pt, p1, p2 geom.Point3) geom.Point3 {
	ab := p2.Sub(p1)
	t := pt.Sub(p1).Dot(ab) / ab.Dot(ab)
	switch {
	case t < 0:
		return p1
	case t > 1:
		return p2
	default:
		return p1.Add(ab.MulScalar(t))
	}
}
