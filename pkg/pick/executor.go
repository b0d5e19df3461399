package pick

import (
	"fmt"

	"github.com/chazu/spacepick/pkg/geom"
)

type meshEntry struct {
	name      string
	bounds    geom.Box
	triangles []*Triangle
}

// Executor hit-tests a ray against a model, a list of meshes. The triangle
// cache is rebuilt in full by SetModel. An Executor is not safe for
// concurrent use; run it on one goroutine (see Dispatcher).
type Executor struct {
	meshes []meshEntry
	source map[*Triangle]int

	hitPoint geom.Point3
	hitMesh  string
}

// NewExecutor returns an executor with an empty model.
func NewExecutor() *Executor {
	return &Executor{source: make(map[*Triangle]int)}
}

// SetModel replaces the model and rebuilds the triangle cache. Every three
// consecutive indices of a mesh form one triangle; a trailing partial
// triple is ignored. On error the previous model is left in place.
func (e *Executor) SetModel(meshes []Mesh) error {
	entries := make([]meshEntry, 0, len(meshes))
	source := make(map[*Triangle]int)

	for mi, m := range meshes {
		if m == nil {
			continue
		}
		positions := m.Positions()
		indices := m.TriangleIndices()

		entry := meshEntry{
			name:      meshName(m),
			bounds:    m.Bounds(),
			triangles: make([]*Triangle, 0, len(indices)/3),
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if !inRange(a, len(positions)) || !inRange(b, len(positions)) || !inRange(c, len(positions)) {
				return fmt.Errorf("pick: mesh %d: triangle %d references vertex out of range (have %d)", mi, i/3, len(positions))
			}
			tri := NewTriangle(positions[a], positions[b], positions[c])
			entry.triangles = append(entry.triangles, tri)
			source[tri] = len(entries)
		}
		entries = append(entries, entry)
	}

	e.meshes = entries
	e.source = source
	e.hitPoint = geom.Point3{}
	e.hitMesh = ""
	return nil
}

func inRange(i, n int) bool { return i >= 0 && i < n }

// MeshCount returns the number of meshes in the model.
func (e *Executor) MeshCount() int { return len(e.meshes) }

// TriangleCount returns the number of cached triangles across all meshes.
func (e *Executor) TriangleCount() int {
	n := 0
	for _, m := range e.meshes {
		n += len(m.triangles)
	}
	return n
}

// Candidates returns every non-None hit of ray against the triangles of
// meshes whose inflated bounding box the ray crosses. Results are
// deduplicated by triangle identity; the first hit for a triangle wins.
func (e *Executor) Candidates(ray *ApertureRay) []HitTestResult {
	set := NewResultSet()
	for _, m := range e.meshes {
		if !RayIntersectsBox(ray, m.bounds) {
			continue
		}
		for _, tri := range m.triangles {
			r := tri.HitTest(ray)
			if r.HitLocation != HitNone {
				set.Add(r)
			}
		}
	}
	return set.Results()
}

// HitTest runs a full pick. On success the resolved point is available
// from HitPoint and the name of the mesh it lies on from HitMesh.
func (e *Executor) HitTest(ray *ApertureRay) bool {
	pp := PostProcessor{Ray: ray}
	res, ok := pp.Resolve(e.Candidates(ray))

	e.hitPoint = res.Point
	e.hitMesh = ""
	if ok && res.Source.Triangle != nil {
		if idx, found := e.source[res.Source.Triangle]; found {
			e.hitMesh = e.meshes[idx].name
		}
	}
	return ok
}

// HitPoint returns the point found by the last HitTest. It is the zero
// point after a miss.
func (e *Executor) HitPoint() geom.Point3 { return e.hitPoint }

// HitMesh returns the name of the mesh hit by the last HitTest.
func (e *Executor) HitMesh() string { return e.hitMesh }
