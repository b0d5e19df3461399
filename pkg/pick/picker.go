package pick

import (
	"errors"
	"fmt"

	"github.com/chazu/spacepick/pkg/geom"
)

// ErrNoModel is returned by Picker.HitTest before the first SetModel.
var ErrNoModel = errors.New("no model set")

// Picker is the entry point for picking. It owns an Executor and the
// goroutine the executor runs on.
type Picker struct {
	dispatcher *Dispatcher
	executor   *Executor
	hasModel   bool
}

// Hit is the outcome of a successful pick.
type Hit struct {
	Point geom.Point3
	Mesh  string
}

// NewPicker starts a picker with no model.
func NewPicker() *Picker {
	return &Picker{
		dispatcher: NewDispatcher(),
		executor:   NewExecutor(),
	}
}

// Close stops the picker's owner goroutine.
func (p *Picker) Close() { p.dispatcher.Close() }

// SetModel rebuilds the triangle cache. It returns once the new model is
// visible to subsequent picks.
func (p *Picker) SetModel(meshes []Mesh) error {
	var setErr error
	err := p.dispatcher.Invoke(func() {
		setErr = p.executor.SetModel(meshes)
		if setErr == nil {
			p.hasModel = true
		}
	})
	if err != nil {
		return fmt.Errorf("pick: set model: %w", err)
	}
	return setErr
}

// TriangleCount returns the number of triangles in the current model.
func (p *Picker) TriangleCount() (int, error) {
	var n int
	err := p.dispatcher.Invoke(func() { n = p.executor.TriangleCount() })
	return n, err
}

// HitTest picks with a ray built from the arguments. direction must be a
// unit vector. A miss is reported as ok == false with a nil error.
func (p *Picker) HitTest(origin geom.Point3, direction geom.Vector3, aperture float64, perspective bool, planeDistance float64) (geom.Point3, bool, error) {
	ray, err := NewApertureRay(origin, direction, aperture)
	if err != nil {
		return geom.Point3{}, false, err
	}
	ray.SetPerspective(perspective)
	ray.SetPlaneDistance(planeDistance)

	hit, ok, err := p.Pick(ray)
	return hit.Point, ok, err
}

// Pick runs ray against the current model.
func (p *Picker) Pick(ray *ApertureRay) (Hit, bool, error) {
	var (
		hit     Hit
		ok      bool
		noModel bool
	)
	err := p.dispatcher.Invoke(func() {
		if !p.hasModel {
			noModel = true
			return
		}
		ok = p.executor.HitTest(ray)
		if ok {
			hit = Hit{Point: p.executor.HitPoint(), Mesh: p.executor.HitMesh()}
		}
	})
	if err != nil {
		return Hit{}, false, fmt.Errorf("pick: hit test: %w", err)
	}
	if noModel {
		return Hit{}, false, ErrNoModel
	}
	return hit, ok, nil
}
