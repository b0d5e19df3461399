package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/spacepick/pkg/config"
	"github.com/chazu/spacepick/pkg/engine"
	"github.com/chazu/spacepick/pkg/geom"
	"github.com/chazu/spacepick/pkg/kernel"
	"github.com/chazu/spacepick/pkg/kernel/manifold"
	"github.com/chazu/spacepick/pkg/kernel/sdfx"
	"github.com/chazu/spacepick/pkg/pick"
	"github.com/chazu/spacepick/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	engine *engine.Engine
	kernel kernel.Kernel

	// picker holds every part of the last good evaluation; selection holds
	// only the selected parts.
	picker    *pick.Picker
	selection *pick.Picker

	mu     sync.Mutex
	meshes []*kernel.Mesh
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`
	Parts  []string        `json:"parts"`
}

// PickRequest describes a pick ray in model space.
type PickRequest struct {
	Origin        [3]float64 `json:"origin"`
	Direction     [3]float64 `json:"direction"`
	Aperture      float64    `json:"aperture"`
	Perspective   bool       `json:"perspective"`
	PlaneDistance float64    `json:"planeDistance"`
	SelectionOnly bool       `json:"selectionOnly"`
}

// CameraPickRequest describes a click on the near plane of a camera.
type CameraPickRequest struct {
	Position          [3]float64 `json:"position"`
	LookDirection     [3]float64 `json:"lookDirection"`
	Perspective       bool       `json:"perspective"`
	NearPlaneDistance float64    `json:"nearPlaneDistance"`
	Width             float64    `json:"width"`
	Click             [3]float64 `json:"click"`
	ViewportWidth     float64    `json:"viewportWidth"`
	SelectionOnly     bool       `json:"selectionOnly"`
}

// PickResult is returned by Pick and PickFromCamera. Point and Part are
// zero when Hit is false.
type PickResult struct {
	Hit   bool       `json:"hit"`
	Point [3]float64 `json:"point"`
	Part  string     `json:"part"`
}

// NewApp creates a new App from cfg. A nil cfg selects the defaults.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		cfg:       cfg,
		engine:    engine.NewEngine(cfg.EvalTimeout),
		kernel:    newKernel(cfg),
		picker:    pick.NewPicker(),
		selection: pick.NewPicker(),
	}
}

// newKernel returns the kernel cfg names. The manifold kernel needs a cgo
// build; without it the sdfx kernel is used instead.
func newKernel(cfg *config.Config) kernel.Kernel {
	if cfg.Kernel == config.KernelManifold {
		k, err := manifold.New(0)
		if err == nil {
			return k
		}
		log.Printf("Kernel error: %v; using sdfx", err)
	}
	return sdfx.New(cfg.MeshCells)
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called by Wails when the window closes.
func (a *App) shutdown(ctx context.Context) {
	a.Close()
}

// Close stops the pickers' owner goroutines.
func (a *App) Close() {
	a.picker.Close()
	a.selection.Close()
}

// Evaluate takes scene source and returns mesh data + errors.
// This is the primary binding called by the frontend editor. On success the
// meshes become the pick model and the selection is cleared; on failure the
// previous model stays in place.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
		Parts:  []string{},
	}

	// Step 1: Evaluate the source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Tessellate the scene into one mesh per part.
	meshes, err := tessellate.Tessellate(s, a.kernel)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Swap in the new pick model.
	if err := a.setModel(meshes); err != nil {
		log.Printf("Pick model error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "pick model failed: " + err.Error(),
		})
		return result
	}

	// Step 5: Convert kernel meshes to the frontend MeshData format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
		result.Parts = append(result.Parts, m.Name)
	}
	return result
}

func (a *App) setModel(meshes []*kernel.Mesh) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.picker.SetModel(pickMeshes(meshes)); err != nil {
		return err
	}
	if err := a.selection.SetModel(nil); err != nil {
		return err
	}
	a.meshes = meshes
	return nil
}

// Select makes the named parts the model for selection-only picks. An empty
// list clears the selection.
func (a *App) Select(names []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	byName := make(map[string]*kernel.Mesh, len(a.meshes))
	for _, m := range a.meshes {
		byName[m.Name] = m
	}

	selected := make([]*kernel.Mesh, 0, len(names))
	for _, name := range names {
		m, ok := byName[name]
		if !ok {
			return fmt.Errorf("select: no part named %q", name)
		}
		selected = append(selected, m)
	}
	return a.selection.SetModel(pickMeshes(selected))
}

// Pick casts the ray described by req. A miss is not an error.
func (a *App) Pick(req PickRequest) (PickResult, error) {
	dir := vec(req.Direction)
	if !geom.IsFinite(vec(req.Origin)) || !geom.IsFinite(dir) {
		return PickResult{}, errors.New("pick: origin and direction must be finite")
	}
	if dir == (geom.Vector3{}) {
		return PickResult{}, errors.New("pick: direction is zero")
	}
	if req.Perspective && !(req.PlaneDistance > 0) {
		return PickResult{}, fmt.Errorf("pick: perspective ray needs a positive plane distance, got %g", req.PlaneDistance)
	}

	// An unset aperture falls back to the configured one; a negative one is
	// rejected by the ray.
	aperture := req.Aperture
	if aperture == 0 {
		aperture = a.cfg.PickAperture
	}

	ray, err := pick.NewApertureRay(vec(req.Origin), dir.Normalize(), aperture)
	if err != nil {
		log.Printf("Pick error: %v", err)
		return PickResult{}, err
	}
	ray.SetPerspective(req.Perspective)
	ray.SetPlaneDistance(req.PlaneDistance)

	return a.pick(ray, req.SelectionOnly)
}

// PickFromCamera casts the one-pixel ray through a click on the camera's
// near plane.
func (a *App) PickFromCamera(req CameraPickRequest) (PickResult, error) {
	if !(req.ViewportWidth > 0) {
		return PickResult{}, fmt.Errorf("pick: viewport width must be positive, got %g", req.ViewportWidth)
	}

	cam := pick.Camera{
		Position:          vec(req.Position),
		LookDirection:     vec(req.LookDirection),
		IsPerspective:     req.Perspective,
		NearPlaneDistance: req.NearPlaneDistance,
		Width:             req.Width,
	}
	ray, err := pick.RayFromCamera(cam, vec(req.Click), req.ViewportWidth)
	if err != nil {
		log.Printf("Pick error: %v", err)
		return PickResult{}, err
	}
	return a.pick(ray, req.SelectionOnly)
}

func (a *App) pick(ray *pick.ApertureRay, selectionOnly bool) (PickResult, error) {
	p := a.picker
	if selectionOnly {
		p = a.selection
	}

	hit, ok, err := p.Pick(ray)
	if errors.Is(err, pick.ErrNoModel) {
		return PickResult{}, nil
	}
	if err != nil {
		log.Printf("Pick error: %v", err)
		return PickResult{}, err
	}
	if !ok {
		return PickResult{}, nil
	}
	return PickResult{
		Hit:   true,
		Point: [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Part:  hit.Mesh,
	}, nil
}

func pickMeshes(meshes []*kernel.Mesh) []pick.Mesh {
	out := make([]pick.Mesh, len(meshes))
	for i, m := range meshes {
		out[i] = m
	}
	return out
}

func vec(a [3]float64) geom.Vector3 {
	return geom.Vector3{X: a[0], Y: a[1], Z: a[2]}
}
