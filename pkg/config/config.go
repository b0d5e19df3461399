// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMeshCells is the marching cubes resolution along a solid's
	// longest axis.
	DefaultMeshCells = 200
	// DefaultEvalTimeout bounds a single script evaluation.
	DefaultEvalTimeout = 5 * time.Second
	// DefaultWindowWidth and DefaultWindowHeight size the main window.
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 800
	// DefaultPickAperture is used when a pick request carries no aperture.
	DefaultPickAperture = 0.01
	// DefaultKernel names the geometry kernel that meshes parts.
	DefaultKernel = KernelSdfx
)

// Geometry kernels selectable with SPACEPICK_KERNEL.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// Config holds the application tunables.
type Config struct {
	MeshCells    int
	EvalTimeout  time.Duration
	WindowWidth  int
	WindowHeight int
	PickAperture float64
	Kernel       string
}

// Default returns the configuration used when no overrides are set.
func Default() *Config {
	return &Config{
		MeshCells:    DefaultMeshCells,
		EvalTimeout:  DefaultEvalTimeout,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
		PickAperture: DefaultPickAperture,
		Kernel:       DefaultKernel,
	}
}

// Load reads the configuration from SPACEPICK_* environment variables,
// applying defaults for unset ones. All invalid overrides are reported
// together.
func Load() (*Config, error) {
	cfg := Default()

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("SPACEPICK_MESH_CELLS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("SPACEPICK_MESH_CELLS must be a positive integer, got %q", raw))
		} else {
			cfg.MeshCells = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SPACEPICK_EVAL_TIMEOUT")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("SPACEPICK_EVAL_TIMEOUT must be a positive duration, got %q", raw))
		} else {
			cfg.EvalTimeout = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SPACEPICK_WINDOW_WIDTH")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("SPACEPICK_WINDOW_WIDTH must be a positive integer, got %q", raw))
		} else {
			cfg.WindowWidth = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SPACEPICK_WINDOW_HEIGHT")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("SPACEPICK_WINDOW_HEIGHT must be a positive integer, got %q", raw))
		} else {
			cfg.WindowHeight = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SPACEPICK_PICK_APERTURE")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(value > 0) {
			problems = append(problems, fmt.Sprintf("SPACEPICK_PICK_APERTURE must be a positive number, got %q", raw))
		} else {
			cfg.PickAperture = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SPACEPICK_KERNEL")); raw != "" {
		switch value := strings.ToLower(raw); value {
		case KernelSdfx, KernelManifold:
			cfg.Kernel = value
		default:
			problems = append(problems, fmt.Sprintf("SPACEPICK_KERNEL must be %q or %q, got %q", KernelSdfx, KernelManifold, raw))
		}
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return cfg, nil
}
