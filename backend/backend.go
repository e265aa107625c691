// Package backend hosts the render-system registry. Backend packages
// register factories from init(); hosts pick one explicitly by name or
// take Default, which prefers the GPU path when it is available.
package backend

import (
	"errors"

	"github.com/gogpu/rend/render"
)

// Well-known backend names.
const (
	// BackendWGPU is the WebGPU capability/texture backend.
	BackendWGPU = "wgpu"

	// BackendSoft is the CPU reference backend.
	BackendSoft = "soft"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is
	// not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before
	// Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Factory creates a new render system instance.
type Factory func() render.RenderSystem
