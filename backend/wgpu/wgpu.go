//go:build !nogpu

// Package wgpu probes GPU capabilities through gogpu/wgpu and exposes
// them as a render system. The preferred setup adopts the host's shared
// device through WithDevice and a render.DeviceHandle; without one the
// system creates and owns its own instance, adapter, device and queue.
// Command encoding and draw submission are performed by the host
// application that shares the device, so ExecuteBatch and DrawQuad
// report ErrNotImplemented here and hosts layer their submission on the
// probed capabilities and allocated textures.
package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/backend"
	"github.com/gogpu/rend/material"
	"github.com/gogpu/rend/render"
)

func init() {
	backend.Register(backend.BackendWGPU, func() render.RenderSystem {
		return New()
	})
}

// Backend errors.
var (
	// ErrNoGPU is returned when no usable adapter exists.
	ErrNoGPU = errors.New("wgpu: no GPU adapter available")

	// ErrNotImplemented marks operations delegated to the host's
	// command encoder.
	ErrNotImplemented = errors.New("wgpu: operation delegated to host submission")
)

// webgpuMinColorAttachments is the attachment count every conforming
// WebGPU device guarantees.
const webgpuMinColorAttachments = 8

// System is the wgpu render system.
type System struct {
	mu sync.RWMutex

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	handle     render.DeviceHandle
	ownsDevice bool

	caps rend.Capabilities

	initialized bool
}

// Option configures the system before Init.
type Option func(*System)

// WithDevice supplies a host-owned device handle. Init adopts the
// handle's device and queue instead of creating its own, and Close
// leaves the adopted resources alive for the host. The handle's
// Device() must be a core.DeviceID.
func WithDevice(h render.DeviceHandle) Option {
	return func(s *System) { s.handle = h }
}

// New creates an uninitialized wgpu system.
func New(opts ...Option) *System {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the backend identifier.
func (s *System) Name() string { return backend.BackendWGPU }

// Init adopts the host-provided device when one was supplied, otherwise
// creates the GPU instance and requests an adapter and device of its
// own. Either way it then probes device limits into capabilities.
func (s *System) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if s.handle != nil && s.handle.Device() != nil {
		if err := s.adoptDevice(); err != nil {
			return err
		}
	} else if err := s.createOwnDevice(); err != nil {
		return err
	}

	s.caps = probeCapabilities(s.device)
	s.initialized = true
	rend.Logger().Info("backend: initialized", "name", s.Name(),
		"ownsDevice", s.ownsDevice,
		"maxColorTargets", s.caps.MaxColorTargets,
		"maxTextureSize", s.caps.MaxTextureSize)
	return nil
}

func (s *System) createOwnDevice() error {
	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	s.instance = core.NewInstance(desc)

	adapterID, err := s.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	s.adapter = adapterID
	logGPUInfo(adapterID)

	deviceID, err := createDevice(adapterID, "rend-wgpu-device")
	if err != nil {
		return fmt.Errorf("device creation failed: %w", err)
	}
	s.device = deviceID

	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		return fmt.Errorf("queue retrieval failed: %w", err)
	}
	s.queue = queueID
	s.ownsDevice = true
	return nil
}

// Close releases owned GPU resources in reverse order of creation.
// Adopted host resources are left alive; only the references drop.
func (s *System) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	if s.ownsDevice {
		if !s.device.IsZero() {
			if err := releaseDevice(s.device); err != nil {
				rend.Logger().Warn("wgpu: error releasing device", "err", err)
			}
		}
		if !s.adapter.IsZero() {
			if err := releaseAdapter(s.adapter); err != nil {
				rend.Logger().Warn("wgpu: error releasing adapter", "err", err)
			}
		}
	}
	s.device = core.DeviceID{}
	s.adapter = core.AdapterID{}
	s.queue = core.QueueID{}
	s.ownsDevice = false
	s.initialized = false
}

// Capabilities reports the probed device capabilities. Valid after Init.
func (s *System) Capabilities() rend.Capabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caps
}

// CreateTexture is delegated to the host, which owns the shared device
// and its resource tracking.
func (s *System) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if !s.initialized {
		return nil, backend.ErrNotInitialized
	}
	if _, ok := desc.Format.GPUType(); !ok {
		return nil, fmt.Errorf("wgpu: format %v has no device mapping", desc.Format)
	}
	return nil, ErrNotImplemented
}

// BeginTarget is delegated to the host.
func (s *System) BeginTarget(t render.RenderTarget) error {
	if !s.initialized {
		return backend.ErrNotInitialized
	}
	return ErrNotImplemented
}

// Clear is delegated to the host.
func (s *System) Clear(opts render.ClearOptions) error { return ErrNotImplemented }

// SetStencil is delegated to the host.
func (s *System) SetStencil(st render.StencilState) error { return ErrNotImplemented }

// ExecuteBatch is delegated to the host.
func (s *System) ExecuteBatch(b render.Batch) error { return ErrNotImplemented }

// DrawQuad is delegated to the host.
func (s *System) DrawQuad(mat *material.Material, inputs []render.QuadInput) error {
	return ErrNotImplemented
}

// EndTarget is delegated to the host.
func (s *System) EndTarget() error { return ErrNotImplemented }

var _ render.RenderSystem = (*System)(nil)

// probeCapabilities maps device limits into rend capabilities. Formats
// are the set with a gputypes mapping; the attachment count uses the
// WebGPU-guaranteed minimum because the limits structure does not
// expose the device's actual value.
func probeCapabilities(deviceID core.DeviceID) rend.Capabilities {
	caps := rend.Capabilities{
		MaxColorTargets:   webgpuMinColorAttachments,
		MixedDepthTargets: true,
		RenderFormats: rend.NewFormatSet(
			rend.FormatRGBA8, rend.FormatRGBA8SRGB,
			rend.FormatBGRA8, rend.FormatBGRA8SRGB,
			rend.FormatR8, rend.FormatDepth24S8,
		),
	}

	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		rend.Logger().Warn("wgpu: failed to get device limits", "err", err)
		return caps
	}
	caps.MaxTextureSize = int(limits.MaxTextureDimension2D)
	return caps
}
