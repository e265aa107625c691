//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/wgpu/core"

	types "github.com/gogpu/gputypes"

	"github.com/gogpu/rend"
)

// GPUInfo describes the adapter the backend selected.
type GPUInfo struct {
	Name   string
	Vendor string

	// DeviceType distinguishes discrete from integrated GPUs.
	DeviceType types.DeviceType

	// Backend is the native graphics API in use (Vulkan, Metal, DX12).
	Backend types.Backend

	// Driver is the driver version string, empty when unknown.
	Driver string
}

// String formats the info for logs.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

func getGPUInfo(adapterID core.AdapterID) (*GPUInfo, error) {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return nil, fmt.Errorf("adapter info: %w", err)
	}
	return &GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}, nil
}

func logGPUInfo(adapterID core.AdapterID) {
	info, err := getGPUInfo(adapterID)
	if err != nil {
		rend.Logger().Warn("wgpu: failed to get GPU info", "err", err)
		return
	}
	rend.Logger().Info("wgpu: GPU selected", "gpu", info.String(), "driver", info.Driver)
}

// adoptDevice takes the device and queue out of the host's handle. The
// host keeps ownership of everything it provided; only a missing queue
// is fetched from the adopted device.
func (s *System) adoptDevice() error {
	dev, ok := s.handle.Device().(core.DeviceID)
	if !ok {
		return fmt.Errorf("wgpu: host device is %T, want core.DeviceID", s.handle.Device())
	}
	if dev.IsZero() {
		return fmt.Errorf("wgpu: host device handle holds a zero device")
	}
	s.device = dev

	if q, ok := s.handle.Queue().(core.QueueID); ok && !q.IsZero() {
		s.queue = q
	} else {
		queueID, err := getDeviceQueue(dev)
		if err != nil {
			return fmt.Errorf("queue retrieval failed: %w", err)
		}
		s.queue = queueID
	}
	if a, ok := s.handle.Adapter().(core.AdapterID); ok {
		s.adapter = a
	}

	info := s.handle.AdapterInfo()
	rend.Logger().Info("wgpu: adopted host device", "adapter", info.Name, "type", info.Type)
	return nil
}

// createDevice requests a logical device with default limits. Feature
// requirements stay empty; rend probes what it gets rather than
// demanding extensions.
func createDevice(adapterID core.AdapterID, label string) (core.DeviceID, error) {
	desc := &types.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	}
	deviceID, err := core.RequestDevice(adapterID, desc)
	if err != nil {
		return core.DeviceID{}, fmt.Errorf("request device: %w", err)
	}
	return deviceID, nil
}

func getDeviceQueue(deviceID core.DeviceID) (core.QueueID, error) {
	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		return core.QueueID{}, fmt.Errorf("device queue: %w", err)
	}
	return queueID, nil
}

func releaseDevice(deviceID core.DeviceID) error {
	if deviceID.IsZero() {
		return nil
	}
	if err := core.DeviceDrop(deviceID); err != nil {
		return fmt.Errorf("release device: %w", err)
	}
	return nil
}

func releaseAdapter(adapterID core.AdapterID) error {
	if adapterID.IsZero() {
		return nil
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		return fmt.Errorf("release adapter: %w", err)
	}
	return nil
}
