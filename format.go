package rend

import "github.com/gogpu/gputypes"

// PixelFormat identifies a texture or render-target pixel format.
//
// The zero value is FormatUnknown. Formats carry enough metadata
// (channel count, bits per pixel, float/depth classification) for the
// compositor's capability checks and its degradation policy; conversion
// to the gpucontext ecosystem happens at the device boundary via GPUType.
type PixelFormat uint8

const (
	FormatUnknown PixelFormat = iota

	// 8-bit normalized color formats.
	FormatRGBA8
	FormatRGBA8SRGB
	FormatBGRA8
	FormatBGRA8SRGB
	FormatR8
	FormatRG8

	// 16-bit float color formats.
	FormatR16F
	FormatRG16F
	FormatRGBA16F

	// 32-bit float color formats.
	FormatR32F
	FormatRG32F
	FormatRGBA32F

	// Depth/stencil formats.
	FormatDepth24S8
	FormatDepth32F

	formatCount
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatRGBA8SRGB:
		return "rgba8-srgb"
	case FormatBGRA8:
		return "bgra8"
	case FormatBGRA8SRGB:
		return "bgra8-srgb"
	case FormatR8:
		return "r8"
	case FormatRG8:
		return "rg8"
	case FormatR16F:
		return "r16f"
	case FormatRG16F:
		return "rg16f"
	case FormatRGBA16F:
		return "rgba16f"
	case FormatR32F:
		return "r32f"
	case FormatRG32F:
		return "rg32f"
	case FormatRGBA32F:
		return "rgba32f"
	case FormatDepth24S8:
		return "depth24-stencil8"
	case FormatDepth32F:
		return "depth32f"
	}
	return "unknown"
}

// Channels returns the number of color channels, or 0 for depth and
// unknown formats.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatR8, FormatR16F, FormatR32F:
		return 1
	case FormatRG8, FormatRG16F, FormatRG32F:
		return 2
	case FormatRGBA8, FormatRGBA8SRGB, FormatBGRA8, FormatBGRA8SRGB,
		FormatRGBA16F, FormatRGBA32F:
		return 4
	}
	return 0
}

// Bits returns the total bits per pixel.
func (f PixelFormat) Bits() int {
	switch f {
	case FormatR8:
		return 8
	case FormatRG8, FormatR16F:
		return 16
	case FormatRGBA8, FormatRGBA8SRGB, FormatBGRA8, FormatBGRA8SRGB,
		FormatRG16F, FormatR32F, FormatDepth24S8, FormatDepth32F:
		return 32
	case FormatRGBA16F, FormatRG32F:
		return 64
	case FormatRGBA32F:
		return 128
	}
	return 0
}

// IsFloat reports whether f stores floating-point color channels.
func (f PixelFormat) IsFloat() bool {
	switch f {
	case FormatR16F, FormatRG16F, FormatRGBA16F,
		FormatR32F, FormatRG32F, FormatRGBA32F:
		return true
	}
	return false
}

// IsDepth reports whether f is a depth or depth/stencil format.
func (f PixelFormat) IsDepth() bool {
	return f == FormatDepth24S8 || f == FormatDepth32F
}

// GPUType converts f to the gpucontext ecosystem's texture format.
// The second return value is false for formats the gputypes vocabulary
// does not carry; backends treat those as not allocatable through the
// shared device boundary and fall back to their own format tables.
func (f PixelFormat) GPUType() (gputypes.TextureFormat, bool) {
	switch f {
	case FormatRGBA8, FormatRGBA8SRGB:
		return gputypes.TextureFormatRGBA8Unorm, true
	case FormatBGRA8, FormatBGRA8SRGB:
		return gputypes.TextureFormatBGRA8Unorm, true
	case FormatR8:
		return gputypes.TextureFormatR8Unorm, true
	case FormatDepth24S8:
		return gputypes.TextureFormatDepth24PlusStencil8, true
	}
	return gputypes.TextureFormatUndefined, false
}

// ColorFormats lists every color (non-depth) format, used by the
// degradation policy to enumerate substitution candidates.
func ColorFormats() []PixelFormat {
	out := make([]PixelFormat, 0, int(formatCount))
	for f := FormatRGBA8; f < formatCount; f++ {
		if !f.IsDepth() {
			out = append(out, f)
		}
	}
	return out
}
