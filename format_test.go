package rend

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixelFormatMetadata(t *testing.T) {
	tests := []struct {
		format   PixelFormat
		channels int
		bits     int
		isFloat  bool
		isDepth  bool
	}{
		{FormatRGBA8, 4, 32, false, false},
		{FormatRGBA8SRGB, 4, 32, false, false},
		{FormatBGRA8, 4, 32, false, false},
		{FormatR8, 1, 8, false, false},
		{FormatRG8, 2, 16, false, false},
		{FormatR16F, 1, 16, true, false},
		{FormatRG16F, 2, 32, true, false},
		{FormatRGBA16F, 4, 64, true, false},
		{FormatR32F, 1, 32, true, false},
		{FormatRG32F, 2, 64, true, false},
		{FormatRGBA32F, 4, 128, true, false},
		{FormatDepth24S8, 0, 32, false, true},
		{FormatDepth32F, 0, 32, false, true},
		{FormatUnknown, 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.format.Bits(); got != tt.bits {
				t.Errorf("Bits() = %d, want %d", got, tt.bits)
			}
			if got := tt.format.IsFloat(); got != tt.isFloat {
				t.Errorf("IsFloat() = %v, want %v", got, tt.isFloat)
			}
			if got := tt.format.IsDepth(); got != tt.isDepth {
				t.Errorf("IsDepth() = %v, want %v", got, tt.isDepth)
			}
		})
	}
}

func TestPixelFormatString(t *testing.T) {
	if got := FormatRGBA16F.String(); got != "rgba16f" {
		t.Errorf("String() = %q, want %q", got, "rgba16f")
	}
	if got := PixelFormat(200).String(); got != "unknown" {
		t.Errorf("String() for out-of-range value = %q, want %q", got, "unknown")
	}
}

func TestGPUType(t *testing.T) {
	gt, ok := FormatRGBA8.GPUType()
	if !ok || gt != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("FormatRGBA8.GPUType() = %v, %v", gt, ok)
	}
	gt, ok = FormatDepth24S8.GPUType()
	if !ok || gt != gputypes.TextureFormatDepth24PlusStencil8 {
		t.Errorf("FormatDepth24S8.GPUType() = %v, %v", gt, ok)
	}
	if _, ok := FormatRGBA32F.GPUType(); ok {
		t.Error("FormatRGBA32F should have no device mapping")
	}
}

func TestColorFormats(t *testing.T) {
	for _, f := range ColorFormats() {
		if f.IsDepth() {
			t.Errorf("ColorFormats() contains depth format %v", f)
		}
		if f == FormatUnknown {
			t.Error("ColorFormats() contains FormatUnknown")
		}
	}
	if len(ColorFormats()) != 12 {
		t.Errorf("len(ColorFormats()) = %d, want 12", len(ColorFormats()))
	}
}
