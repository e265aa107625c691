package rend

// FormatSet is a bitmask over PixelFormat values.
type FormatSet uint32

// NewFormatSet builds a set from the given formats.
func NewFormatSet(formats ...PixelFormat) FormatSet {
	var s FormatSet
	for _, f := range formats {
		s |= 1 << f
	}
	return s
}

// Has reports whether f is in the set.
func (s FormatSet) Has(f PixelFormat) bool {
	return s&(1<<f) != 0
}

// Capabilities describes what the active render system can do. The
// compositor's support checks run entirely against this value, so a
// Capabilities literal is all a test needs to exercise technique
// selection without a device.
type Capabilities struct {
	// MaxColorTargets is the maximum number of simultaneous color
	// attachments (MRT width) for one draw pass.
	MaxColorTargets int

	// MixedDepthTargets reports whether MRT attachments may have
	// different bit depths. When false, every format in one texture
	// definition must resolve to the same bits per pixel.
	MixedDepthTargets bool

	// MaxTextureSize is the maximum texture dimension, 0 if unknown.
	MaxTextureSize int

	// RenderFormats is the set of formats usable as render targets.
	RenderFormats FormatSet
}

// FormatSupported reports whether f is natively usable as a render target.
func (c Capabilities) FormatSupported(f PixelFormat) bool {
	return c.RenderFormats.Has(f)
}

// NearestSupported resolves f to a natively supported render-target
// format, implementing the compositor's degradation policy:
//
//  1. A supported format is returned unchanged.
//  2. Otherwise candidates are supported color formats with the same
//     channel count; depth formats never degrade to color or vice versa.
//  3. Among candidates, equal bits per pixel wins, then the closest
//     greater bit count, then the closest smaller.
//
// The second return value is false when no candidate exists at all, in
// which case the requesting technique is unsupported.
func (c Capabilities) NearestSupported(f PixelFormat) (PixelFormat, bool) {
	if c.FormatSupported(f) {
		return f, true
	}
	if f.IsDepth() {
		// Only the two depth formats can substitute for each other.
		other := FormatDepth32F
		if f == FormatDepth32F {
			other = FormatDepth24S8
		}
		if c.FormatSupported(other) {
			return other, true
		}
		return FormatUnknown, false
	}

	want := f.Bits()
	best := FormatUnknown
	bestScore := int(^uint(0) >> 1)
	for _, cand := range ColorFormats() {
		if !c.FormatSupported(cand) || cand.Channels() != f.Channels() {
			continue
		}
		diff := cand.Bits() - want
		score := diff
		if diff < 0 {
			// Any candidate that keeps precision ranks ahead of every
			// one that loses it.
			score = 1<<16 - diff
		}
		if score < bestScore {
			best, bestScore = cand, score
		}
	}
	if best == FormatUnknown {
		return FormatUnknown, false
	}
	return best, true
}
