// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/rend"
)

// RenderTarget defines where rendering output goes.
//
// A RenderTarget is an abstraction over different destinations:
//   - PixmapTarget: CPU-backed *image.RGBA used by the soft backend
//   - TextureTarget: GPU texture for compositor intermediates
//   - MultiTarget: several color attachments bound together (MRT)
//
// Targets may support CPU access (Pixels), GPU access (TextureView), or
// both. The render system chooses the appropriate access method.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() rend.PixelFormat

	// TextureView returns the GPU texture view for this target.
	// Returns nil for CPU-only targets.
	TextureView() TextureView

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
// It is what the soft backend renders into and what compositor tests
// read back from.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render
// target. The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() rend.PixelFormat {
	return rend.FormatRGBA8
}

// TextureView returns nil as this is a CPU-only target.
func (t *PixmapTarget) TextureView() TextureView {
	return nil
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Fill sets every pixel to the given color.
func (t *PixmapTarget) Fill(c color.Color) {
	r, g, b, a := c.RGBA()
	rgba := color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
	bounds := t.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t.img.SetRGBA(x, y, rgba)
		}
	}
}

// Resize replaces the backing image with a new one of the given
// dimensions. The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ RenderTarget = (*PixmapTarget)(nil)

// TextureTarget is a GPU texture-backed render target, used for
// compositor intermediate textures.
type TextureTarget struct {
	tex    Texture
	view   TextureView
	width  int
	height int
	format rend.PixelFormat
}

// NewTextureTarget wraps a GPU texture as a render target. The target
// takes ownership of tex and destroys it with Destroy.
func NewTextureTarget(tex Texture, width, height int, format rend.PixelFormat) *TextureTarget {
	t := &TextureTarget{
		tex:    tex,
		width:  width,
		height: height,
		format: format,
	}
	if tex != nil {
		t.view = tex.CreateView()
	}
	return t
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int { return t.height }

// Format returns the pixel format.
func (t *TextureTarget) Format() rend.PixelFormat { return t.format }

// TextureView returns the GPU texture view.
func (t *TextureTarget) TextureView() TextureView { return t.view }

// Pixels returns the backing pixel data when the texture is CPU-backed
// (the soft backend's textures are), nil for GPU-only textures.
func (t *TextureTarget) Pixels() []byte {
	if pa, ok := t.tex.(interface{ Pix() []byte }); ok {
		return pa.Pix()
	}
	return nil
}

// Stride returns the bytes per row for CPU-backed textures, 0 otherwise.
func (t *TextureTarget) Stride() int {
	if pa, ok := t.tex.(interface{ RowStride() int }); ok {
		return pa.RowStride()
	}
	return 0
}

// Destroy releases GPU resources.
func (t *TextureTarget) Destroy() {
	if t.view != nil {
		t.view.Destroy()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Destroy()
		t.tex = nil
	}
}

var _ RenderTarget = (*TextureTarget)(nil)

// MultiTarget binds several color attachments together for one draw
// pass (MRT). Attachment 0 answers the RenderTarget queries; the
// compositor checks attachment count and bit-depth mixing against the
// device capabilities before a MultiTarget is ever constructed.
type MultiTarget struct {
	attachments []RenderTarget
}

// NewMultiTarget creates an MRT set from the given attachments.
// All attachments must share dimensions.
func NewMultiTarget(attachments ...RenderTarget) *MultiTarget {
	return &MultiTarget{attachments: attachments}
}

// Attachments returns the attachment list in binding order.
func (t *MultiTarget) Attachments() []RenderTarget { return t.attachments }

// Width returns attachment 0's width, or 0 when empty.
func (t *MultiTarget) Width() int {
	if len(t.attachments) == 0 {
		return 0
	}
	return t.attachments[0].Width()
}

// Height returns attachment 0's height, or 0 when empty.
func (t *MultiTarget) Height() int {
	if len(t.attachments) == 0 {
		return 0
	}
	return t.attachments[0].Height()
}

// Format returns attachment 0's format.
func (t *MultiTarget) Format() rend.PixelFormat {
	if len(t.attachments) == 0 {
		return rend.FormatUnknown
	}
	return t.attachments[0].Format()
}

// TextureView returns attachment 0's view.
func (t *MultiTarget) TextureView() TextureView {
	if len(t.attachments) == 0 {
		return nil
	}
	return t.attachments[0].TextureView()
}

// Pixels returns attachment 0's pixels.
func (t *MultiTarget) Pixels() []byte {
	if len(t.attachments) == 0 {
		return nil
	}
	return t.attachments[0].Pixels()
}

// Stride returns attachment 0's stride.
func (t *MultiTarget) Stride() int {
	if len(t.attachments) == 0 {
		return 0
	}
	return t.attachments[0].Stride()
}

var _ RenderTarget = (*MultiTarget)(nil)
