package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/rend"
)

func TestPixmapTarget(t *testing.T) {
	p := NewPixmapTarget(4, 3)
	if p.Width() != 4 || p.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", p.Width(), p.Height())
	}
	if p.Format() != rend.FormatRGBA8 {
		t.Errorf("Format = %v, want rgba8", p.Format())
	}
	if p.TextureView() != nil {
		t.Error("CPU target returned a texture view")
	}
	if len(p.Pixels()) != 4*3*4 {
		t.Errorf("Pixels len = %d, want 48", len(p.Pixels()))
	}

	p.Fill(color.RGBA{R: 255, A: 255})
	if got := p.Image().RGBAAt(2, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel after Fill = %v", got)
	}

	p.Resize(2, 2)
	if p.Width() != 2 || p.Height() != 2 {
		t.Errorf("size after Resize = %dx%d, want 2x2", p.Width(), p.Height())
	}
}

func TestPixmapTargetFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	p := NewPixmapTargetFromImage(img)
	p.Fill(color.RGBA{G: 128, A: 255})
	// The target must share the image's memory.
	if img.RGBAAt(0, 0).G != 128 {
		t.Error("target does not share the wrapped image's pixels")
	}
	if p.Stride() != img.Stride {
		t.Errorf("Stride = %d, want %d", p.Stride(), img.Stride)
	}
}

// cpuTexture is a Texture with pixel access, like the soft backend's.
type cpuTexture struct {
	img       *image.RGBA
	destroyed bool
}

func (t *cpuTexture) Width() uint32            { return uint32(t.img.Bounds().Dx()) }
func (t *cpuTexture) Height() uint32           { return uint32(t.img.Bounds().Dy()) }
func (t *cpuTexture) Format() rend.PixelFormat { return rend.FormatRGBA8 }
func (t *cpuTexture) CreateView() TextureView  { return nil }
func (t *cpuTexture) Destroy()                 { t.destroyed = true }
func (t *cpuTexture) Pix() []byte              { return t.img.Pix }
func (t *cpuTexture) RowStride() int           { return t.img.Stride }

func TestTextureTarget(t *testing.T) {
	tex := &cpuTexture{img: image.NewRGBA(image.Rect(0, 0, 8, 4))}
	tt := NewTextureTarget(tex, 8, 4, rend.FormatRGBA8)

	if tt.Width() != 8 || tt.Height() != 4 {
		t.Errorf("size = %dx%d, want 8x4", tt.Width(), tt.Height())
	}
	if tt.Pixels() == nil {
		t.Error("CPU-backed texture target returned nil pixels")
	}
	if tt.Stride() != tex.img.Stride {
		t.Errorf("Stride = %d, want %d", tt.Stride(), tex.img.Stride)
	}

	tt.Destroy()
	if !tex.destroyed {
		t.Error("Destroy did not release the texture")
	}
}

func TestMultiTarget(t *testing.T) {
	a := NewPixmapTarget(4, 4)
	b := NewPixmapTarget(4, 4)
	mt := NewMultiTarget(a, b)

	if len(mt.Attachments()) != 2 {
		t.Fatalf("Attachments = %d, want 2", len(mt.Attachments()))
	}
	// Attachment 0 answers the scalar queries.
	if mt.Width() != 4 || mt.Format() != rend.FormatRGBA8 {
		t.Errorf("multi target queries = %dx? %v", mt.Width(), mt.Format())
	}
	if &mt.Pixels()[0] != &a.Pixels()[0] {
		t.Error("Pixels is not attachment 0's")
	}

	empty := NewMultiTarget()
	if empty.Width() != 0 || empty.Format() != rend.FormatUnknown || empty.Pixels() != nil {
		t.Error("empty multi target should answer zero values")
	}
}
