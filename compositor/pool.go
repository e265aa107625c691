package compositor

import (
	"github.com/gogpu/rend"
	"github.com/gogpu/rend/render"
)

// Allocator creates a render target of the given size and format.
// Backends supply one: the soft backend allocates pixmaps, GPU backends
// allocate texture targets through the device.
type Allocator func(width, height int, format rend.PixelFormat) (render.RenderTarget, error)

// SystemAllocator adapts a RenderSystem's texture creation into an
// Allocator. It is the chain's default.
func SystemAllocator(sys render.RenderSystem) Allocator {
	return func(width, height int, format rend.PixelFormat) (render.RenderTarget, error) {
		tex, err := sys.CreateTexture(render.DefaultTextureDescriptor(
			uint32(width), uint32(height), format))
		if err != nil {
			return nil, err
		}
		return render.NewTextureTarget(tex, width, height, format), nil
	}
}

type poolKey struct {
	width  int
	height int
	format rend.PixelFormat
}

// TexturePool reuses intermediate render targets across chain rebuilds
// and across instances whose textures are declared Pooled. Keyed by
// (size, format): any released target of matching shape satisfies the
// next acquisition, which keeps resize storms from reallocating every
// intermediate.
//
// The pool is confined to the render goroutine, like everything else
// that owns GPU resources.
type TexturePool struct {
	alloc Allocator
	free  map[poolKey][]render.RenderTarget
}

// NewTexturePool creates a pool allocating through alloc.
func NewTexturePool(alloc Allocator) *TexturePool {
	return &TexturePool{
		alloc: alloc,
		free:  make(map[poolKey][]render.RenderTarget),
	}
}

// Acquire returns a target of the given shape, reusing a released one
// when available.
func (p *TexturePool) Acquire(width, height int, format rend.PixelFormat) (render.RenderTarget, error) {
	key := poolKey{width, height, format}
	if targets := p.free[key]; len(targets) > 0 {
		t := targets[len(targets)-1]
		p.free[key] = targets[:len(targets)-1]
		return t, nil
	}
	return p.alloc(width, height, format)
}

// Release returns a target to the pool for reuse.
func (p *TexturePool) Release(t render.RenderTarget) {
	if t == nil {
		return
	}
	key := poolKey{t.Width(), t.Height(), t.Format()}
	p.free[key] = append(p.free[key], t)
}

// Close destroys every pooled target that owns GPU resources.
func (p *TexturePool) Close() {
	for key, targets := range p.free {
		for _, t := range targets {
			if d, ok := t.(interface{ Destroy() }); ok {
				d.Destroy()
			}
		}
		delete(p.free, key)
	}
}

// Len returns the number of idle targets held by the pool.
func (p *TexturePool) Len() int {
	n := 0
	for _, targets := range p.free {
		n += len(targets)
	}
	return n
}
