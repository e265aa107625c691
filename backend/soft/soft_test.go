package soft

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/backend"
	"github.com/gogpu/rend/material"
	"github.com/gogpu/rend/render"
)

func newInitSystem(t *testing.T) *System {
	t.Helper()
	s := New()
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendSoft) {
		t.Error("soft backend not registered")
	}
	sys := backend.Get(backend.BackendSoft)
	if sys == nil || sys.Name() != backend.BackendSoft {
		t.Errorf("Get(soft) = %v", sys)
	}
}

func TestCapabilities(t *testing.T) {
	s := newInitSystem(t)
	caps := s.Capabilities()

	if caps.MaxColorTargets != 4 {
		t.Errorf("MaxColorTargets = %d, want 4", caps.MaxColorTargets)
	}
	if !caps.FormatSupported(rend.FormatRGBA8) {
		t.Error("rgba8 should be supported")
	}
	// No float formats on the CPU path; that is what makes degradation
	// paths testable against this backend.
	if caps.FormatSupported(rend.FormatRGBA16F) {
		t.Error("rgba16f should not be supported")
	}
}

func TestUninitializedErrors(t *testing.T) {
	s := New()
	if _, err := s.CreateTexture(render.TextureDescriptor{}); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("CreateTexture err = %v, want ErrNotInitialized", err)
	}
	if err := s.BeginTarget(render.NewPixmapTarget(1, 1)); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("BeginTarget err = %v, want ErrNotInitialized", err)
	}
	// Operations without a bound target fail too.
	si := newInitSystem(t)
	if err := si.Clear(render.ClearOptions{}); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Clear without target err = %v", err)
	}
}

func TestTargetBracket(t *testing.T) {
	s := newInitSystem(t)
	target := render.NewPixmapTarget(4, 4)

	if err := s.BeginTarget(target); err != nil {
		t.Fatalf("BeginTarget: %v", err)
	}
	if err := s.BeginTarget(target); err == nil {
		t.Error("nested BeginTarget should fail")
	}
	if err := s.EndTarget(); err != nil {
		t.Fatalf("EndTarget: %v", err)
	}
	if err := s.EndTarget(); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("EndTarget without target err = %v", err)
	}
}

func TestClearFillsColor(t *testing.T) {
	s := newInitSystem(t)
	target := render.NewPixmapTarget(8, 8)
	if err := s.BeginTarget(target); err != nil {
		t.Fatalf("BeginTarget: %v", err)
	}
	defer s.EndTarget()

	err := s.Clear(render.ClearOptions{
		Buffers: render.ClearColor,
		Color:   [4]float32{0, 1, 0, 1},
	})
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := target.Image().RGBAAt(7, 7); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel after clear = %v, want green", got)
	}

	// A depth-only clear leaves the color buffer alone.
	if err := s.Clear(render.ClearOptions{Buffers: render.ClearDepth}); err != nil {
		t.Fatalf("depth clear: %v", err)
	}
	if got := target.Image().RGBAAt(7, 7); got.G != 255 {
		t.Error("depth clear touched the color buffer")
	}
}

func TestExecuteBatchRecords(t *testing.T) {
	s := newInitSystem(t)
	target := render.NewPixmapTarget(4, 4)
	if err := s.BeginTarget(target); err != nil {
		t.Fatalf("BeginTarget: %v", err)
	}
	defer s.EndTarget()

	passA := material.NewPass("A")
	passB := material.NewPass("B")
	batches := []render.Batch{
		{Pass: passA, Items: make([]render.DrawItem, 2)},
		{Pass: passB, Items: make([]render.DrawItem, 1)},
	}
	for _, b := range batches {
		if err := s.ExecuteBatch(b); err != nil {
			t.Fatalf("ExecuteBatch: %v", err)
		}
	}

	if len(s.Executed) != 2 {
		t.Fatalf("recorded %d batches, want 2", len(s.Executed))
	}
	if s.Executed[0].PassName != "A" || s.Executed[0].ItemCount != 2 {
		t.Errorf("record 0 = %+v", s.Executed[0])
	}
	if s.Executed[1].PassName != "B" || s.Executed[1].ItemCount != 1 {
		t.Errorf("record 1 = %+v", s.Executed[1])
	}

	s.ResetLog()
	if len(s.Executed) != 0 || s.Quads != 0 {
		t.Error("ResetLog did not clear the record")
	}
}

func TestDrawQuadComposites(t *testing.T) {
	s := newInitSystem(t)

	src := render.NewPixmapTarget(4, 4)
	src.Fill(color.RGBA{R: 255, A: 255})

	dst := render.NewPixmapTarget(8, 8)
	if err := s.BeginTarget(dst); err != nil {
		t.Fatalf("BeginTarget: %v", err)
	}
	defer s.EndTarget()

	err := s.DrawQuad(nil, []render.QuadInput{{Name: "scene", Source: src}})
	if err != nil {
		t.Fatalf("DrawQuad: %v", err)
	}
	if s.Quads != 1 {
		t.Errorf("Quads = %d, want 1", s.Quads)
	}
	// Scaled up to cover the whole destination.
	for _, xy := range [][2]int{{0, 0}, {7, 7}, {3, 4}} {
		if got := dst.Image().RGBAAt(xy[0], xy[1]); got.R != 255 || got.A != 255 {
			t.Errorf("pixel %v = %v, want red", xy, got)
		}
	}
}

func TestCreateTexturePixelAccess(t *testing.T) {
	s := newInitSystem(t)

	tex, err := s.CreateTexture(render.TextureDescriptor{
		Width: 16, Height: 8, Format: rend.FormatRGBA8,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 8 {
		t.Errorf("texture size = %dx%d, want 16x8", tex.Width(), tex.Height())
	}

	// Texture targets over CPU textures keep their pixels readable.
	target := render.NewTextureTarget(tex, 16, 8, rend.FormatRGBA8)
	if target.Pixels() == nil {
		t.Error("texture target has no pixel access")
	}
	if target.Stride() < 16*4 {
		t.Errorf("Stride = %d, want at least 64", target.Stride())
	}
}
