package compositor

import (
	"fmt"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/backend/soft"
	"github.com/gogpu/rend/render"
)

type nopRenderer struct{}

func (nopRenderer) RenderScene(SceneView) error { return nil }

// ExampleChain runs a two-step composition on the software backend: a
// clear into an intermediate texture, then a full-screen quad that
// copies it onto the final target.
func ExampleChain() {
	sys := soft.New()
	if err := sys.Init(); err != nil {
		fmt.Println("init:", err)
		return
	}
	defer sys.Close()

	final := render.NewPixmapTarget(32, 32)
	chain := NewChain(sys, nopRenderer{}, final)
	defer chain.Close()

	chain.Append(New("flat-red").AddTechnique(
		NewTechnique("main").
			AddTexture(TextureDef{Name: "rt0", Formats: []rend.PixelFormat{rend.FormatRGBA8}}).
			AddTarget(NewTargetPass("rt0",
				NewClearPass(render.ClearOptions{
					Buffers: render.ClearColor,
					Color:   [4]float32{1, 0, 0, 1},
				}),
			)).
			SetOutput(NewOutputPass(NewQuadPass(quadMaterial("copy"), "rt0"))),
	))

	if err := chain.Evaluate(&rend.BasicCamera{}, nil); err != nil {
		fmt.Println("evaluate:", err)
		return
	}

	px := final.Image().RGBAAt(16, 16)
	fmt.Printf("quads drawn: %d\n", sys.Quads)
	fmt.Printf("center pixel: R=%d G=%d B=%d A=%d\n", px.R, px.G, px.B, px.A)

	// Output:
	// quads drawn: 1
	// center pixel: R=255 G=0 B=0 A=255
}
