package render

import (
	"testing"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
	"github.com/gogpu/rend/queue"
)

// drawObj is a minimal queue.Renderable for submission tests.
type drawObj struct {
	name  string
	mat   *material.Material
	depth float32
	casts bool
}

func (o *drawObj) RenderOperation() rend.RenderOperation {
	return rend.RenderOperation{Topology: rend.TopologyTriangleList, VertexCount: 3}
}
func (o *drawObj) WorldTransform() rend.Mat4 { return rend.Translation(rend.Vec3{X: o.depth}) }
func (o *drawObj) WorldBounds() rend.Bounds {
	return rend.Bounds{Min: rend.Vec3{X: -1, Y: -1, Z: -1}, Max: rend.Vec3{X: 1, Y: 1, Z: 1}}
}
func (o *drawObj) SquaredViewDepth(rend.Camera) float32 { return o.depth * o.depth }
func (o *drawObj) Lights() []rend.Light                 { return nil }
func (o *drawObj) CastsShadows() bool                   { return o.casts }
func (o *drawObj) ReceivesShadows() bool                { return true }
func (o *drawObj) VisibilityFlags() uint32              { return rend.VisibilityAll }
func (o *drawObj) Material() *material.Material         { return o.mat }
func (o *drawObj) Technique() *material.Technique       { return nil }

func opaque(name string) *material.Material {
	return material.New(name).
		AddTechnique(material.NewTechnique("default").AddPass(material.NewPass(name)))
}

func blended(name string) *material.Material {
	p := material.NewPass(name)
	p.SrcBlend, p.DstBlend = material.BlendSrcAlpha, material.BlendOneMinusSrcAlpha
	return material.New(name).
		AddTechnique(material.NewTechnique("default").AddPass(p))
}

func TestBuildSubmission(t *testing.T) {
	matA := opaque("A")
	matB := opaque("B")
	matT := blended("T")

	q := queue.New()
	defer q.Close()

	objs := []*drawObj{
		{name: "r1", mat: matA},
		{name: "r2", mat: matB},
		{name: "r3", mat: matA},
		{name: "t-far", mat: matT, depth: 5.0},
		{name: "t-near", mat: matT, depth: 2.0},
	}
	for i, o := range objs {
		if err := q.Push(rend.Handle(i+1), o); err != nil {
			t.Fatalf("Push %q: %v", o.name, err)
		}
	}
	q.Sort(&rend.BasicCamera{})

	fc := rend.NewFrameContext(nil)
	fc.BeginFrame()
	var s Submission
	BuildSubmission(q, 0, rend.GroupCount-1, nil, fc, &s)

	// Two solid batches (one per pass) followed by two single-item
	// transparent batches.
	if len(s.Batches) != 4 {
		t.Fatalf("got %d batches, want 4", len(s.Batches))
	}

	solidSizes := map[string]int{}
	for _, b := range s.Batches[:2] {
		solidSizes[b.Pass.Name] = len(b.Items)
	}
	if solidSizes["A"] != 2 || solidSizes["B"] != 1 {
		t.Errorf("solid batch sizes = %v, want A:2 B:1", solidSizes)
	}

	// Transparents trail their bucket, farthest first.
	for i, want := range []string{"t-far", "t-near"} {
		b := s.Batches[2+i]
		if len(b.Items) != 1 {
			t.Fatalf("transparent batch %d has %d items, want 1", i, len(b.Items))
		}
		if got := b.Items[0].Renderable.(*drawObj).name; got != want {
			t.Errorf("transparent batch %d = %q, want %q", i, got, want)
		}
	}

	if s.DrawCalls() != 5 {
		t.Errorf("DrawCalls = %d, want 5", s.DrawCalls())
	}
	if fc.Stats.Batches != 4 || fc.Stats.DrawCalls != 5 {
		t.Errorf("stats batches=%d drawCalls=%d, want 4/5", fc.Stats.Batches, fc.Stats.DrawCalls)
	}
	if fc.Stats.Solids != 3 || fc.Stats.Transparents != 2 {
		t.Errorf("stats solids=%d transparents=%d, want 3/2",
			fc.Stats.Solids, fc.Stats.Transparents)
	}

	// Transforms are captured at flatten time.
	if got := s.Batches[2].Items[0].Transform; got != rend.Translation(rend.Vec3{X: 5}) {
		t.Errorf("transform not captured from renderable: %v", got)
	}
}

func TestBuildSubmissionGroupRange(t *testing.T) {
	q := queue.New()
	defer q.Close()

	add := func(name string, gid rend.GroupID) {
		if err := q.Add(1, &drawObj{name: name, mat: opaque(name)}, gid, rend.DefaultPriority); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	add("bg", rend.GroupBackground)
	add("main", rend.GroupMain)
	add("overlay", rend.GroupOverlay)
	q.Sort(&rend.BasicCamera{})

	var s Submission
	BuildSubmission(q, rend.GroupMain, rend.GroupMain, nil, nil, &s)
	if len(s.Batches) != 1 || s.Batches[0].Pass.Name != "main" {
		t.Errorf("range submission = %d batches, want only the main group", len(s.Batches))
	}
}

func TestBuildSubmissionCastersOnly(t *testing.T) {
	q := queue.New()
	defer q.Close()

	objs := []*drawObj{
		{name: "caster", mat: opaque("A"), casts: true},
		{name: "ghost", mat: opaque("A")},
	}
	for i, o := range objs {
		if err := q.Push(rend.Handle(i+1), o); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	q.Sort(&rend.BasicCamera{})

	var s Submission
	BuildSubmission(q, 0, rend.GroupCount-1, queue.CastersOnly, nil, &s)
	if len(s.Batches) != 1 || len(s.Batches[0].Items) != 1 {
		t.Fatalf("caster submission = %+v, want one single-item batch", s.Batches)
	}
	if got := s.Batches[0].Items[0].Renderable.(*drawObj).name; got != "caster" {
		t.Errorf("caster submission contains %q", got)
	}
}

func TestSubmissionReset(t *testing.T) {
	s := Submission{Batches: make([]Batch, 3, 8)}
	s.Reset()
	if len(s.Batches) != 0 {
		t.Errorf("len = %d after Reset, want 0", len(s.Batches))
	}
	if cap(s.Batches) != 8 {
		t.Errorf("cap = %d after Reset, want 8", cap(s.Batches))
	}
}
