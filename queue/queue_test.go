package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
)

// testObj is a minimal queue.Renderable with a settable squared depth.
type testObj struct {
	name  string
	mat   *material.Material
	tech  *material.Technique
	depth float32
	casts bool
}

func (o *testObj) RenderOperation() rend.RenderOperation {
	return rend.RenderOperation{Topology: rend.TopologyTriangleList, VertexCount: 3}
}
func (o *testObj) WorldTransform() rend.Mat4 { return rend.Identity() }
func (o *testObj) WorldBounds() rend.Bounds {
	return rend.Bounds{Min: rend.Vec3{X: -1, Y: -1, Z: -1}, Max: rend.Vec3{X: 1, Y: 1, Z: 1}}
}
func (o *testObj) SquaredViewDepth(rend.Camera) float32 { return o.depth }
func (o *testObj) Lights() []rend.Light                 { return nil }
func (o *testObj) CastsShadows() bool                   { return o.casts }
func (o *testObj) ReceivesShadows() bool                { return true }
func (o *testObj) VisibilityFlags() uint32              { return rend.VisibilityAll }
func (o *testObj) Material() *material.Material         { return o.mat }
func (o *testObj) Technique() *material.Technique       { return o.tech }

func solidMaterial(name string) *material.Material {
	return material.New(name).
		AddTechnique(material.NewTechnique("default").AddPass(material.NewPass(name)))
}

func transparentMaterial(name string) *material.Material {
	p := material.NewPass(name)
	p.SrcBlend, p.DstBlend = material.BlendSrcAlpha, material.BlendOneMinusSrcAlpha
	return material.New(name).
		AddTechnique(material.NewTechnique("default").AddPass(p))
}

func mustPush(t *testing.T, q *RenderQueue, objs ...*testObj) {
	t.Helper()
	for i, o := range objs {
		if err := q.Push(rend.Handle(i+1), o); err != nil {
			t.Fatalf("Push %q: %v", o.name, err)
		}
	}
}

func TestAddOneItemPerPass(t *testing.T) {
	tech := material.NewTechnique("multi").
		AddPass(material.NewPass("depth-prime")).
		AddPass(material.NewPass("shade"))
	m := material.New("two-pass").AddTechnique(tech)

	q := New()
	defer q.Close()
	mustPush(t, q, &testObj{name: "a", mat: m})

	if q.Len() != 2 {
		t.Errorf("Len = %d after two-pass add, want 2", q.Len())
	}
}

func TestResolveTechnique(t *testing.T) {
	override := material.NewTechnique("override").AddPass(material.NewPass("o"))
	m := solidMaterial("wall")

	tests := []struct {
		name string
		obj  *testObj
		opts []Option
		err  error
	}{
		{"explicit override", &testObj{tech: override}, nil, nil},
		{"material best", &testObj{mat: m}, nil, nil},
		{"default fallback", &testObj{}, nil, nil},
		{
			"no resolution",
			&testObj{},
			[]Option{WithDefaultMaterial(nil)},
			material.ErrNoTechnique,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New(tt.opts...)
			defer q.Close()
			err := q.Push(1, tt.obj)
			if !errors.Is(err, tt.err) {
				t.Errorf("Push err = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestSchemeResolution(t *testing.T) {
	def := material.NewTechnique("default").AddPass(material.NewPass("d"))
	hdr := material.NewTechnique("hdr").AddPass(material.NewPass("h")).SetScheme("hdr")
	m := material.New("m").AddTechnique(def).AddTechnique(hdr)

	q := New(WithScheme("hdr"))
	defer q.Close()
	mustPush(t, q, &testObj{name: "a", mat: m})

	var passes []string
	q.Each(func(_ rend.GroupID, g *Group) bool {
		g.VisitSolids(func(p *material.Pass, items []Item) bool {
			passes = append(passes, p.Name)
			return true
		}, nil)
		return true
	})
	if len(passes) != 1 || passes[0] != "h" {
		t.Errorf("scheme hdr routed passes %v, want [h]", passes)
	}

	if q.Scheme() != "hdr" {
		t.Errorf("Scheme() = %q, want hdr", q.Scheme())
	}
	q.SetScheme("")
	if q.Scheme() != "" {
		t.Errorf("Scheme() after SetScheme = %q, want empty", q.Scheme())
	}

	// Switching back re-interns and routes through the default scheme.
	q.Clear(nil)
	mustPush(t, q, &testObj{name: "a", mat: m})
	passes = passes[:0]
	q.Each(func(_ rend.GroupID, g *Group) bool {
		g.VisitSolids(func(p *material.Pass, items []Item) bool {
			passes = append(passes, p.Name)
			return true
		}, nil)
		return true
	})
	if len(passes) != 1 || passes[0] != "d" {
		t.Errorf("default scheme routed passes %v, want [d]", passes)
	}
}

func TestSolidBatchingByPassIdentity(t *testing.T) {
	matA := solidMaterial("A")
	matB := solidMaterial("B")

	q := New()
	defer q.Close()
	// Interleaved adds; grouping must reunite the A items.
	mustPush(t, q,
		&testObj{name: "r1", mat: matA},
		&testObj{name: "r2", mat: matB},
		&testObj{name: "r3", mat: matA},
	)
	q.Sort(&rend.BasicCamera{})

	type batch struct {
		pass  string
		items int
	}
	var got []batch
	q.Each(func(_ rend.GroupID, g *Group) bool {
		g.VisitSolids(func(p *material.Pass, items []Item) bool {
			got = append(got, batch{p.Name, len(items)})
			return true
		}, nil)
		return true
	})

	if len(got) != 2 {
		t.Fatalf("got %d pass batches, want 2: %v", len(got), got)
	}
	byName := map[string]int{}
	for _, b := range got {
		byName[b.pass] = b.items
	}
	if byName["A"] != 2 || byName["B"] != 1 {
		t.Errorf("batch sizes = %v, want A:2 B:1", byName)
	}
}

func TestTransparentsBackToFront(t *testing.T) {
	m := transparentMaterial("glass")

	q := New()
	defer q.Close()
	mustPush(t, q,
		&testObj{name: "near", mat: m, depth: 1},
		&testObj{name: "far", mat: m, depth: 9},
		&testObj{name: "mid", mat: m, depth: 4},
	)
	q.Sort(&rend.BasicCamera{})

	var order []string
	q.Each(func(_ rend.GroupID, g *Group) bool {
		g.VisitTransparents(func(it Item) bool {
			order = append(order, it.Renderable.(*testObj).name)
			return true
		}, nil)
		return true
	})
	want := []string{"far", "mid", "near"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("transparent order = %v, want %v", order, want)
		}
	}
}

func TestTransparentsStableOnEqualDepth(t *testing.T) {
	m := transparentMaterial("glass")
	q := New()
	defer q.Close()
	mustPush(t, q,
		&testObj{name: "first", mat: m, depth: 4},
		&testObj{name: "second", mat: m, depth: 4},
	)
	q.Sort(&rend.BasicCamera{})

	var order []string
	q.Each(func(_ rend.GroupID, g *Group) bool {
		g.VisitTransparents(func(it Item) bool {
			order = append(order, it.Renderable.(*testObj).name)
			return true
		}, nil)
		return true
	})
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("equal-depth order = %v, want insertion order", order)
	}
}

func TestClearEmptiesAndReuses(t *testing.T) {
	q := New()
	defer q.Close()
	mustPush(t, q,
		&testObj{name: "a", mat: solidMaterial("A")},
		&testObj{name: "b", mat: transparentMaterial("T")},
	)
	if q.Len() != 2 {
		t.Fatalf("Len = %d before clear, want 2", q.Len())
	}

	q.Clear(nil)
	if q.Len() != 0 {
		t.Errorf("Len = %d after clear, want 0", q.Len())
	}

	// The queue stays usable for the next frame.
	mustPush(t, q, &testObj{name: "c", mat: solidMaterial("C")})
	if q.Len() != 1 {
		t.Errorf("Len = %d after refill, want 1", q.Len())
	}
}

func TestClearFlushesPending(t *testing.T) {
	pending := material.NewPendingPassUpdates()
	fc := rend.NewFrameContext(pending)
	fc.BeginFrame()

	p := material.NewPass("p")
	p.FragmentProgram = "edited"
	p.MarkDirty(pending)

	q := New()
	defer q.Close()
	q.Clear(fc)

	if pending.Len() != 0 {
		t.Error("Clear did not flush pending pass updates")
	}
	if fc.Stats.FlushedPasses != 1 {
		t.Errorf("FlushedPasses = %d, want 1", fc.Stats.FlushedPasses)
	}
}

func TestMergeKeepsDuplicates(t *testing.T) {
	m := solidMaterial("A")
	shared := &testObj{name: "shared", mat: m}

	a := New()
	defer a.Close()
	b := New()
	defer b.Close()
	mustPush(t, a, shared, &testObj{name: "onlyA", mat: m})
	mustPush(t, b, shared, &testObj{name: "onlyB", mat: transparentMaterial("T")})

	a.Merge(b)
	// 2 from a, 2 from b; the shared object appears twice.
	if a.Len() != 4 {
		t.Errorf("merged Len = %d, want 4", a.Len())
	}
	if b.Len() != 2 {
		t.Errorf("source queue Len = %d after merge, want 2 (unchanged)", b.Len())
	}
}

func TestGroupOrdering(t *testing.T) {
	m := solidMaterial("A")
	q := New()
	defer q.Close()

	add := func(gid rend.GroupID) {
		if err := q.Add(1, &testObj{mat: m}, gid, rend.DefaultPriority); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	add(rend.GroupOverlay)
	add(rend.GroupBackground)
	add(rend.GroupMain)

	var order []rend.GroupID
	q.Each(func(gid rend.GroupID, _ *Group) bool {
		order = append(order, gid)
		return true
	})
	want := []rend.GroupID{rend.GroupBackground, rend.GroupMain, rend.GroupOverlay}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("group order = %v, want %v", order, want)
	}

	order = order[:0]
	q.EachRange(rend.GroupBackground, rend.GroupMain, func(gid rend.GroupID, _ *Group) bool {
		order = append(order, gid)
		return true
	})
	if len(order) != 2 || order[1] != rend.GroupMain {
		t.Errorf("EachRange order = %v, want background then main", order)
	}
}

func TestPriorityOrdering(t *testing.T) {
	m := solidMaterial("A")
	q := New()
	defer q.Close()

	for _, prio := range []rend.Priority{200, 50, 100} {
		if err := q.Add(1, &testObj{mat: m}, rend.GroupMain, prio); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	var order []rend.Priority
	q.Group(rend.GroupMain).Each(func(prio rend.Priority, _ *PriorityGroup) bool {
		order = append(order, prio)
		return true
	})
	want := []rend.Priority{50, 100, 200}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("priority order = %v, want %v", order, want)
	}
}

func TestFrontToBackSolids(t *testing.T) {
	m := solidMaterial("A")
	q := New(WithSortMode(rend.GroupMain, DefaultSortMode|SortFrontToBack))
	defer q.Close()
	mustPush(t, q,
		&testObj{name: "far", mat: m, depth: 9},
		&testObj{name: "near", mat: m, depth: 1},
	)
	q.Sort(&rend.BasicCamera{})

	var order []string
	q.Group(rend.GroupMain).VisitSolids(func(_ *material.Pass, items []Item) bool {
		for _, it := range items {
			order = append(order, it.Renderable.(*testObj).name)
		}
		return true
	}, nil)
	if len(order) != 2 || order[0] != "near" || order[1] != "far" {
		t.Errorf("front-to-back order = %v, want [near far]", order)
	}
}

func TestOverlayDefaultsToPassGroupOnly(t *testing.T) {
	q := New()
	defer q.Close()
	if mode := q.Group(rend.GroupOverlay).SortMode(); mode != SortPassGroup {
		t.Errorf("overlay sort mode = %v, want SortPassGroup", mode)
	}
	if mode := q.Group(rend.GroupMain).SortMode(); mode != DefaultSortMode {
		t.Errorf("main sort mode = %v, want DefaultSortMode", mode)
	}
}

func TestCastersOnlyPredicate(t *testing.T) {
	m := solidMaterial("A")
	q := New()
	defer q.Close()
	mustPush(t, q,
		&testObj{name: "caster", mat: m, casts: true},
		&testObj{name: "ghost", mat: m},
	)
	q.Sort(&rend.BasicCamera{})

	var seen []string
	q.Group(rend.GroupMain).VisitSolids(func(_ *material.Pass, items []Item) bool {
		for _, it := range items {
			seen = append(seen, it.Renderable.(*testObj).name)
		}
		return true
	}, CastersOnly)
	if len(seen) != 1 || seen[0] != "caster" {
		t.Errorf("caster iteration saw %v, want [caster]", seen)
	}

	// A pass whose items all fail the predicate must not be visited.
	q.Clear(nil)
	mustPush(t, q, &testObj{name: "ghost2", mat: m})
	visits := 0
	q.Group(rend.GroupMain).VisitSolids(func(_ *material.Pass, _ []Item) bool {
		visits++
		return true
	}, CastersOnly)
	if visits != 0 {
		t.Errorf("empty pass visited %d times under predicate, want 0", visits)
	}
}

// vetoListener rejects objects by name and can substitute a technique.
type vetoListener struct {
	veto       string
	substitute *material.Technique
}

func (l *vetoListener) PrepareRenderable(r Renderable, tech *material.Technique) (*material.Technique, bool) {
	if o, ok := r.(*testObj); ok && o.name == l.veto {
		return nil, false
	}
	return l.substitute, true
}

func TestListenerVeto(t *testing.T) {
	m := solidMaterial("A")
	q := New(WithListener(&vetoListener{veto: "bad"}))
	defer q.Close()
	mustPush(t, q,
		&testObj{name: "bad", mat: m},
		&testObj{name: "good", mat: m},
	)
	if q.Len() != 1 {
		t.Errorf("Len = %d with veto listener, want 1", q.Len())
	}
}

func TestListenerSubstitution(t *testing.T) {
	sub := material.NewTechnique("sub").AddPass(material.NewPass("shadow-caster"))
	q := New(WithListener(&vetoListener{substitute: sub}))
	defer q.Close()
	mustPush(t, q, &testObj{name: "a", mat: solidMaterial("A")})

	var passes []string
	q.Group(rend.GroupMain).VisitSolids(func(p *material.Pass, _ []Item) bool {
		passes = append(passes, p.Name)
		return true
	}, nil)
	if len(passes) != 1 || passes[0] != "shadow-caster" {
		t.Errorf("substituted passes = %v, want [shadow-caster]", passes)
	}
}

func TestSinkAdapter(t *testing.T) {
	q := New()
	defer q.Close()
	sink := q.Sink()

	if err := sink.Add(1, &testObj{mat: solidMaterial("A")}); err != nil {
		t.Fatalf("Sink.Add: %v", err)
	}
	if q.Len() != 1 {
		t.Errorf("Len = %d after sink add, want 1", q.Len())
	}

	// A renderable without material state is a configuration error.
	if err := sink.Add(2, bareRenderable{}); err == nil {
		t.Error("Sink.Add accepted a renderable without material state")
	}
}

// bareRenderable implements only rend.Renderable.
type bareRenderable struct{}

func (bareRenderable) RenderOperation() rend.RenderOperation { return rend.RenderOperation{} }
func (bareRenderable) WorldTransform() rend.Mat4             { return rend.Identity() }
func (bareRenderable) WorldBounds() rend.Bounds              { return rend.Bounds{} }
func (bareRenderable) SquaredViewDepth(rend.Camera) float32  { return 0 }
func (bareRenderable) Lights() []rend.Light                  { return nil }
func (bareRenderable) CastsShadows() bool                    { return false }
func (bareRenderable) ReceivesShadows() bool                 { return false }
func (bareRenderable) VisibilityFlags() uint32               { return rend.VisibilityAll }

func BenchmarkFillSortClear(b *testing.B) {
	const n = 2000
	mats := []*material.Material{
		solidMaterial("A"), solidMaterial("B"), solidMaterial("C"),
		transparentMaterial("T"),
	}
	objs := make([]*testObj, n)
	for i := range objs {
		objs[i] = &testObj{mat: mats[i%len(mats)], depth: float32(i % 97)}
	}
	cam := &rend.BasicCamera{}

	q := New()
	defer q.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j, o := range objs {
			_ = q.Push(rend.Handle(j+1), o)
		}
		q.Sort(cam)
		q.Clear(nil)
	}
}
