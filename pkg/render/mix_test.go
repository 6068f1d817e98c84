package render

import "testing"

func TestRenderMix(t *testing.T) {
	tests := []struct {
		name  string
		block string
		elem  string
		desc  Descriptor
		want  string
	}{
		{
			name:  "other block",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{MixBlock("b2")}},
			want:  `<div class="b1 b2"></div>`,
		},
		{
			name:  "same block with modifiers",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{{Block: "b1", Mods: Mods{{Name: "m", Value: "v"}}}}},
			want:  `<div class="b1 b1_m_v"></div>`,
		},
		{
			name:  "same block with modifiers on an element",
			block: "b1",
			elem:  "e1",
			desc:  Descriptor{Mix: []MixItem{{Block: "b1", Mods: Mods{{Name: "m", Value: "v"}}}}},
			want:  `<div class="b1__e1 b1 b1_m_v"></div>`,
		},
		{
			name:  "element of the current block",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{{Elem: "e2", ElemMods: Mods{{Name: "m", Value: "v"}}}}},
			want:  `<div class="b1 b1__e2 b1__e2_m_v"></div>`,
		},
		{
			name:  "current element adds only modifiers",
			block: "b1",
			elem:  "e1",
			desc:  Descriptor{Mix: []MixItem{{Elem: "e1", ElemMods: Mods{{Name: "m", Value: "v"}}}}},
			want:  `<div class="b1__e1 b1__e1_m_v"></div>`,
		},
		{
			name:  "same element of another block",
			block: "b1",
			elem:  "e1",
			desc:  Descriptor{Mix: []MixItem{{Block: "b2", Elem: "e1"}}},
			want:  `<div class="b1__e1 b2__e1"></div>`,
		},
		{
			name:  "mixed block behavior",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{{Block: "b2", JS: true}}},
			want:  `<div class="b1 b2 i-bem" data-bem='{"b2":{}}'></div>`,
		},
		{
			name:  "own and mixed behavior",
			block: "b1",
			desc: Descriptor{
				JS:  true,
				Mix: []MixItem{{Block: "b2", JS: map[string]any{"a": 1}}},
			},
			want: `<div class="b1 b2 i-bem" data-bem='{"b1":{},"b2":{"a":1}}'></div>`,
		},
		{
			name:  "mixed element behavior has no init class",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{{Elem: "e", JS: true}}},
			want:  `<div class="b1 b1__e" data-bem='{"b1__e":{}}'></div>`,
		},
		{
			name:  "duplicates contribute once",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{{Block: "b2", JS: true}, {Block: "b2", JS: true}, MixBlock("b1")}},
			want:  `<div class="b1 b2 i-bem" data-bem='{"b2":{}}'></div>`,
		},
		{
			name:  "mix before cls",
			block: "b1",
			desc:  Descriptor{Mix: []MixItem{MixBlock("b2")}, Cls: "extra"},
			want:  `<div class="b1 b2 extra"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, run := newTestRenderer(RendererConfig{})
			e := r.NewEntity(tt.block, tt.elem, nil)
			c := &Context{Block: tt.block, Elem: tt.elem, Runner: run}

			got := r.Render(c, e, tt.desc)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func mixOf(items ...MixItem) MixFunc {
	return func(*Context) []MixItem {
		out := make([]MixItem, len(items))
		copy(out, items)
		return out
	}
}

func TestRenderMixNestedEntities(t *testing.T) {
	r, run := newTestRenderer(RendererConfig{})
	r.Register(r.NewEntity("b2", "", mixOf(MixItem{Mods: Mods{{Name: "theme", Value: "dark"}}}, MixItem{Elem: "x"})))
	r.Register(r.NewEntity("b2", "x", mixOf(MixItem{Elem: "y", JS: true})))

	e := r.NewEntity("b1", "", nil)
	c := &Context{Block: "b1", Runner: run}

	got := r.Render(c, e, Descriptor{Mix: []MixItem{MixBlock("b2")}})
	want := `<div class="b1 b2 b2_theme_dark b2__x b2__y" data-bem='{"b2__y":{}}'></div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderMixCycleTerminates(t *testing.T) {
	r, run := newTestRenderer(RendererConfig{})
	r.Register(r.NewEntity("b2", "", mixOf(MixItem{Elem: "x"})))
	r.Register(r.NewEntity("b2", "x", mixOf(MixItem{Elem: "y"})))
	r.Register(r.NewEntity("b2", "y", mixOf(MixItem{Elem: "x"})))
	r.Register(r.NewEntity("b3", "", mixOf(MixBlock("b2"))))

	e := r.NewEntity("b1", "", nil)
	c := &Context{Block: "b1", Runner: run}

	got := r.Render(c, e, Descriptor{Mix: []MixItem{MixBlock("b2"), MixBlock("b3"), MixBlock("b2")}})
	want := `<div class="b1 b2 b3 b2__x b2__y"></div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderMixBlockCycle(t *testing.T) {
	r, run := newTestRenderer(RendererConfig{})
	r.Register(r.NewEntity("a", "", mixOf(MixBlock("b"))))
	r.Register(r.NewEntity("b", "", mixOf(MixBlock("a"))))

	e := r.Entity("a", "")
	c := &Context{Block: "a", Runner: run}

	got := r.Render(c, e, Descriptor{Mix: []MixItem{MixBlock("b")}})
	if want := `<div class="a b"></div>`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderMixRestoresIdentity(t *testing.T) {
	r, run := newTestRenderer(RendererConfig{})

	var seen Identity
	r.Register(r.NewEntity("b2", "e", func(c *Context) []MixItem {
		seen = c.SaveIdentity()
		return nil
	}))

	e := r.NewEntity("b1", "e1", nil)
	c := &Context{Block: "b1", Elem: "e1", Runner: run}

	r.RenderMix(c, e, []MixItem{{Block: "b2", Elem: "e"}}, nil, false)

	if seen != (Identity{Block: "b2", Elem: "e"}) {
		t.Errorf("nested mix evaluated with %+v", seen)
	}
	if c.Block != "b1" || c.Elem != "e1" {
		t.Errorf("identity not restored: %s/%s", c.Block, c.Elem)
	}
}

func TestRenderMixKeepsCallerParams(t *testing.T) {
	r, run := newTestRenderer(RendererConfig{})
	e := r.NewEntity("b1", "", nil)
	c := &Context{Block: "b1", Runner: run}

	params := &JSParams{}
	params.Set("b1", map[string]any{})

	res := r.RenderMix(c, e, []MixItem{{Block: "b2", JS: true}}, params, false)
	if res.JSParams != params {
		t.Fatal("expected the existing params to be extended")
	}
	if got := params.Keys(); len(got) != 2 || got[0] != "b1" || got[1] != "b2" {
		t.Errorf("keys = %v", got)
	}
	if !res.AddJSInitClass {
		t.Error("expected init class for mixed block behavior")
	}
	if res.Out != " b2" {
		t.Errorf("Out = %q", res.Out)
	}
}
