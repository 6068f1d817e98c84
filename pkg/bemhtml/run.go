package bemhtml

import (
	"fmt"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemjson"
	"github.com/vango-dev/bemhtml/pkg/render"
)

// rawHTML is content emitted without escaping.
type rawHTML string

// runner is the per-call execution state. It implements render.Runner.
type runner struct {
	engine *Engine

	// currBlock is the block an element falls back to when its parent is
	// a node without block or elem.
	currBlock string

	err error
}

// Run dispatches v: lists run as siblings, objects as BEM nodes and
// primitives as text.
func (r *runner) Run(c *render.Context, v any) string {
	if r.err != nil {
		return ""
	}

	switch x := v.(type) {
	case nil:
		c.ListLength--
		return ""
	case []any:
		return r.engine.renderer.RunMany(c, x)
	case rawHTML:
		c.ListLength--
		return string(x)
	}

	if node, ok := bemjson.AsObject(v); ok {
		if html, ok := rawNode(node); ok {
			c.ListLength--
			return html
		}
		return r.runOne(c, node)
	}

	if render.IsSimple(v) {
		return r.runSimple(c, v)
	}

	c.ListLength--
	r.engine.logger.Debug("unsupported content skipped", "type", fmt.Sprintf("%T", v))
	return ""
}

// Reapply renders v in a fresh context with no list state and no flush
// hook.
func (r *runner) Reapply(_ *render.Context, v any) string {
	prev := r.currBlock
	r.currBlock = ""
	defer func() { r.currBlock = prev }()

	return r.Run(&render.Context{ListLength: 1, Runner: r}, v)
}

func (r *runner) runSimple(c *render.Context, v any) string {
	if s, ok := v.(string); ok {
		if s == "" {
			c.ListLength--
			return ""
		}
		if r.engine.escape {
			return render.XMLEscape(s)
		}
		return s
	}
	if _, ok := v.(bool); ok || !render.HasContent(v) {
		c.ListLength--
		return ""
	}
	return render.ToString(v)
}

func (r *runner) runOne(c *render.Context, node *bemjson.Object) string {
	block := node.String("block")
	elem := node.String("elem")

	prevCtx := c.Ctx
	prevIdentity := c.SaveIdentity()
	prevMods, prevElemMods := c.Mods, c.ElemMods
	prevCurrBlock := r.currBlock
	defer func() {
		c.Ctx = prevCtx
		c.RestoreIdentity(prevIdentity)
		c.Mods, c.ElemMods = prevMods, prevElemMods
		r.currBlock = prevCurrBlock
	}()

	if block != "" || elem != "" {
		r.currBlock = ""
	} else {
		r.currBlock = c.Block
	}
	c.Ctx = node

	switch {
	case block != "":
		c.Block = block
		if mods := bemjson.ToMods(node.Value("mods")); mods != nil {
			c.Mods = mods
		} else if block != prevIdentity.Block || elem == "" {
			c.Mods = render.Mods{}
		}
	case elem == "":
		c.Block = ""
	case prevCurrBlock != "":
		c.Block = prevCurrBlock
	}

	c.Elem = elem
	if elemMods := bemjson.ToMods(node.Value("elemMods")); elemMods != nil {
		c.ElemMods = elemMods
	} else {
		c.ElemMods = render.Mods{}
	}

	if elem != "" && c.Block == "" {
		r.err = errors.New("B102").
			WithDetail(fmt.Sprintf("Elem %q has no block in scope.", elem))
		return ""
	}

	if c.Block != "" || c.Elem != "" {
		c.Position++
	} else {
		c.ListLength--
	}

	ent := r.engine.renderer.Entity(c.Block, c.Elem)
	if ent == nil {
		ent = r.engine.renderer.NewEntity(c.Block, c.Elem, nil)
	}
	return r.engine.renderer.Render(c, ent, r.describe(c, ent, node))
}

// describe merges the node's fields over the entity's template.
func (r *runner) describe(c *render.Context, ent *render.Entity, node *bemjson.Object) render.Descriptor {
	t := r.engine.templates[ent.JSClass]
	if t == nil {
		t = &Template{}
	}

	d := render.Descriptor{
		Tag:      t.Tag,
		JS:       t.JS,
		Bem:      t.Bem,
		Cls:      t.Cls,
		Content:  t.Content,
		Mods:     c.Mods,
		ElemMods: c.ElemMods,
	}

	if tag := bemjson.ToTag(node, "tag"); tag != nil {
		d.Tag = tag
	}
	if js := node.Value("js"); js != nil {
		d.JS = js
	}
	if bem := bemjson.ToBool(node, "bem"); bem != nil {
		d.Bem = bem
	}
	if cls := node.String("cls"); cls != "" {
		d.Cls = cls
	}

	if content, ok := node.Get("content"); ok {
		d.Content = content
	} else if html, ok := node.Value("html").(string); ok {
		d.Content = rawHTML(html)
	}

	d.Mix = append(d.Mix, t.Mix...)
	d.Mix = append(d.Mix, bemjson.ToMix(node.Value("mix"))...)

	d.Attrs = append(d.Attrs, t.Attrs...)
	for _, attr := range bemjson.ToAttrs(node.Value("attrs")) {
		d.Attrs = d.Attrs.Set(attr.Name, attr.Value)
	}

	return d
}

// rawNode reports whether node is a bare {html: "..."} node.
func rawNode(node *bemjson.Object) (string, bool) {
	html, ok := node.Value("html").(string)
	if !ok {
		return "", false
	}
	for _, key := range []string{"tag", "block", "elem", "cls", "attrs"} {
		if node.Has(key) {
			return "", false
		}
	}
	return html, true
}
