package render

import (
	"log/slog"
	"strings"
)

// MixResult is the outcome of RenderMix.
type MixResult struct {
	// Out is the class fragment contributed by the mix, space-prefixed.
	Out string

	// JSParams is the behavior mapping, possibly created or extended.
	JSParams *JSParams

	// AddJSInitClass reports whether the init marker class is needed.
	AddJSInitClass bool
}

// RenderMix merges the classes and behaviors of the entities mixed onto e.
//
// Items are processed from a work queue seeded with mix. When an item names
// a registered entity, the items of that entity's own mix that do not name
// a block are queued as well, inheriting the entity's identity. A visited
// set seeded with e guarantees every entity is expanded at most once, so
// cyclic mix graphs terminate. Each class token is written at most once.
func (r *Renderer) RenderMix(c *Context, e *Entity, mix []MixItem, jsParams *JSParams, addJSInitClass bool) MixResult {
	visited := map[string]bool{e.JSClass: true}
	emitted := map[string]bool{e.JSClass: true}
	js := jsParams
	addInit := addJSInitClass

	queue := make([]MixItem, len(mix))
	copy(queue, mix)

	var out strings.Builder
	for i := 0; i < len(queue); i++ {
		item := queue[i]

		hasItem := false
		if item.Elem != "" {
			hasItem = item.Elem != e.Elem && item.Elem != c.Elem ||
				item.Block != "" && item.Block != e.Block
		} else if item.Block != "" {
			hasItem = !(item.Block == e.Block && item.Mods != nil) ||
				item.Mods != nil && e.Elem != ""
		}

		block := firstNonEmpty(item.Block, item.block, c.Block)
		elem := firstNonEmpty(item.Elem, item.elem, c.Elem)
		key := r.classes.Build(block, elem)

		classElem := firstNonEmpty(item.Elem, item.elem)
		if classElem == "" && item.Block == "" {
			classElem = c.Elem
		}
		if hasItem {
			writeClass(&out, emitted, r.classes.Build(block, classElem))
		}

		mods := item.Mods
		if item.Elem != "" || item.Block == "" && firstNonEmpty(item.elem, c.Elem) != "" {
			mods = item.ElemMods
		}
		for _, class := range strings.Fields(r.BuildModsClasses(block, classElem, mods)) {
			writeClass(&out, emitted, class)
		}

		if payload, ok := normalizeJS(item.JS); ok {
			if js == nil {
				js = &JSParams{}
			}
			js.Set(r.classes.Build(block, item.Elem), payload)
			if !addInit {
				addInit = block != "" && item.Elem == ""
			}
		}

		if !hasItem {
			continue
		}
		if visited[key] {
			r.logger.Debug("mix entity already merged", slog.String("entity", key))
			continue
		}
		visited[key] = true

		nested := r.entities[key]
		if nested == nil {
			continue
		}

		for _, n := range nested.mix(c) {
			if n.Block != "" {
				continue
			}
			if n.Elem != "" && visited[r.classes.Build("", n.Elem)] {
				continue
			}
			n.block = block
			n.elem = elem
			queue = append(queue, n)
		}
	}

	return MixResult{
		Out:            out.String(),
		JSParams:       js,
		AddJSInitClass: addInit,
	}
}

// writeClass appends class unless the mix already produced it.
func writeClass(out *strings.Builder, emitted map[string]bool, class string) {
	if emitted[class] {
		return
	}
	emitted[class] = true
	out.WriteByte(' ')
	out.WriteString(class)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
