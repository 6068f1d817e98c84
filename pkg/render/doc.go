// Package render serializes resolved BEM nodes to HTML.
//
// It is the core of the BEMHTML engine. Given an entity (block, element)
// and a Descriptor produced by template resolution, the Renderer emits
// valid, minimal HTML:
//
//   - BEM class names composed from block, element and modifiers
//   - classes and behaviors merged from mixed entities
//   - a data-bem attribute carrying the JS behavior payload
//   - escaped and optionally unquoted attributes
//   - void elements and optional end tags
//   - incremental output through a flush hook
//
// # Basic Usage
//
//	r := render.NewRenderer(render.RendererConfig{})
//	e := r.NewEntity("button", "", nil)
//	c := &render.Context{Block: "button"}
//	html := r.Render(c, e, render.Descriptor{
//	    Tag:  render.String("button"),
//	    Mods: render.Mods{{Name: "size", Value: "m"}},
//	    JS:   true,
//	})
//	// <button class="button button_size_m i-bem" data-bem='{"button":{}}'></button>
//
// Content is rendered through Context.Runner, which is normally the
// execution engine in package bemhtml.
//
// # Streaming
//
// When Context.Flush is set, every completed fragment is passed to it as
// soon as it exists. FlushWriter adapts an io.Writer (and http.Flusher)
// into such a hook:
//
//	fw := render.NewFlushWriter(w)
//	c := &render.Context{Flush: fw.Flush, Runner: engine}
//
// # Concurrency
//
// A Renderer is safe for concurrent use once all entities are registered.
// A Context belongs to exactly one render call.
package render
