// Package bemhtml is a small BEMHTML execution engine.
//
// It walks a BEMJSON tree, tracks the BEM context of every node (block,
// element, modifiers, position among siblings) and hands each node to the
// HTML renderer in package render. Per-entity defaults come from
// registered templates:
//
//	engine := bemhtml.New(bemhtml.Options{})
//	engine.Register(bemhtml.Template{
//	    Block: "link",
//	    Tag:   render.String("a"),
//	})
//
//	tree, _ := bemjson.DecodeJSON(strings.NewReader(`{"block":"link","attrs":{"href":"/"},"content":"Home"}`))
//	html, err := engine.Apply(tree)
//	// <a class="link" href="/">Home</a>
//
// Templates can also be loaded from JSON or YAML files with
// LoadTemplatesFile.
//
// # Streaming
//
// Stream writes fragments to an io.Writer as soon as they are complete,
// flushing an http.ResponseWriter after each one. StreamFunc accepts any
// flush hook, and Component exposes a tree as a templ.Component.
package bemhtml
