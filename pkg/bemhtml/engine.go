package bemhtml

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/render"
)

// Engine renders BEMJSON trees to HTML.
//
// Templates are registered up front. After that an Engine is safe for
// concurrent use: every Apply or Stream call runs with its own context.
type Engine struct {
	renderer  *render.Renderer
	templates map[string]*Template
	escape    bool
	logger    *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.RendererConfig.Logger = logger

	return &Engine{
		renderer:  render.NewRenderer(opts.RendererConfig),
		templates: make(map[string]*Template),
		escape:    opts.escapeContent(),
		logger:    logger,
	}
}

// Renderer returns the underlying HTML renderer.
func (e *Engine) Renderer() *render.Renderer {
	return e.renderer
}

// Register adds a template. A later template for the same entity replaces
// the earlier one. Register must not be called concurrently with
// rendering.
func (e *Engine) Register(t Template) error {
	if t.Block == "" {
		err := errors.New("B101")
		if t.Elem != "" {
			err.WithDetail(fmt.Sprintf("The template for elem %q has no block.", t.Elem))
		}
		return err
	}

	ent := e.renderer.NewEntity(t.Block, t.Elem, nil)
	if len(t.Mix) > 0 {
		mix := append([]render.MixItem(nil), t.Mix...)
		ent.Mix = func(*render.Context) []render.MixItem {
			return append([]render.MixItem(nil), mix...)
		}
	}
	e.renderer.Register(ent)
	e.templates[ent.JSClass] = &t

	e.logger.Debug("template registered",
		slog.String("entity", ent.JSClass),
		slog.Int("mix", len(t.Mix)))
	return nil
}

// Template returns the template registered for (block, elem).
func (e *Engine) Template(block, elem string) (Template, bool) {
	t, ok := e.templates[e.renderer.Classes().Build(block, elem)]
	if !ok {
		return Template{}, false
	}
	return *t, true
}

// Apply renders tree to a string.
func (e *Engine) Apply(tree any) (string, error) {
	return e.apply(tree, nil)
}

// StreamFunc renders tree, passing every completed fragment to flush.
// Output produced before an error has already been flushed.
func (e *Engine) StreamFunc(tree any, flush func(out string) string) error {
	rest, err := e.apply(tree, flush)
	if err != nil {
		return err
	}
	flush(rest)
	return nil
}

// Stream renders tree to w, writing fragments as they complete. When w is
// an http.Flusher each fragment is flushed to the client.
func (e *Engine) Stream(w io.Writer, tree any) error {
	fw := render.NewFlushWriter(w)
	if err := e.StreamFunc(tree, fw.Flush); err != nil {
		return err
	}
	return fw.Err()
}

// Component adapts tree to a templ component, so BEM output can be
// embedded into templ pages.
func (e *Engine) Component(tree any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return e.Stream(w, tree)
	})
}

func (e *Engine) apply(tree any, flush func(string) string) (string, error) {
	r := &runner{engine: e}
	c := &render.Context{
		ListLength: 1,
		Flush:      flush,
		Runner:     r,
	}
	out := r.Run(c, tree)
	if r.err != nil {
		return "", r.err
	}
	return out, nil
}
