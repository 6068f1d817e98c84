package bemhtml

import "github.com/vango-dev/bemhtml/pkg/render"

// Options configures an Engine.
type Options struct {
	render.RendererConfig

	// EscapeContent XML-escapes text content. Defaults to true.
	EscapeContent *bool `json:"escapeContent,omitempty"`
}

func (o Options) escapeContent() bool {
	return o.EscapeContent == nil || *o.EscapeContent
}
