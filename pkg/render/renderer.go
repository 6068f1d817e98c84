package render

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/bemhtml/pkg/naming"
)

// RendererConfig configures the HTML renderer. It is fixed at construction.
type RendererConfig struct {
	// XHTML closes void elements with "/>" instead of ">".
	XHTML bool `json:"xhtml,omitempty"`

	// ElemJSInstances adds the init marker class to every entity with a
	// block and a JS payload, elements included. By default only blocks
	// without an element get the marker.
	ElemJSInstances bool `json:"elemJsInstances,omitempty"`

	// OmitOptionalEndTags drops end tags the HTML spec marks as optional.
	OmitOptionalEndTags bool `json:"omitOptionalEndTags,omitempty"`

	// UnquotedAttrs leaves attribute values unquoted when that is safe.
	UnquotedAttrs bool `json:"unquotedAttrs,omitempty"`

	// Naming selects the class-name delimiters. Zero value is naming.Origin.
	Naming naming.Naming `json:"naming,omitempty"`

	// Logger receives debug output. If nil, slog.Default() is used.
	Logger *slog.Logger `json:"-"`
}

// InitClass marks nodes that carry client-side behavior.
const InitClass = "i-bem"

// Renderer serializes resolved BEM nodes to HTML.
//
// A Renderer holds no per-render state and may be shared between
// goroutines once all entities are registered. Register must not be called
// concurrently with rendering.
type Renderer struct {
	config         RendererConfig
	shortTagCloser string
	classes        *naming.Builder
	entities       map[string]*Entity
	logger         *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	closer := ">"
	if config.XHTML {
		closer = "/>"
	}
	return &Renderer{
		config:         config,
		shortTagCloser: closer,
		classes:        naming.NewBuilder(config.Naming),
		entities:       make(map[string]*Entity),
		logger:         logger,
	}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() RendererConfig {
	return r.config
}

// Classes returns the class-name builder.
func (r *Renderer) Classes() *naming.Builder {
	return r.classes
}

// NewEntity creates an entity using the renderer's naming scheme. The
// entity is not registered.
func (r *Renderer) NewEntity(block, elem string, mix MixFunc) *Entity {
	return NewEntity(r.classes, block, elem, mix)
}

// Register adds e to the entity table, replacing any entity with the same
// canonical key.
func (r *Renderer) Register(e *Entity) {
	r.entities[e.JSClass] = e
}

// Entity looks up a registered entity.
func (r *Renderer) Entity(block, elem string) *Entity {
	return r.entities[r.classes.Build(block, elem)]
}

// Render emits the element for entity e described by d.
func (r *Renderer) Render(c *Context, e *Entity, d Descriptor) string {
	tag := "div"
	if d.Tag != nil {
		tag = *d.Tag
	}
	if tag == "" {
		return r.renderNoTag(c, d.Content)
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)

	var jsParams *JSParams
	if js, ok := normalizeJS(d.JS); ok {
		jsParams = &JSParams{}
		jsParams.Set(e.JSClass, js)
	}

	isBEM := e.Block != "" || e.Elem != ""
	if d.Bem != nil {
		isBEM = *d.Bem
	}

	cls := d.Cls

	addJSInitClass := jsParams != nil && e.Block != "" &&
		(r.config.ElemJSInstances || e.Elem == "")

	if !isBEM && cls == "" {
		return r.renderClose(c, b.String(), tag, d.Attrs, isBEM, d.Content)
	}

	b.WriteString(" class=")
	var class strings.Builder
	if isBEM {
		class.WriteString(e.JSClass)
		if e.Elem != "" {
			class.WriteString(r.BuildModsClasses(e.Block, e.Elem, d.ElemMods))
		} else {
			class.WriteString(r.BuildModsClasses(e.Block, e.Elem, d.Mods))
		}

		if len(d.Mix) > 0 {
			m := r.RenderMix(c, e, d.Mix, jsParams, addJSInitClass)
			class.WriteString(m.Out)
			jsParams = m.JSParams
			addJSInitClass = m.AddJSInitClass
		}

		if cls != "" {
			class.WriteByte(' ')
			class.WriteString(strings.TrimSpace(AttrEscape(cls)))
		}
	} else {
		class.WriteString(strings.TrimSpace(AttrEscape(cls)))
	}

	if addJSInitClass {
		class.WriteByte(' ')
		class.WriteString(InitClass)
	}

	classValue := class.String()
	if r.config.UnquotedAttrs && IsUnquotedAttr(classValue) {
		b.WriteString(classValue)
	} else {
		b.WriteByte('"')
		b.WriteString(classValue)
		b.WriteByte('"')
	}

	if isBEM && jsParams != nil {
		data, err := EncodeJSON(jsParams)
		if err != nil {
			r.logger.Warn("data-bem payload not encodable",
				slog.String("entity", e.JSClass),
				slog.Any("error", err))
		} else {
			b.WriteString(" data-bem='")
			b.WriteString(JSAttrEscape(data))
			b.WriteByte('\'')
		}
	}

	return r.renderClose(c, b.String(), tag, d.Attrs, isBEM, d.Content)
}

// renderClose appends the attributes, the closing of the start tag, the
// content and the end tag to prefix.
func (r *Renderer) renderClose(c *Context, prefix, tag string, attrs Attrs, isBEM bool, content any) string {
	out := prefix + r.RenderAttrs(c, attrs)

	if IsShortTag(tag) {
		out += r.shortTagCloser
		out = c.flush(out)
	} else {
		out += ">"
		out = c.flush(out)

		if HasContent(content) {
			out += r.renderContent(c, content, isBEM)
		}

		if !r.config.OmitOptionalEndTags || !HasOptionalEndTag(tag) {
			out += "</" + tag + ">"
		}
	}

	return c.flush(out)
}

// renderContent renders the content of an element as a new list. Content
// of a BEM node starts its own position count.
func (r *Renderer) renderContent(c *Context, content any, isBEM bool) string {
	defer c.RestoreList(c.SaveList())

	c.NotNewList = false
	if isBEM {
		c.Position = 0
		c.ListLength = 1
	}

	return c.run(content)
}

// renderNoTag renders content without a wrapping element.
func (r *Renderer) renderNoTag(c *Context, content any) string {
	if HasContent(content) {
		return c.run(content)
	}
	return ""
}

// RenderAttrs renders attrs as a string of space-prefixed attributes.
// nil and false values are skipped and true renders a bare name.
// Non-primitive values are rendered through the context's Runner first.
func (r *Renderer) RenderAttrs(c *Context, attrs Attrs) string {
	if len(attrs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, attr := range attrs {
		if attr.Value == nil {
			continue
		}
		if v, ok := attr.Value.(bool); ok {
			if v {
				b.WriteByte(' ')
				b.WriteString(attr.Name)
			}
			continue
		}

		var val string
		if IsSimple(attr.Value) {
			val = ToString(attr.Value)
		} else {
			val = c.reapply(attr.Value)
		}

		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteByte('=')

		if r.config.UnquotedAttrs {
			if IsUnquotedAttr(val) {
				b.WriteString(val)
			} else {
				b.WriteByte('"')
				b.WriteString(val)
				b.WriteByte('"')
			}
		} else {
			b.WriteByte('"')
			b.WriteString(AttrEscape(val))
			b.WriteByte('"')
		}
	}
	return b.String()
}
