package bemhtml

import (
	"fmt"
	"os"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemjson"
	"github.com/vango-dev/bemhtml/pkg/render"
)

// Template holds the static defaults of one entity. Fields set on a data
// node take precedence over the template, except Mix and Attrs, which are
// merged with the node's.
type Template struct {
	Block string
	Elem  string

	Tag     *string
	JS      any
	Bem     *bool
	Cls     string
	Mix     []render.MixItem
	Attrs   render.Attrs
	Content any
}

// TemplateFromObject converts a decoded template object.
func TemplateFromObject(obj *bemjson.Object) Template {
	return Template{
		Block:   obj.String("block"),
		Elem:    obj.String("elem"),
		Tag:     bemjson.ToTag(obj, "tag"),
		JS:      obj.Value("js"),
		Bem:     bemjson.ToBool(obj, "bem"),
		Cls:     obj.String("cls"),
		Mix:     bemjson.ToMix(obj.Value("mix")),
		Attrs:   bemjson.ToAttrs(obj.Value("attrs")),
		Content: obj.Value("content"),
	}
}

// LoadTemplates registers the templates in data. The document is a list of
// template objects or a single one.
func (e *Engine) LoadTemplates(format bemjson.Format, data []byte) error {
	doc, err := bemjson.Decode(format, data)
	if err != nil {
		return errors.New("B201").Wrap(err)
	}

	var list []any
	switch x := doc.(type) {
	case nil:
		return nil
	case []any:
		list = x
	case *bemjson.Object:
		list = []any{x}
	default:
		return errors.New("B103")
	}

	for i, item := range list {
		obj, ok := item.(*bemjson.Object)
		if !ok {
			return errors.New("B103").
				WithDetail(fmt.Sprintf("Template #%d is a %T, not an object.", i+1, item))
		}
		if err := e.Register(TemplateFromObject(obj)); err != nil {
			if be, ok := err.(*errors.Error); ok {
				be.WithSuggestion(fmt.Sprintf("Add a block field to template #%d", i+1))
			}
			return err
		}
	}
	return nil
}

// LoadTemplatesFile registers the templates in a JSON, YAML or MessagePack
// file. The format is chosen by extension.
func (e *Engine) LoadTemplatesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Newf(errors.CategoryTemplate, "cannot read templates %s", path).Wrap(err)
	}
	if err := e.LoadTemplates(bemjson.FormatFromPath(path), data); err != nil {
		if be, ok := err.(*errors.Error); ok && be.Location == nil {
			line, column := bemjson.Position(err)
			be.WithLocation(path, line, column)
		}
		return err
	}
	return nil
}
