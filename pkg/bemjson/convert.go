package bemjson

import (
	"sort"

	"github.com/vango-dev/bemhtml/pkg/render"
)

// AsObject returns v as an *Object. Go maps are converted with sorted keys.
func AsObject(v any) (*Object, bool) {
	switch x := v.(type) {
	case *Object:
		return x, x != nil
	case map[string]any:
		return FromMap(x), true
	}
	return nil, false
}

// ToMods converts a mods mapping. A present but empty mapping yields an
// empty non-nil Mods; anything that is not a mapping yields nil.
func ToMods(v any) render.Mods {
	obj, ok := AsObject(v)
	if !ok {
		return nil
	}
	mods := make(render.Mods, 0, obj.Len())
	for _, key := range obj.Keys() {
		mods = append(mods, render.Mod{Name: key, Value: obj.Value(key)})
	}
	return mods
}

// ToAttrs converts an attrs mapping, keeping key order.
func ToAttrs(v any) render.Attrs {
	obj, ok := AsObject(v)
	if !ok {
		return nil
	}
	attrs := make(render.Attrs, 0, obj.Len())
	for _, key := range obj.Keys() {
		attrs = append(attrs, render.Attr{Name: key, Value: obj.Value(key)})
	}
	return attrs
}

// ToMix converts a mix field: a single item or a list of items. Strings
// are block names; falsy entries are skipped.
func ToMix(v any) []render.MixItem {
	if !render.Truthy(v) {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		list = []any{v}
	}

	items := make([]render.MixItem, 0, len(list))
	for _, entry := range list {
		if !render.Truthy(entry) {
			continue
		}
		if s, ok := entry.(string); ok {
			items = append(items, render.MixBlock(s))
			continue
		}
		if obj, ok := AsObject(entry); ok {
			items = append(items, ToMixItem(obj))
		}
	}
	return items
}

// ToMixItem converts one mix object.
func ToMixItem(obj *Object) render.MixItem {
	return render.MixItem{
		Block:    obj.String("block"),
		Elem:     obj.String("elem"),
		Mods:     ToMods(obj.Value("mods")),
		ElemMods: ToMods(obj.Value("elemMods")),
		JS:       obj.Value("js"),
	}
}

// ToBool converts a bem-like flag. Absent and nil give nil.
func ToBool(obj *Object, key string) *bool {
	v, ok := obj.Get(key)
	if !ok || v == nil {
		return nil
	}
	return render.Bool(render.Truthy(v))
}

// ToTag converts a tag field. An absent field gives nil. Null and other
// falsy values give "", which renders the node without a tag.
func ToTag(obj *Object, key string) *string {
	v, ok := obj.Get(key)
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		return render.String(s)
	}
	if !render.Truthy(v) {
		return render.String("")
	}
	return render.String(render.ToString(v))
}

// SortedKeys returns the keys of m in sorted order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
