package render

import "strings"

// BuildModsClasses returns one class per modifier in mods, each preceded
// by a space. Modifiers with an empty name or a falsy value other than
// zero are skipped. With elem set the element-modifier form is used.
func (r *Renderer) BuildModsClasses(block, elem string, mods Mods) string {
	if len(mods) == 0 {
		return ""
	}

	var b strings.Builder
	for _, mod := range mods {
		if mod.Name == "" {
			continue
		}
		val, ok := modValue(mod.Value)
		if !ok {
			continue
		}

		b.WriteByte(' ')
		if elem != "" {
			b.WriteString(r.classes.BuildElemClass(block, elem, mod.Name, val))
		} else {
			b.WriteString(r.classes.BuildBlockClass(block, mod.Name, val))
		}
	}
	return b.String()
}

// modValue stringifies a modifier value. Boolean true maps to "", which the
// class builder renders as a modifier without a value. Lists and objects
// are converted like JavaScript converts them to strings.
func modValue(v any) (string, bool) {
	if !HasContent(v) {
		return "", false
	}
	if b, ok := v.(bool); ok && b {
		return "", true
	}
	return stringify(v), true
}

func stringify(v any) string {
	if IsSimple(v) {
		return ToString(v)
	}
	list, ok := v.([]any)
	if !ok {
		return "[object Object]"
	}
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = stringify(item)
	}
	return strings.Join(parts, ",")
}
