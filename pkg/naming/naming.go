// Package naming builds canonical BEM class names.
//
// A class name encodes a block, an optional element inside that block and an
// optional modifier with an optional value:
//
//	block
//	block__elem
//	block_mod
//	block_mod_val
//	block__elem_mod_val
//
// The delimiters are configurable through Naming. Origin is the classic
// scheme shown above; TwoDashes uses "--" between an entity and its modifier.
package naming

// Naming holds the delimiters used to join the parts of a class name.
type Naming struct {
	// Elem separates a block from its element (default "__").
	Elem string `json:"elem,omitempty"`

	// Mod separates an entity from a modifier name (default "_").
	Mod string `json:"mod,omitempty"`

	// ModVal separates a modifier name from its value (default: Mod).
	ModVal string `json:"modVal,omitempty"`
}

var (
	// Origin is the default BEM naming scheme: block__elem_mod_val.
	Origin = Naming{Elem: "__", Mod: "_", ModVal: "_"}

	// TwoDashes is the "two dashes" scheme: block__elem--mod_val.
	TwoDashes = Naming{Elem: "__", Mod: "--", ModVal: "_"}
)

// Preset names accepted by Preset.
const (
	PresetOrigin    = "origin"
	PresetTwoDashes = "two-dashes"
)

// Preset returns a named naming scheme. Unknown names return Origin and false.
func Preset(name string) (Naming, bool) {
	switch name {
	case "", PresetOrigin:
		return Origin, true
	case PresetTwoDashes:
		return TwoDashes, true
	default:
		return Origin, false
	}
}

// Builder turns (block, elem, mod, val) tuples into class names.
// The zero value uses the Origin scheme.
type Builder struct {
	elem   string
	mod    string
	modVal string
}

// NewBuilder creates a Builder for n, filling empty delimiters from Origin.
func NewBuilder(n Naming) *Builder {
	b := &Builder{elem: n.Elem, mod: n.Mod, modVal: n.ModVal}
	if b.elem == "" {
		b.elem = Origin.Elem
	}
	if b.mod == "" {
		b.mod = Origin.Mod
	}
	if b.modVal == "" {
		b.modVal = b.mod
	}
	return b
}

func (b *Builder) delims() (elem, mod, modVal string) {
	if b == nil || b.elem == "" {
		return Origin.Elem, Origin.Mod, Origin.ModVal
	}
	return b.elem, b.mod, b.modVal
}

// Build returns the class of a block or of an element of that block.
func (b *Builder) Build(block, elem string) string {
	if elem == "" {
		return block
	}
	e, _, _ := b.delims()
	return block + e + elem
}

// BuildBlockClass returns the class of a block modifier.
// An empty val denotes a boolean modifier and renders without a value part.
func (b *Builder) BuildBlockClass(block, mod, val string) string {
	return block + b.modPostfix(mod, val)
}

// BuildElemClass returns the class of an element modifier.
// An empty val denotes a boolean modifier and renders without a value part.
func (b *Builder) BuildElemClass(block, elem, mod, val string) string {
	return b.Build(block, elem) + b.modPostfix(mod, val)
}

func (b *Builder) modPostfix(mod, val string) string {
	_, m, mv := b.delims()
	if val == "" {
		return m + mod
	}
	return m + mod + mv + val
}
