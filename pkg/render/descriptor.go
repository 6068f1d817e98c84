package render

// Descriptor is the resolved per-node input of Render.
type Descriptor struct {
	// Tag is the element name. nil renders a div; an empty string renders
	// the content without a wrapping element.
	Tag *string

	// JS is the behavior payload: true, an object, or nil/false for none.
	JS any

	// Bem forces the BEM class machinery on or off. nil means "on when the
	// entity has a block or an element".
	Bem *bool

	// Cls is a free-form extra class.
	Cls string

	// Mix lists the entities mixed onto this node.
	Mix []MixItem

	// Attrs are the remaining HTML attributes.
	Attrs Attrs

	// Content is rendered by the execution engine.
	Content any

	// Mods and ElemMods are the block and element modifiers.
	Mods     Mods
	ElemMods Mods
}

// MixItem attaches another entity's classes and behavior to a node.
type MixItem struct {
	Block    string
	Elem     string
	Mods     Mods
	ElemMods Mods
	JS       any

	// block and elem are inherited from the entity whose declared mix
	// produced this item.
	block string
	elem  string
}

// MixBlock is the shorthand for mixing a whole block.
func MixBlock(block string) MixItem {
	return MixItem{Block: block}
}

// String returns a pointer to s, for Descriptor.Tag.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for Descriptor.Bem.
func Bool(b bool) *bool {
	return &b
}
