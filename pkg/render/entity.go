package render

import "github.com/vango-dev/bemhtml/pkg/naming"

// MixFunc returns the mix an entity declares for itself. It is evaluated
// with the context's Block and Elem set to the entity's identity.
type MixFunc func(c *Context) []MixItem

// Entity is a registered (block, elem) identity.
type Entity struct {
	Block string
	Elem  string

	// JSClass is the canonical class name of the entity. It is both its
	// CSS class and its key in data-bem.
	JSClass string

	// Mix is the entity's own declared mix, used when another node mixes
	// this entity in. May be nil.
	Mix MixFunc
}

// NewEntity creates an entity with its canonical class built by b.
func NewEntity(b *naming.Builder, block, elem string, mix MixFunc) *Entity {
	return &Entity{
		Block:   block,
		Elem:    elem,
		JSClass: b.Build(block, elem),
		Mix:     mix,
	}
}

func (e *Entity) mix(c *Context) []MixItem {
	if e.Mix == nil {
		return nil
	}
	defer c.RestoreIdentity(c.SaveIdentity())
	c.Block = e.Block
	c.Elem = e.Elem
	return e.Mix(c)
}
