package render

// Runner is the execution engine the renderer calls back into for content,
// list items and non-primitive attribute values.
type Runner interface {
	// Run renders v within c, extending the current sibling list and
	// stream.
	Run(c *Context, v any) string

	// Reapply renders v from scratch, detached from c's list bookkeeping
	// and flush hook. The result is embedded into an attribute value.
	Reapply(c *Context, v any) string
}

// Context is the mutable state shared by one render call. It is owned by
// the execution engine and must not be used from more than one goroutine.
type Context struct {
	// Block and Elem identify the entity currently being rendered.
	Block string
	Elem  string

	// Mods and ElemMods are the modifiers in scope for Block and Elem.
	Mods     Mods
	ElemMods Mods

	// Ctx is the current data node.
	Ctx any

	// Position is the 1-based index of the current node among its siblings.
	Position int

	// ListLength is the number of siblings in the current list.
	ListLength int

	// NotNewList is set while a list is being rendered, so nested lists
	// extend it instead of starting a new one.
	NotNewList bool

	// Flush, when set, consumes completed output and returns the part it
	// did not consume. It must return "" for "".
	Flush func(out string) string

	// Runner renders content. A nil Runner renders primitives only.
	Runner Runner
}

// IsFirst reports whether the current node is the first in its list.
func (c *Context) IsFirst() bool {
	return c.Position == 1
}

// IsLast reports whether the current node is the last in its list.
func (c *Context) IsLast() bool {
	return c.Position == c.ListLength
}

// CanFlush reports whether streaming is enabled for this context.
func (c *Context) CanFlush() bool {
	return c.Flush != nil
}

func (c *Context) flush(out string) string {
	if c.Flush == nil {
		return out
	}
	return c.Flush(out)
}

func (c *Context) run(v any) string {
	if c.Runner == nil {
		return plainRunner{}.Run(c, v)
	}
	return c.Runner.Run(c, v)
}

func (c *Context) reapply(v any) string {
	if c.Runner == nil {
		return plainRunner{}.Reapply(c, v)
	}
	return c.Runner.Reapply(c, v)
}

// ListState is a snapshot of the sibling-list bookkeeping of a Context.
type ListState struct {
	Position   int
	ListLength int
	NotNewList bool
}

// SaveList captures the list bookkeeping. Pair it with RestoreList:
//
//	defer c.RestoreList(c.SaveList())
func (c *Context) SaveList() ListState {
	return ListState{
		Position:   c.Position,
		ListLength: c.ListLength,
		NotNewList: c.NotNewList,
	}
}

// RestoreList resets the list bookkeeping to s.
func (c *Context) RestoreList(s ListState) {
	c.Position = s.Position
	c.ListLength = s.ListLength
	c.NotNewList = s.NotNewList
}

// Identity is a snapshot of the block/elem identity of a Context.
type Identity struct {
	Block string
	Elem  string
}

// SaveIdentity captures Block and Elem. Pair it with RestoreIdentity.
func (c *Context) SaveIdentity() Identity {
	return Identity{Block: c.Block, Elem: c.Elem}
}

// RestoreIdentity resets Block and Elem to id.
func (c *Context) RestoreIdentity(id Identity) {
	c.Block = id.Block
	c.Elem = id.Elem
}

// plainRunner renders primitives and plain lists without an engine.
type plainRunner struct{}

func (plainRunner) Run(c *Context, v any) string {
	switch x := v.(type) {
	case string:
		return XMLEscape(x)
	case bool:
		return ""
	case []any:
		out := ""
		for _, item := range x {
			out += plainRunner{}.Run(c, item)
		}
		return out
	}
	if IsSimple(v) && HasContent(v) {
		return ToString(v)
	}
	return ""
}

func (p plainRunner) Reapply(c *Context, v any) string {
	return p.Run(c, v)
}
