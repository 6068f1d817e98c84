package render

import "strings"

// RunMany renders a sequence of sibling items.
//
// When a list is already in progress the items take the place of the one
// slot the sequence occupied in it; otherwise a new list is started. The
// caller's position is restored only by the call that started the list.
func (r *Renderer) RunMany(c *Context, items []any) string {
	prevPos := c.Position
	prevNotNewList := c.NotNewList

	if prevNotNewList {
		c.ListLength += len(items) - 1
	} else {
		c.Position = 0
		c.ListLength = len(items)
		defer func() {
			c.Position = prevPos
			c.NotNewList = prevNotNewList
		}()
	}
	c.NotNewList = true

	var b strings.Builder
	for _, item := range items {
		b.WriteString(c.flush(c.run(item)))
	}
	return b.String()
}
