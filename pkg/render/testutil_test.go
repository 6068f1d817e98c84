package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/bemhtml/pkg/naming"
	"golang.org/x/net/html"
)

// node is a resolved entity plus descriptor, rendered by testRunner.
type node struct {
	entity *Entity
	desc   Descriptor
}

// testRunner is a minimal execution engine: strings are escaped, slices
// run as lists and nodes are rendered with their identity pushed.
type testRunner struct {
	r *Renderer

	// positions records (jsClass, position, listLength) per rendered node.
	positions []string
}

func (t *testRunner) Run(c *Context, v any) string {
	switch x := v.(type) {
	case string:
		return XMLEscape(x)
	case []any:
		return t.r.RunMany(c, x)
	case node:
		defer c.RestoreIdentity(c.SaveIdentity())
		c.Block = x.entity.Block
		c.Elem = x.entity.Elem
		if x.entity.Block != "" || x.entity.Elem != "" {
			c.Position++
		} else {
			c.ListLength--
		}
		t.positions = append(t.positions, x.entity.JSClass+":"+itoa(c.Position)+"/"+itoa(c.ListLength))
		return t.r.Render(c, x.entity, x.desc)
	}
	if IsSimple(v) && HasContent(v) {
		return ToString(v)
	}
	return ""
}

func (t *testRunner) Reapply(c *Context, v any) string {
	return t.Run(&Context{Runner: t}, v)
}

func itoa(i int) string {
	return ToString(i)
}

func newTestRenderer(config RendererConfig) (*Renderer, *testRunner) {
	r := NewRenderer(config)
	return r, &testRunner{r: r}
}

// assertWellFormed checks that s tokenizes as HTML with balanced
// non-void elements.
func assertWellFormed(t *testing.T, s string) {
	t.Helper()

	z := html.NewTokenizer(strings.NewReader(s))
	var stack []string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if len(stack) != 0 {
				t.Fatalf("unclosed elements %v in %q", stack, s)
			}
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			if !IsShortTag(string(name)) {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				t.Fatalf("unexpected </%s> in %q", name, s)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func extractAttrValue(t *testing.T, s string, attr string) string {
	t.Helper()

	needle := attr + "="
	idx := strings.Index(s, needle)
	if idx == -1 {
		t.Fatalf("expected %q in %q", needle, s)
	}

	start := idx + len(needle)
	if start >= len(s) {
		t.Fatalf("malformed attribute %q in %q", attr, s)
	}

	quote := s[start]
	if quote != '"' && quote != '\'' {
		t.Fatalf("expected quote for %q in %q", attr, s)
	}
	start++

	endRel := strings.IndexByte(s[start:], quote)
	if endRel == -1 {
		t.Fatalf("unterminated attribute %q in %q", attr, s)
	}

	return s[start : start+endRel]
}

var naming2Dashes = naming.TwoDashes
