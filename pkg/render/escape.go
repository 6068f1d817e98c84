package render

import "strings"

// XMLEscape escapes text content: & < >.
func XMLEscape(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// AttrEscape escapes a value placed inside a double-quoted attribute: & < > ".
func AttrEscape(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// JSAttrEscape escapes a value placed inside a single-quoted attribute,
// such as the JSON payload of data-bem: & '.
func JSAttrEscape(s string) string {
	if !strings.ContainsAny(s, "&'") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// IsUnquotedAttr reports whether s may be written as an attribute value
// without quotes. Empty values and values containing whitespace, quotes,
// '=', '<', '>', '`' or '&' must be quoted.
func IsUnquotedAttr(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '"', '\'', '=', '<', '>', '`', '&':
			return false
		}
	}
	return true
}
