package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mod is one modifier of a block or an element.
type Mod struct {
	Name  string
	Value any
}

// Mods is an ordered modifier mapping. A nil Mods means "no modifiers were
// given"; an empty non-nil Mods means "an empty mapping was given".
type Mods []Mod

// Get returns the value of the named modifier.
func (m Mods) Get(name string) (any, bool) {
	for _, mod := range m {
		if mod.Name == name {
			return mod.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the named modifier or appends it.
func (m Mods) Set(name string, value any) Mods {
	for i := range m {
		if m[i].Name == name {
			m[i].Value = value
			return m
		}
	}
	return append(m, Mod{Name: name, Value: value})
}

// Attr is one HTML attribute.
type Attr struct {
	Name  string
	Value any
}

// Attrs is an ordered attribute mapping, rendered in insertion order.
type Attrs []Attr

// Get returns the value of the named attribute.
func (a Attrs) Get(name string) (any, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the named attribute or appends it.
func (a Attrs) Set(name string, value any) Attrs {
	for i := range a {
		if a[i].Name == name {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Name: name, Value: value})
}

// JSParams maps JS behavior keys to their payloads. It keeps the order in
// which keys were first set, so the data-bem JSON is stable.
type JSParams struct {
	keys   []string
	values map[string]any
}

// Set stores the payload for key. Re-setting a key keeps its position.
func (p *JSParams) Set(key string, payload any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = payload
}

// Get returns the payload stored for key.
func (p *JSParams) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (p *JSParams) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys.
func (p *JSParams) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// MarshalJSON implements json.Marshaler.
func (p *JSParams) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, key := range p.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := EncodeJSON(key)
			if err != nil {
				return nil, err
			}
			buf.WriteString(k)
			buf.WriteByte(':')
			v, err := EncodeJSON(p.values[key])
			if err != nil {
				return nil, err
			}
			buf.WriteString(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON encodes v the way a browser's JSON.stringify would: HTML
// characters are left as is and there is no trailing newline.
func EncodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// normalizeJS turns a js field into a payload: true becomes an empty
// object, falsy values mean no payload.
func normalizeJS(js any) (any, bool) {
	if b, ok := js.(bool); ok && b {
		return map[string]any{}, true
	}
	if !Truthy(js) {
		return nil, false
	}
	return js, true
}

// IsSimple reports whether v is a primitive: nil, string, bool or number.
func IsSimple(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Truthy follows the truthiness rules of the data formats BEM trees come
// from: nil, false, "", 0 and NaN are falsy; everything else is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// HasContent reports whether content should be rendered: truthy values and
// the number zero.
func HasContent(v any) bool {
	if Truthy(v) {
		return true
	}
	f, ok := toFloat(v)
	return ok && f == 0
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToString converts a primitive to its string form. Numbers are formatted
// the way JavaScript formats them.
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return formatNumber(f)
		}
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	}
	if f, ok := toFloat(v); ok {
		return formatNumber(f)
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'g', -1, 64)
		// Go pads exponents to two digits ("1e-07"), JavaScript does not.
		s = strings.Replace(s, "e-0", "e-", 1)
		s = strings.Replace(s, "e+0", "e+", 1)
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
