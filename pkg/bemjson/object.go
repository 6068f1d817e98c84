package bemjson

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vango-dev/bemhtml/pkg/render"
)

// Object is an ordered string-keyed mapping.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an Object from alternating key/value pairs.
//
//	bemjson.NewObject("block", "button", "content", "OK")
func NewObject(kv ...any) *Object {
	o := &Object{values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		o.Set(key, kv[i+1])
	}
	return o
}

// FromMap creates an Object from a Go map with keys in sorted order.
func FromMap(m map[string]any) *Object {
	o := &Object{values: make(map[string]any, len(m))}
	for _, k := range SortedKeys(m) {
		o.Set(k, m[k])
	}
	return o
}

// Set stores value under key. Re-setting a key keeps its position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (o *Object) Value(key string) any {
	v, _ := o.Get(key)
	return v
}

// Has reports whether key is present, even with a nil value.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// String returns the value under key if it is a string.
func (o *Object) String(key string) string {
	s, _ := o.Value(key).(string)
	return s
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := render.EncodeJSON(key)
		if err != nil {
			return nil, err
		}
		v, err := render.EncodeJSON(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var _ msgpack.CustomEncoder = (*Object)(nil)

// EncodeMsgpack implements msgpack.CustomEncoder, preserving key order.
func (o *Object) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(o.Len()); err != nil {
		return err
	}
	for _, key := range o.Keys() {
		if err := enc.EncodeString(key); err != nil {
			return err
		}
		if err := enc.Encode(o.values[key]); err != nil {
			return err
		}
	}
	return nil
}
