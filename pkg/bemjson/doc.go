// Package bemjson decodes BEMJSON trees.
//
// A BEMJSON tree is the input data of a BEMHTML render: nested objects
// with block, elem, mods, elemMods, mix, attrs, js, tag, cls, bem, content
// and html fields, plus plain strings, numbers and lists.
//
// Key order matters in BEMJSON (it decides the order of modifier classes,
// attributes and data-bem keys), so objects decode to *Object, an ordered
// mapping, rather than to a Go map. Three wire formats are supported:
//
//	tree, err := bemjson.DecodeJSON(r)
//	tree, err := bemjson.DecodeYAML(data)
//	tree, err := bemjson.DecodeMsgpack(data)
//
// Arrays decode to []any, numbers from JSON to json.Number, and scalars
// from YAML and MessagePack to their natural Go types.
package bemjson
