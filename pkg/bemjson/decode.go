package bemjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"gopkg.in/yaml.v3"
)

// Format identifies a BEMJSON wire format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name. Empty means JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json", "bemjson":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "messagepack", "mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unsupported format %q", name)
}

// FormatFromContentType maps an HTTP Content-Type to a format.
func FormatFromContentType(contentType string) (Format, error) {
	if contentType == "" {
		return FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	switch mediaType {
	case "application/json", "text/json":
		return FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML, nil
	case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unsupported content type %q", mediaType)
}

// FormatFromPath guesses the format from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mp":
		return FormatMsgpack
	}
	return FormatJSON
}

// SyntaxError is a decode error with its position in the input. Line and
// Column are 1-based and zero when unknown; Offset is a byte offset, or -1.
type SyntaxError struct {
	Offset int64
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Offset >= 0:
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Position returns the line and column carried by err, or zeros.
func Position(err error) (line, column int) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Line, se.Column
	}
	return 0, 0
}

// LineColumn converts a byte offset in data to a 1-based line and column.
func LineColumn(data []byte, offset int64) (line, column int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:offset]
	line = 1 + bytes.Count(head, []byte{'\n'})
	column = len(head) - bytes.LastIndexByte(head, '\n')
	return line, column
}

// Decode decodes data in the given format.
func Decode(format Format, data []byte) (any, error) {
	switch format {
	case FormatJSON, "":
		v, err := DecodeJSON(bytes.NewReader(data))
		var se *SyntaxError
		if errors.As(err, &se) && se.Line == 0 {
			se.Line, se.Column = LineColumn(data, se.Offset)
		}
		return v, err
	case FormatYAML:
		return DecodeYAML(data)
	case FormatMsgpack:
		return DecodeMsgpack(data)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// DecodeJSON decodes a single JSON value from r.
func DecodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, &SyntaxError{Offset: dec.InputOffset(), Err: err}
	}
	offset := dec.InputOffset()
	if _, err := dec.Token(); err != io.EOF {
		return nil, &SyntaxError{Offset: offset, Err: fmt.Errorf("unexpected data after top-level value")}
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", keyTok)
			}
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// DecodeYAML decodes the first YAML document in data.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		se := &SyntaxError{Offset: -1, Err: err}
		fmt.Sscanf(err.Error(), "yaml: line %d:", &se.Line)
		return nil, se
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return fromYAML(&doc)
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])

	case yaml.AliasNode:
		return fromYAML(n.Alias)

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil

	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &SyntaxError{Offset: -1, Line: n.Line, Column: n.Column, Err: err}
		}
		return v, nil
	}

	return nil, &SyntaxError{
		Offset: -1,
		Line:   n.Line,
		Column: n.Column,
		Err:    fmt.Errorf("unsupported YAML node kind %d", n.Kind),
	}
}

// DecodeMsgpack decodes a single MessagePack value from data.
func DecodeMsgpack(data []byte) (any, error) {
	r := bytes.NewReader(data)
	v, err := decodeMsgpackValue(msgpack.NewDecoder(r))
	if err != nil {
		return nil, &SyntaxError{Offset: int64(len(data) - r.Len()), Err: err}
	}
	return v, nil
}

func decodeMsgpackValue(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		obj := NewObject()
		for i := 0; i < n; i++ {
			key, err := dec.DecodeInterface()
			if err != nil {
				return nil, err
			}
			v, err := decodeMsgpackValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(keyString(key), v)
		}
		return obj, nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		list := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := decodeMsgpackValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}

	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, err
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	}
	return fmt.Sprint(key)
}
