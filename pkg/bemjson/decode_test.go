package bemjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestDecodeJSONKeepsKeyOrder(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`{"block":"b1","mods":{"z":1,"a":true},"content":["x",2]}`))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("DecodeJSON() = %T, want *Object", v)
	}
	if got := strings.Join(obj.Keys(), ","); got != "block,mods,content" {
		t.Errorf("keys = %q", got)
	}
	mods, _ := obj.Value("mods").(*Object)
	if got := strings.Join(mods.Keys(), ","); got != "z,a" {
		t.Errorf("mods keys = %q", got)
	}
	content, _ := obj.Value("content").([]any)
	if len(content) != 2 || content[0] != "x" || content[1] != json.Number("2") {
		t.Errorf("content = %#v", content)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []string{
		``,
		`{"block":}`,
		`{"block":"b1"} {"block":"b2"}`,
		`[1,2`,
	}
	for _, input := range tests {
		if _, err := DecodeJSON(strings.NewReader(input)); err == nil {
			t.Errorf("DecodeJSON(%q) expected error", input)
		}
	}
}

func TestDecodeErrorPosition(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		input    string
		wantLine int
	}{
		{"json literal", FormatJSON, "{\n  \"block\": \"b\",\n  \"tag\": nope\n}", 3},
		{"json trailing", FormatJSON, "{\"block\": \"b\"}\n\n{}", 1},
		{"yaml mapping", FormatYAML, "block: b\n  tag: p\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.format, []byte(tt.input))
			if err == nil {
				t.Fatal("Decode() expected error")
			}
			line, _ := Position(err)
			if line != tt.wantLine {
				t.Errorf("Position() line = %d, want %d (%v)", line, tt.wantLine, err)
			}
		})
	}

	_, err := DecodeMsgpack([]byte{0x81, 0xa1})
	var se *SyntaxError
	if !errors.As(err, &se) || se.Offset < 0 {
		t.Errorf("DecodeMsgpack() error = %v, want SyntaxError with offset", err)
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 2},
		{99, 2, 3},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		line, col := LineColumn(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("LineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	input := `
block: page
mods:
  theme: dark
  visible: true
content:
  - block: link
    attrs:
      href: /home
  - 42
  - null
`
	v, err := DecodeYAML([]byte(input))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	obj := v.(*Object)
	if obj.String("block") != "page" {
		t.Errorf("block = %v", obj.Value("block"))
	}
	mods := ToMods(obj.Value("mods"))
	if len(mods) != 2 || mods[0].Name != "theme" || mods[1].Value != true {
		t.Errorf("mods = %#v", mods)
	}
	content := obj.Value("content").([]any)
	if len(content) != 3 {
		t.Fatalf("content = %#v", content)
	}
	if content[1] != 42 {
		t.Errorf("content[1] = %#v, want 42", content[1])
	}
	if content[2] != nil {
		t.Errorf("content[2] = %#v, want nil", content[2])
	}
}

func TestDecodeYAMLAlias(t *testing.T) {
	input := `
defaults: &d
  block: icon
content:
  - *d
  - *d
`
	v, err := DecodeYAML([]byte(input))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	content := v.(*Object).Value("content").([]any)
	for i, item := range content {
		if item.(*Object).String("block") != "icon" {
			t.Errorf("content[%d] = %#v", i, item)
		}
	}
}

func TestDecodeYAMLEmpty(t *testing.T) {
	v, err := DecodeYAML(nil)
	if err != nil || v != nil {
		t.Errorf("DecodeYAML(nil) = %v, %v", v, err)
	}
}

func TestDecodeMsgpackKeepsKeyOrder(t *testing.T) {
	tree := NewObject(
		"block", "b1",
		"mods", NewObject("z", 1, "a", true),
		"content", []any{"x", NewObject("elem", "e1")},
	)
	data, err := msgpack.Marshal(tree)
	if err != nil {
		t.Fatalf("msgpack.Marshal() error = %v", err)
	}

	v, err := DecodeMsgpack(data)
	if err != nil {
		t.Fatalf("DecodeMsgpack() error = %v", err)
	}
	obj := v.(*Object)
	if got := strings.Join(obj.Keys(), ","); got != "block,mods,content" {
		t.Errorf("keys = %q", got)
	}
	if got := strings.Join(obj.Value("mods").(*Object).Keys(), ","); got != "z,a" {
		t.Errorf("mods keys = %q", got)
	}
	content := obj.Value("content").([]any)
	if content[0] != "x" || content[1].(*Object).String("elem") != "e1" {
		t.Errorf("content = %#v", content)
	}
}

func TestDecodeFormats(t *testing.T) {
	want := `{"block":"b1","content":"hi"}`
	jsonData := []byte(want)
	yamlData := []byte("block: b1\ncontent: hi\n")
	msgpackData, err := msgpack.Marshal(NewObject("block", "b1", "content", "hi"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format Format
		data   []byte
	}{
		{FormatJSON, jsonData},
		{FormatYAML, yamlData},
		{FormatMsgpack, msgpackData},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			v, err := Decode(tt.format, tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			got, err := json.Marshal(v)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != want {
				t.Errorf("Decode() = %s, want %s", got, want)
			}
		})
	}

	if _, err := Decode("xml", nil); err == nil {
		t.Error("Decode(xml) expected error")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"msgpack", FormatMsgpack, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"application/json; charset=utf-8", FormatJSON, false},
		{"application/x-yaml", FormatYAML, false},
		{"application/msgpack", FormatMsgpack, false},
		{"text/html", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromContentType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromContentType(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"page.bemjson.json": FormatJSON,
		"page.yaml":         FormatYAML,
		"page.YML":          FormatYAML,
		"page.msgpack":      FormatMsgpack,
		"page":              FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestObjectMarshalJSON(t *testing.T) {
	obj := NewObject("b", "<x>", "a", []any{1, NewObject()})
	obj.Set("b", "&")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"b":"&","a":[1,{}]}` {
		t.Errorf("Marshal = %s", got)
	}
}
