package render

import (
	"bytes"
	"net/http/httptest"
	"reflect"
	"testing"
)

func streamingTree(r *Renderer) (*Entity, Descriptor) {
	page := r.NewEntity("page", "", nil)
	item := r.NewEntity("page", "item", nil)
	img := r.NewEntity("page", "img", nil)

	return page, Descriptor{
		JS:  true,
		Mix: []MixItem{MixBlock("theme")},
		Content: []any{
			node{entity: item, desc: Descriptor{Tag: String("p"), Content: "first"}},
			[]any{
				node{entity: img, desc: Descriptor{Tag: String("img"), Attrs: Attrs{{Name: "src", Value: "a.png"}}}},
				"text & more",
			},
			node{entity: item, desc: Descriptor{Content: []any{"a", 0, "b"}}},
		},
	}
}

func TestStreamingMatchesBufferedOutput(t *testing.T) {
	for _, config := range []RendererConfig{{}, {OmitOptionalEndTags: true}, {XHTML: true}} {
		r, run := newTestRenderer(config)
		e, d := streamingTree(r)

		buffered := r.Render(&Context{Block: "page", Runner: run}, e, d)

		var col Collector
		residual := r.Render(&Context{Block: "page", Runner: run, Flush: col.Flush}, e, d)

		if residual != "" {
			t.Errorf("residual = %q, want empty", residual)
		}
		if col.String() != buffered {
			t.Errorf("streamed %q, buffered %q", col.String(), buffered)
		}
		if len(col.Fragments) < 3 {
			t.Errorf("expected incremental fragments, got %v", col.Fragments)
		}
	}
}

func TestStreamingFragments(t *testing.T) {
	r, run := newTestRenderer(RendererConfig{})
	e := r.NewEntity("b1", "", nil)

	var col Collector
	r.Render(&Context{Runner: run, Flush: col.Flush}, e, Descriptor{Content: []any{"a", "b"}})

	want := []string{`<div class="b1">`, "a", "b", "</div>"}
	if !reflect.DeepEqual(col.Fragments, want) {
		t.Errorf("got %q, want %q", col.Fragments, want)
	}
}

func TestFlushWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	fw := NewFlushWriter(rec)

	r, run := newTestRenderer(RendererConfig{})
	e := r.NewEntity("b1", "", nil)
	out := r.Render(&Context{Runner: run, Flush: fw.Flush}, e, Descriptor{Content: "x"})

	if out != "" {
		t.Errorf("residual = %q", out)
	}
	if got := rec.Body.String(); got != `<div class="b1">x</div>` {
		t.Errorf("body = %q", got)
	}
	if !rec.Flushed {
		t.Error("expected http.Flusher to be called")
	}
	if fw.Chunks != 2 {
		t.Errorf("Chunks = %d, want 2", fw.Chunks)
	}
	if fw.Bytes != int64(rec.Body.Len()) {
		t.Errorf("Bytes = %d, want %d", fw.Bytes, rec.Body.Len())
	}
}

func TestFlushWriterEmptyIsNoop(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFlushWriter(&buf)

	for i := 0; i < 3; i++ {
		if got := fw.Flush(""); got != "" {
			t.Errorf("Flush(\"\") = %q", got)
		}
	}
	if fw.Chunks != 0 || buf.Len() != 0 {
		t.Errorf("empty flushes wrote %d chunks", fw.Chunks)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestFlushWriterKeepsFirstError(t *testing.T) {
	fw := NewFlushWriter(failingWriter{})
	fw.Flush("a")
	fw.Flush("b")

	if fw.Err() != bytes.ErrTooLarge {
		t.Errorf("Err() = %v", fw.Err())
	}
	if fw.Chunks != 0 {
		t.Errorf("Chunks = %d", fw.Chunks)
	}
}
