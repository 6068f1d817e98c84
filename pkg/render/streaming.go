package render

import (
	"io"
	"net/http"
)

// FlushWriter turns an io.Writer into a Context flush hook. Every chunk is
// written through immediately and, when the writer implements
// http.Flusher, pushed to the client.
type FlushWriter struct {
	w       io.Writer
	flusher http.Flusher
	err     error

	// Chunks counts the non-empty fragments written.
	Chunks int

	// Bytes counts the bytes written.
	Bytes int64
}

// NewFlushWriter creates a FlushWriter for w.
func NewFlushWriter(w io.Writer) *FlushWriter {
	flusher, _ := w.(http.Flusher)
	return &FlushWriter{w: w, flusher: flusher}
}

// Flush writes out and reports everything as consumed. After the first
// write error further output is dropped; see Err.
func (f *FlushWriter) Flush(out string) string {
	if out == "" || f.err != nil {
		return ""
	}
	n, err := io.WriteString(f.w, out)
	f.Bytes += int64(n)
	if err != nil {
		f.err = err
		return ""
	}
	f.Chunks++
	if f.flusher != nil {
		f.flusher.Flush()
	}
	return ""
}

// Err returns the first write error.
func (f *FlushWriter) Err() error {
	return f.err
}

// Collector is a flush hook that records every fragment it receives.
type Collector struct {
	Fragments []string
}

// Flush records out and reports it as consumed.
func (c *Collector) Flush(out string) string {
	if out != "" {
		c.Fragments = append(c.Fragments, out)
	}
	return ""
}

// String returns the concatenation of all fragments.
func (c *Collector) String() string {
	n := 0
	for _, f := range c.Fragments {
		n += len(f)
	}
	buf := make([]byte, 0, n)
	for _, f := range c.Fragments {
		buf = append(buf, f...)
	}
	return string(buf)
}
