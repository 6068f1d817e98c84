package render

import (
	"fmt"
	"io"
	"net/http"
)

// PageData describes the document that wraps a rendered body.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts contains paths to scripts loaded at the end of the body.
	Scripts []string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Property string // property attribute (for OpenGraph)
	Content  string // content attribute
}

// WritePage writes a complete HTML document to w. The head is written and
// flushed before body is called, so the body may stream into w.
func WritePage(w io.Writer, page PageData, body func(w io.Writer) error) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", AttrEscape(lang)); err != nil {
		return err
	}
	if err := writeHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}

	// Flush head immediately for faster first paint
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	if err := body(w); err != nil {
		return err
	}

	for _, src := range page.Scripts {
		if _, err := fmt.Fprintf(w, "\n<script src=\"%s\"></script>", AttrEscape(src)); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "\n</body>\n</html>\n"); err != nil {
		return err
	}
	return nil
}

// writeHead renders the document head section.
func writeHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n  <meta charset=\"utf-8\">\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", XMLEscape(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if _, err := io.WriteString(w, "  <meta"); err != nil {
			return err
		}
		if meta.Name != "" {
			if _, err := fmt.Fprintf(w, ` name="%s"`, AttrEscape(meta.Name)); err != nil {
				return err
			}
		}
		if meta.Property != "" {
			if _, err := fmt.Fprintf(w, ` property="%s"`, AttrEscape(meta.Property)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, ` content="%s">`+"\n", AttrEscape(meta.Content)); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", AttrEscape(href)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}
