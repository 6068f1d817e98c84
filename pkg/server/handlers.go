package server

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/bemhtml/internal/errors"
	"github.com/vango-dev/bemhtml/pkg/bemjson"
	"github.com/vango-dev/bemhtml/pkg/middleware"
	"github.com/vango-dev/bemhtml/pkg/render"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// handleRender renders the request body and streams the HTML back.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := bemjson.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, http.StatusUnsupportedMediaType, errors.New("B202").Wrap(err))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, errors.New("B201").Wrap(err))
		return
	}

	tree, err := bemjson.Decode(format, body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("B201").Wrap(err))
		return
	}

	ctx, span := middleware.StartSpan(r.Context(), "bemhtml.render",
		attribute.String("bemhtml.format", string(format)),
		attribute.Int("bemhtml.input_bytes", len(body)))
	defer span.End()

	w.Header().Set("Content-Type", htmlContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	fw := render.NewFlushWriter(w)
	err = s.Engine().StreamFunc(tree, fw.Flush)
	span.SetAttributes(
		attribute.Int64("bemhtml.output_bytes", fw.Bytes),
		attribute.Int("bemhtml.fragments", fw.Chunks))

	if err != nil {
		middleware.RecordError(ctx, err)
		if fw.Bytes == 0 {
			s.writeError(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		// Headers are gone; the client sees a truncated document.
		s.metrics.RecordRenderError(errorCode(err))
		s.logger.Error("render failed after partial output",
			"error", err,
			"bytes", fw.Bytes)
		return
	}
	if err := fw.Err(); err != nil {
		s.logger.Debug("client went away", "error", err)
	}
	s.metrics.RecordRender(fw.Bytes, fw.Chunks)
}

// handlePage renders a BEMJSON file from PagesDir as a full document.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, ok := s.pagePath(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, errors.FromError(err, "B201"))
		return
	}

	tree, err := bemjson.Decode(bemjson.FormatFromPath(path), data)
	if err != nil {
		derr := errors.New("B201").Wrap(err)
		derr.Location = &errors.Location{File: path}
		s.writeError(w, r, http.StatusBadRequest, derr)
		return
	}

	// Render before writing so template errors produce a proper status.
	html, err := s.Engine().Apply(tree)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	page := render.PageData{
		Title:       strings.TrimSuffix(name, filepath.Ext(name)),
		StyleSheets: s.config.StyleSheets,
	}
	if s.config.Reloader != nil {
		page.Scripts = append(page.Scripts, reloadScriptPath)
	}

	w.Header().Set("Content-Type", htmlContentType)
	err = render.WritePage(w, page, func(w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
	if err != nil {
		s.logger.Debug("page write failed", "page", name, "error", err)
		return
	}
	s.metrics.RecordRender(int64(len(html)), 1)
}

// pagePath resolves name inside PagesDir. Names with a path separator or
// a leading dot are rejected. A name without extension matches the first
// of name.json, name.yaml, name.yml and name.msgpack that exists.
func (s *Server) pagePath(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	if filepath.Ext(name) != "" {
		return filepath.Join(s.config.PagesDir, name), true
	}
	for _, ext := range []string{".json", ".yaml", ".yml", ".msgpack"} {
		path := filepath.Join(s.config.PagesDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func (s *Server) handleReloadScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	io.WriteString(w, s.config.Reloader.Script(reloadSocketPath))
}

// writeError writes err as a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	e := errors.FromError(err, "B201")
	s.metrics.RecordRenderError(e.Code)

	level := s.logger.Warn
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	level("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"code", e.Code,
		"error", err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	fmt.Fprintln(w, e.FormatJSON())
}

// errorCode returns the code of a structured error, or "".
func errorCode(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
