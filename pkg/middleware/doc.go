// Package middleware provides HTTP middleware for the bemhtml preview
// server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request and render metrics
//
// Both are plain func(http.Handler) http.Handler middleware and work with
// chi or any net/http router.
//
// # OpenTelemetry Middleware
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("preview"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Handlers can record failures on the request span with RecordError and
// open child spans with StartSpan.
//
// # Prometheus Metrics
//
//	reg := prometheus.NewRegistry()
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Render handlers report output size and fragment counts with
// RecordRender and failures with RecordRenderError.
package middleware
