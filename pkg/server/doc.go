// Package server is the HTTP preview service for the BEMHTML engine.
//
// Routes:
//
//	POST /render          render the request body, streamed back as HTML
//	GET  /ws              render documents sent over a WebSocket
//	GET  /pages/{name}    render a BEMJSON file from the pages directory
//	GET  /static/*        files from the static directory
//	GET  /metrics         Prometheus metrics
//	GET  /healthz         liveness probe
//
// The request body of /render may be JSON, YAML or MessagePack and is
// selected by Content-Type. Output is written fragment by fragment as the
// engine flushes, so large documents start arriving before rendering
// completes. A render error that happens before the first byte is written
// is reported as a JSON error body with status 422.
//
// Over /ws, every text or binary message is one document. The server
// answers with one text message per flushed fragment, then a final
// {"type":"done"} message, or {"type":"error",...} when rendering fails.
//
// # Example
//
//	engine := bemhtml.New(bemhtml.Options{})
//	srv := server.New(engine, &server.Config{Address: ":8080"})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The engine may be swapped at runtime with SetEngine, for example after
// the template file changed. Requests in flight keep the engine they
// started with.
package server
