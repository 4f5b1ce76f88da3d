// Package http adapts the attic response engine to net/http.
//
// The adapter is deliberately thin: it hands the engine a normalized
// request (method, path, headers) and writes back the normalized response
// the engine produced. All resolution, negotiation, and caching decisions
// live in the engine; this package only owns wire concerns.
//
// # Streaming
//
// Response bodies are copied to the client one chunk at a time and flushed
// after every chunk so the transport exposes backpressure at chunk
// granularity. The request context cancels streaming when the client goes
// away, which also closes the engine's file handle.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{ChunkSize: 64 << 10}, service)
//	srv := &nethttp.Server{Addr: ":8080", Handler: handler.Router()}
//	srv.ListenAndServe()
//
// The service parameter must implement the Service interface, normally an
// *attic.Service. CORS support and request logging are wired as chi
// middleware in Router.
package http
