// Package attic implements a static-asset response engine: it maps a request
// path to a filesystem entry under a configured root and builds an HTTP-style
// response with content metadata, caching validators, and optional access
// control on directory listings.
//
// # Pipeline
//
// A request flows through the following stages:
//
//	resolve path -> (directory: slash redirect | index.html | access guard + listing)
//	             -> (file: validator -> conditional check -> encoding
//	                 negotiation -> content type -> chunked stream)
//
// Resolution happens fresh on every request; nothing about the filesystem is
// cached across requests. File handles are scoped to a single request and are
// closed when the response body is closed, whether delivery completed, failed,
// or was cancelled.
//
// # Responses
//
// Serve returns a Response holding a status code, headers, and an optional
// lazy body. The body is a finite, non-restartable stream that yields at most
// ChunkSize bytes per read, so the transport can apply backpressure between
// chunks. Conditional requests whose If-None-Match matches the current ETag
// short-circuit to 304 before any content work is done.
//
// # Collaborators
//
// The filesystem side is abstracted behind the Source interface (implemented
// by the filesystem package on top of os.Root), and credential lookup for
// protected listings behind CredentialChecker (implemented by the credentials
// package). The http package adapts Serve to net/http.
package attic
