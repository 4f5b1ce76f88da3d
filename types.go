package attic

import (
	"context"
	"io"
	"net/http"
	"time"
)

// EntryKind discriminates the variants of ResolvedEntry.
type EntryKind int

const (
	EntryNotFound EntryKind = iota
	EntryFile
	EntryDir
)

// ResolvedEntry is the result of resolving a request path against the root
// directory. Kind selects which of the remaining fields are meaningful:
// Size and ModTime for files, Entries for directories, none for NotFound.
type ResolvedEntry struct {
	Kind    EntryKind
	Path    string // slash-separated, relative to the root; "." is the root itself
	Size    int64
	ModTime time.Time
	Entries []ListEntry
}

// ListEntry is one child of a resolved directory.
type ListEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Validator carries the caching validators derived from a file's current
// size and modification time.
type Validator struct {
	ETag         string // quoted opaque token
	LastModified time.Time
}

// Encoding is a negotiated response content encoding.
type Encoding string

const (
	EncodingIdentity Encoding = "identity"
	EncodingGzip     Encoding = "gzip"
	EncodingDeflate  Encoding = "deflate"
)

// Request is the normalized request handed in by the host transport.
// Path may still carry a query component and percent-encoding; the
// resolver strips and decodes both.
type Request struct {
	Method string
	Path   string
	Header http.Header
}

// Response is the normalized result handed back to the host transport.
// Body is nil for bodyless responses (304, HEAD). When non-nil it is a
// lazy, finite stream; the transport must close it exactly once.
type Response struct {
	Status int
	Header http.Header
	Body   io.ReadCloser
}

// Source resolves request paths to filesystem entries and opens files for
// reading. Implementations must confine all access to the configured root.
type Source interface {
	// Resolve maps a raw request path to a ResolvedEntry. Traversal
	// attempts fail with ErrForbidden; a missing entry is reported as
	// EntryNotFound with a nil error.
	Resolve(ctx context.Context, rawPath string) (ResolvedEntry, error)

	// Stat resolves an already-normalized root-relative path, with no
	// query stripping or percent-decoding. It is for paths derived from
	// a previously resolved entry, like a directory's index.html, whose
	// names must not go through request decoding a second time.
	Stat(ctx context.Context, path string) (ResolvedEntry, error)

	// Open opens the file at a previously resolved path for reading.
	// The caller is responsible for closing the returned reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// CredentialChecker looks up the stored secret for a username. It is the
// pluggable seam between the access guard and whatever secret store a
// deployment uses; see the credentials package for implementations.
type CredentialChecker interface {
	// Lookup returns the secret for username, or an error wrapping
	// ErrUnauthorized when the user is unknown.
	Lookup(ctx context.Context, username string) (string, error)
}
