package attic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
)

const (
	DefaultChunkSize          = 64 * 1024
	DefaultCompressionMinSize = 512
)

// ServiceConfig holds the per-instance behavior of the response engine.
// The zero value gets sane defaults from NewService.
type ServiceConfig struct {
	// AllowDirectoryListing enables browsable indexes for directories
	// without an index.html. When false such requests are 404s.
	AllowDirectoryListing bool

	// EnableCompression turns on Accept-Encoding negotiation for files of
	// at least CompressionMinSize bytes.
	EnableCompression  bool
	CompressionMinSize int64

	// CacheMaxAge is the max-age emitted in Cache-Control, in seconds.
	// Zero is a valid value and disables freshness caching.
	CacheMaxAge int

	// ChunkSize bounds how many bytes a single body read produces. It only
	// affects I/O granularity, never the delivered byte sequence.
	ChunkSize int
}

// Service builds responses for static-asset requests. It is safe for
// concurrent use: all fields are read-only after construction and every
// request resolves filesystem state fresh.
type Service struct {
	source Source
	guard  *Guard
	cfg    ServiceConfig

	cacheControl string
}

// NewService creates a Service over source. checker may be nil, which leaves
// directory listings unprotected.
func NewService(source Source, checker CredentialChecker, cfg ServiceConfig) (*Service, error) {
	if source == nil {
		return nil, errors.New("new service: nil source")
	}
	if cfg.ChunkSize < 0 {
		return nil, fmt.Errorf("new service: negative chunk size %d", cfg.ChunkSize)
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.CompressionMinSize == 0 {
		cfg.CompressionMinSize = DefaultCompressionMinSize
	}
	if cfg.CacheMaxAge < 0 {
		return nil, fmt.Errorf("new service: negative cache max age %d", cfg.CacheMaxAge)
	}

	return &Service{
		source:       source,
		guard:        NewGuard(checker),
		cfg:          cfg,
		cacheControl: fmt.Sprintf("public, max-age=%d", cfg.CacheMaxAge),
	}, nil
}

// Serve resolves the request path and builds the response. Expected outcomes
// (200, 304, 401, 403, 404) are returned as responses with a nil error; a
// non-nil error means an internal failure the transport should map to 500.
func (s *Service) Serve(ctx context.Context, req Request) (*Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		resp := statusResponse(http.StatusMethodNotAllowed, req.Method == http.MethodHead)
		resp.Header.Set("Allow", "GET, HEAD")
		return resp, nil
	}

	entry, err := s.source.Resolve(ctx, req.Path)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return statusResponse(http.StatusForbidden, req.Method == http.MethodHead), nil
		}
		return nil, fmt.Errorf("resolve %q: %w", req.Path, err)
	}

	switch entry.Kind {
	case EntryNotFound:
		return statusResponse(http.StatusNotFound, req.Method == http.MethodHead), nil
	case EntryDir:
		return s.serveDir(ctx, req, entry)
	case EntryFile:
		return s.serveFile(ctx, req, entry)
	default:
		return nil, fmt.Errorf("resolve %q: unknown entry kind %d: %w", req.Path, entry.Kind, ErrInternal)
	}
}

// serveDir handles the directory branch: requests without a trailing slash
// are redirected to the slashed form first, then an index.html inside the
// directory takes over the file pipeline, otherwise the browsable listing is
// rendered behind the access guard.
func (s *Service) serveDir(ctx context.Context, req Request, entry ResolvedEntry) (*Response, error) {
	// Directories are canonically addressed with a trailing slash (the
	// net/http FileServer convention); relative links on the listing page
	// only resolve against the directory itself from the slashed form.
	if loc, ok := slashRedirect(req.Path); ok {
		resp := statusResponse(http.StatusMovedPermanently, req.Method == http.MethodHead)
		resp.Header.Set("Location", loc)
		return resp, nil
	}

	// The index probe must not go through Resolve: entry.Path is already
	// decoded, and decoding it a second time corrupts names with '%' or '?'.
	idx, err := s.source.Stat(ctx, path.Join(entry.Path, "index.html"))
	if err != nil && !errors.Is(err, ErrForbidden) {
		return nil, fmt.Errorf("stat index of %q: %w", entry.Path, err)
	}
	if err == nil && idx.Kind == EntryFile {
		return s.serveFile(ctx, req, idx)
	}

	if !s.cfg.AllowDirectoryListing {
		return statusResponse(http.StatusNotFound, req.Method == http.MethodHead), nil
	}

	if err := s.guard.Authorize(ctx, req.Header); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			resp := statusResponse(http.StatusUnauthorized, req.Method == http.MethodHead)
			resp.Header.Set("WWW-Authenticate", "Basic")
			return resp, nil
		}
		return nil, fmt.Errorf("authorize listing of %q: %w", entry.Path, err)
	}

	body, err := RenderListing(entry.Path, entry.Entries)
	if err != nil {
		return nil, err
	}

	resp := &Response{Status: http.StatusOK, Header: make(http.Header)}
	resp.Header.Set("Content-Type", listingContentType)
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	if req.Method != http.MethodHead {
		resp.Body = newChunkedBody(ctx, io.NopCloser(bytes.NewReader(body)), s.cfg.ChunkSize)
	}
	return resp, nil
}

// serveFile handles the file branch: validators first so a matching
// If-None-Match short-circuits to 304 before any negotiation, content-type,
// or I/O work happens.
func (s *Service) serveFile(ctx context.Context, req Request, entry ResolvedEntry) (*Response, error) {
	validator := ComputeValidator(entry.Size, entry.ModTime)

	if match := req.Header.Get("If-None-Match"); match != "" && match == validator.ETag {
		resp := &Response{Status: http.StatusNotModified, Header: make(http.Header)}
		resp.Header.Set("ETag", validator.ETag)
		resp.Header.Set("Cache-Control", s.cacheControl)
		return resp, nil
	}

	encoding := NegotiateEncoding(
		req.Header.Get("Accept-Encoding"),
		entry.Size,
		s.cfg.EnableCompression,
		s.cfg.CompressionMinSize,
	)

	resp := &Response{Status: http.StatusOK, Header: make(http.Header)}
	resp.Header.Set("Content-Type", TypeByExtension(path.Ext(entry.Path)))
	resp.Header.Set("Cache-Control", s.cacheControl)
	resp.Header.Set("ETag", validator.ETag)
	resp.Header.Set("Last-Modified", validator.LastModified.UTC().Format(http.TimeFormat))

	if encoding == EncodingIdentity {
		resp.Header.Set("Content-Length", strconv.FormatInt(entry.Size, 10))
		if req.Method == http.MethodHead {
			return resp, nil
		}

		f, err := s.source.Open(ctx, entry.Path)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", entry.Path, err)
		}
		resp.Body = newChunkedBody(ctx, f, s.cfg.ChunkSize)
		return resp, nil
	}

	// Whole-body compression: the compressed length must be known before
	// the first byte goes out, so the file is read and compressed up front
	// and only the delivery is chunked.
	compressed, err := s.compressFile(ctx, entry.Path, encoding)
	if err != nil {
		return nil, err
	}

	resp.Header.Set("Content-Encoding", string(encoding))
	resp.Header.Set("Content-Length", strconv.Itoa(len(compressed)))
	if req.Method != http.MethodHead {
		resp.Body = newChunkedBody(ctx, io.NopCloser(bytes.NewReader(compressed)), s.cfg.ChunkSize)
	}
	return resp, nil
}

func (s *Service) compressFile(ctx context.Context, filePath string, encoding Encoding) ([]byte, error) {
	f, err := s.source.Open(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(newChunkedBody(ctx, io.NopCloser(f), s.cfg.ChunkSize))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", filePath, err)
	}

	compressed, err := Compress(encoding, raw)
	if err != nil {
		return nil, fmt.Errorf("compress %q: %w", filePath, err)
	}
	return compressed, nil
}

// slashRedirect returns the slashed form of a directory request path that
// lacks a trailing slash, preserving any query component. ok is false when
// the path already ends in a slash and no redirect is needed.
func slashRedirect(rawPath string) (string, bool) {
	p, query, hasQuery := strings.Cut(rawPath, "?")
	if strings.HasSuffix(p, "/") {
		return "", false
	}

	loc := p + "/"
	if hasQuery {
		loc += "?" + query
	}
	return loc, true
}

// statusResponse builds a terminal non-200 response with a minimal
// descriptive plain-text body (omitted for HEAD).
func statusResponse(status int, head bool) *Response {
	body := strconv.Itoa(status) + " " + http.StatusText(status) + "\n"

	resp := &Response{Status: status, Header: make(http.Header)}
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	if !head {
		resp.Body = io.NopCloser(strings.NewReader(body))
	}
	return resp
}
