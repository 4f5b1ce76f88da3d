package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mgrazal/attic"
)

// Service is the part of the response engine the transport needs.
type Service interface {
	Serve(ctx context.Context, req attic.Request) (*attic.Response, error)
}

// CORSConfig configures the optional CORS middleware.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// HandlerConfig holds transport-level settings.
type HandlerConfig struct {
	// ChunkSize is the write granularity for streamed bodies; the response
	// is flushed after every chunk. Zero means attic.DefaultChunkSize.
	ChunkSize int
	CORS      CORSConfig
}

// Handler serves static-asset requests over net/http.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a Handler delegating to service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = attic.DefaultChunkSize
	}
	return &Handler{config: cfg, service: service}
}

// Router returns the configured route tree: GET and HEAD for every path,
// with request logging and optional CORS applied first.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/*", h.handleGet)
	r.Head("/*", h.handleGet)

	return r
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	// EscapedPath keeps percent-encoding intact; decoding is the
	// resolver's job so the core sees the same bytes any transport
	// would hand it.
	req := attic.Request{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Header: r.Header,
	}

	resp, err := h.service.Serve(r.Context(), req)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	for key, values := range resp.Header {
		w.Header()[key] = values
	}
	w.WriteHeader(resp.Status)

	if resp.Body == nil {
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if err := h.copyBody(w, resp.Body); err != nil {
		// Headers are gone; abort the connection rather than pretend
		// the truncated body was the whole file.
		slog.Error("aborting response mid-stream",
			"path", r.URL.Path,
			"err", err,
		)
	}
}

// copyBody streams the body to the client in chunk-size units, flushing
// after each chunk. Client disconnects surface as context errors from the
// body or write errors from the connection; both stop production.
func (h *Handler) copyBody(w http.ResponseWriter, body io.Reader) error {
	flusher, canFlush := w.(http.Flusher)
	buf := make([]byte, h.config.ChunkSize)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			if canFlush {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}
