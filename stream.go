package attic

import (
	"context"
	"io"
)

// chunkedBody wraps a response body so that a single Read never returns more
// than chunkSize bytes and chunk production stops as soon as the request
// context is cancelled. Closing it closes the underlying source, which for
// identity responses is the open file handle.
type chunkedBody struct {
	ctx       context.Context
	src       io.ReadCloser
	chunkSize int
}

func newChunkedBody(ctx context.Context, src io.ReadCloser, chunkSize int) io.ReadCloser {
	return &chunkedBody{ctx: ctx, src: src, chunkSize: chunkSize}
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	if err := b.ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) > b.chunkSize {
		p = p[:b.chunkSize]
	}
	return b.src.Read(p)
}

func (b *chunkedBody) Close() error {
	return b.src.Close()
}
