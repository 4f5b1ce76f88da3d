package attic

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"strings"
)

// NegotiateEncoding chooses the response encoding for a file of the given
// size. Compression is skipped entirely when disabled or when the file is
// below minSize. Otherwise the Accept-Encoding header is parsed for token
// presence (quality weights are ignored) and the first supported encoding
// in preference order gzip, deflate wins; anything else is identity.
func NegotiateEncoding(acceptEncoding string, size int64, enabled bool, minSize int64) Encoding {
	if !enabled || size < minSize {
		return EncodingIdentity
	}

	var hasGzip, hasDeflate bool
	for tok := range strings.SplitSeq(acceptEncoding, ",") {
		// Drop any ;q=... parameter; presence is all that counts here.
		name, _, _ := strings.Cut(tok, ";")
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "gzip":
			hasGzip = true
		case "deflate":
			hasDeflate = true
		}
	}

	switch {
	case hasGzip:
		return EncodingGzip
	case hasDeflate:
		return EncodingDeflate
	default:
		return EncodingIdentity
	}
}

// Compress returns the whole-body compressed representation of data for a
// non-identity encoding. deflate is emitted as a zlib stream, the encoding
// RFC 9110 names "deflate".
func Compress(enc Encoding, data []byte) ([]byte, error) {
	var buf bytes.Buffer

	switch enc {
	case EncodingGzip:
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
	case EncodingDeflate:
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("deflate: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
	default:
		return nil, fmt.Errorf("compress: unsupported encoding %q", enc)
	}

	return buf.Bytes(), nil
}
