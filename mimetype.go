package attic

import "strings"

// mimeTypes is the extension-to-MIME table used for Content-Type detection.
// The table is fixed rather than delegating to mime.TypeByExtension so
// lookups do not depend on the host's mime.types files.
var mimeTypes = map[string]string{
	".css":   "text/css; charset=utf-8",
	".csv":   "text/csv; charset=utf-8",
	".eot":   "application/vnd.ms-fontobject",
	".gif":   "image/gif",
	".htm":   "text/html; charset=utf-8",
	".html":  "text/html; charset=utf-8",
	".ico":   "image/x-icon",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".js":    "application/javascript",
	".json":  "application/json",
	".md":    "text/markdown; charset=utf-8",
	".mjs":   "application/javascript",
	".mp4":   "video/mp4",
	".pdf":   "application/pdf",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".ttf":   "font/ttf",
	".txt":   "text/plain; charset=utf-8",
	".wasm":  "application/wasm",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".xml":   "application/xml",
}

const defaultContentType = "application/octet-stream"

// TypeByExtension returns the MIME type for a file extension (including the
// leading dot). Lookup is case-insensitive and never fails: unknown or empty
// extensions map to application/octet-stream.
func TypeByExtension(ext string) string {
	if t, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return defaultContentType
}
