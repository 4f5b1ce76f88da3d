package http

import (
	"io"
	"log/slog"
	"net/http"
)

const internalErrorHTML = `<html>
<head><title>500 Internal Server Error</title></head>
<body>
<center><h1>500 Internal Server Error</h1></center>
<hr><center>attic</center>
</body>
</html>`

// writeInternalError reports an engine failure that has no mapped status.
// The error detail stays in the log; the client only sees the generic page.
func writeInternalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "err", err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, internalErrorHTML)
}
