package attic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeValidator derives the caching validators for a file from its size
// and modification time. The ETag is a quoted opaque token: identical
// (size, mtime) pairs always produce the same tag, and a change to either
// produces a different one.
func ComputeValidator(size int64, modTime time.Time) Validator {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%d", size, modTime.UnixNano()))
	return Validator{
		ETag:         `"` + hex.EncodeToString(sum[:8]) + `"`,
		LastModified: modTime,
	}
}
