// Package filesystem resolves request paths against a root directory.
// It is built on os.Root, which sandboxes all file operations so that even
// symlinks inside the tree cannot reach entries outside it; a lexical check
// on top rejects traversal attempts before the filesystem is touched.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/mgrazal/attic"
)

// Resolver maps request paths to entries under a single root directory.
// It implements attic.Source. State on disk is read fresh per call; nothing
// is cached between requests.
type Resolver struct {
	root *os.Root
}

// NewResolver creates a Resolver confined to root.
func NewResolver(root *os.Root) *Resolver {
	return &Resolver{root: root}
}

// Resolve strips the query component from rawPath, percent-decodes it, and
// stats the named entry. Traversal attempts fail with attic.ErrForbidden; a
// missing entry is EntryNotFound with a nil error. The root path resolves to
// the root directory itself.
func (r *Resolver) Resolve(ctx context.Context, rawPath string) (attic.ResolvedEntry, error) {
	if err := ctx.Err(); err != nil {
		return attic.ResolvedEntry{}, err
	}

	rel, err := normalize(rawPath)
	if err != nil {
		return attic.ResolvedEntry{}, err
	}
	if rel == "" {
		return attic.ResolvedEntry{Kind: attic.EntryNotFound}, nil
	}

	entry, err := r.stat(rel)
	if err != nil || entry.Kind != attic.EntryDir {
		return entry, err
	}

	entries, err := r.readDir(rel)
	if err != nil {
		return attic.ResolvedEntry{}, err
	}
	entry.Entries = entries
	return entry, nil
}

// Stat resolves an already-normalized root-relative path untouched: no query
// stripping, no percent-decoding. Directory names containing bytes that are
// meaningful in a request path ('%', '?') only resolve correctly this way.
// Directory entries are not listed.
func (r *Resolver) Stat(ctx context.Context, filePath string) (attic.ResolvedEntry, error) {
	if err := ctx.Err(); err != nil {
		return attic.ResolvedEntry{}, err
	}
	return r.stat(filePath)
}

func (r *Resolver) stat(rel string) (attic.ResolvedEntry, error) {
	info, err := r.root.Stat(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return attic.ResolvedEntry{Kind: attic.EntryNotFound}, nil
		}
		// os.Root reports symlink escapes and similar violations as plain
		// path errors; anything that is not a clean miss stays forbidden.
		return attic.ResolvedEntry{}, fmt.Errorf("stat %q: %v: %w", rel, err, attic.ErrForbidden)
	}

	if info.IsDir() {
		return attic.ResolvedEntry{Kind: attic.EntryDir, Path: rel}, nil
	}

	if !info.Mode().IsRegular() {
		return attic.ResolvedEntry{Kind: attic.EntryNotFound}, nil
	}

	return attic.ResolvedEntry{
		Kind:    attic.EntryFile,
		Path:    rel,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Open opens a previously resolved file for reading. The caller owns the
// returned handle and must close it.
func (r *Resolver) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := r.root.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, attic.ErrNotFound
		}
		return nil, fmt.Errorf("open %q: %w", filePath, err)
	}
	return f, nil
}

// readDir lists a directory's children in lexical order (fs.ReadDir sorts
// by name), which keeps listing output deterministic for a fixed tree.
func (r *Resolver) readDir(rel string) ([]attic.ListEntry, error) {
	dirEntries, err := fs.ReadDir(r.root.FS(), rel)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", rel, err)
	}

	entries := make([]attic.ListEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := attic.ListEntry{Name: de.Name(), IsDir: de.IsDir()}
		if !de.IsDir() {
			if info, err := de.Info(); err == nil {
				entry.Size = info.Size()
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// normalize turns a raw request path into a clean root-relative path, with
// "." naming the root itself. It strips any query component, decodes
// percent-encoding, and rejects paths that lexically escape the root or
// smuggle in control bytes. A path with a malformed percent escape names
// nothing and normalizes to "" (not found).
func normalize(rawPath string) (string, error) {
	p := rawPath
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}

	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", nil
	}

	if containsForbiddenRune(decoded) {
		return "", fmt.Errorf("invalid characters in path %q: %w", rawPath, attic.ErrForbidden)
	}

	clean := path.Clean(strings.TrimLeft(decoded, "/"))
	if clean == "." || clean == "" {
		return ".", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %q escapes root: %w", rawPath, attic.ErrForbidden)
	}

	return clean, nil
}

// containsForbiddenRune reports whether a decoded path carries bytes that
// never belong in a file name request: NUL, other control characters, or
// backslashes that would bypass slash-based normalization on some systems.
func containsForbiddenRune(p string) bool {
	for _, r := range p {
		if r < 0x20 || r == 0x7f || r == '\\' {
			return true
		}
	}
	return false
}
