// Package content resolves BMAD content files through a priority-ordered
// chain of installation roots.
//
// Manifest rows address files from the project root ("/bmad/bmm/agents/x.md"
// or "bmad/..."), while the reader's roots are the bmad directories
// themselves, so Normalize drops the leading bmad segment before a path is
// probed. Every resolution is traversal-protected: after symlink
// resolution the target must still live under the root it was probed in.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapesRoot marks requests that resolve outside the root they
// were probed in.
var ErrPathEscapesRoot = errors.New("path escapes root")

// Reader probes installation roots in priority order; the first root that
// yields an existing regular file wins. This realizes project-overrides-user
// semantics at the granularity of individual files.
type Reader struct {
	roots []string
}

// NewReader builds a reader over the given roots, highest priority first.
// Roots are cleaned, symlink-resolved, and deduplicated.
func NewReader(roots ...string) *Reader {
	seen := make(map[string]bool, len(roots))
	var rs []string
	for _, r := range roots {
		if r == "" {
			continue
		}
		r = filepath.Clean(r)
		if resolved, err := filepath.EvalSymlinks(r); err == nil {
			r = resolved
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		rs = append(rs, r)
	}
	return &Reader{roots: rs}
}

// Roots returns the probe chain in priority order.
func (r *Reader) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Normalize maps a manifest path column to a root-relative path: slashes
// normalized, leading separator dropped, and a leading bmad/.bmad/src/bmad
// segment stripped.
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")
	for _, prefix := range []string{"src/bmad/", "bmad/", ".bmad/"} {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimPrefix(p, prefix)
			break
		}
	}
	return p
}

// Read returns the content of name from the first root that has it.
func (r *Reader) Read(name string) (string, error) {
	if len(r.roots) == 0 {
		return "", fmt.Errorf("content: no roots configured, cannot read %s: %w", name, fs.ErrNotExist)
	}
	var firstErr error
	for _, root := range r.roots {
		data, err := r.ReadFrom(root, name)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrPathEscapesRoot) {
			// A relative escape escapes every root; no point probing on.
			return "", err
		}
		if !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", fmt.Errorf("content: file not found: %s (probed roots: %s): %w",
		name, strings.Join(r.roots, ", "), fs.ErrNotExist)
}

// ReadFrom reads name from a single root.
func (r *Reader) ReadFrom(root, name string) (string, error) {
	path, err := resolveUnder(root, name)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("content: file not found: %s: %w", name, fs.ErrNotExist)
		}
		return "", fmt.Errorf("content: stat %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("content: %s is a directory: %w", name, fs.ErrNotExist)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("content: read %s: %w", name, err)
	}
	return string(data), nil
}

// Exists reports whether some root can serve name as a regular file.
// Traversal escapes and unreadable paths are simply false.
func (r *Reader) Exists(name string) bool {
	for _, root := range r.roots {
		if r.ExistsUnder(root, name) {
			return true
		}
	}
	return false
}

// ExistsUnder is the single-root variant of Exists.
func (r *Reader) ExistsUnder(root, name string) bool {
	path, err := resolveUnder(root, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Locate returns the absolute path and owning root for name without
// reading it.
func (r *Reader) Locate(name string) (path, root string, err error) {
	for _, rt := range r.roots {
		p, err := resolveUnder(rt, name)
		if err != nil {
			if errors.Is(err, ErrPathEscapesRoot) {
				return "", "", err
			}
			continue
		}
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, rt, nil
		}
	}
	return "", "", fmt.Errorf("content: file not found: %s: %w", name, fs.ErrNotExist)
}

// resolveUnder resolves name inside root and rejects anything that lands
// outside it. Symlinks are followed before the containment check so a link
// pointing out of the tree cannot smuggle content in.
func resolveUnder(root, name string) (string, error) {
	rel := Normalize(name)
	if rel == "" {
		return "", fmt.Errorf("content: empty path: %w", fs.ErrNotExist)
	}
	candidate := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, candidate) {
		return "", fmt.Errorf("content: %s: %w", name, ErrPathEscapesRoot)
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("content: file not found: %s: %w", name, fs.ErrNotExist)
		}
		return "", fmt.Errorf("content: resolve %s: %w", name, err)
	}
	if !within(root, resolved) {
		return "", fmt.Errorf("content: %s: %w", name, ErrPathEscapesRoot)
	}
	return resolved, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
