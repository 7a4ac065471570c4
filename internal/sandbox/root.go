package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxLinkHops bounds symlink chains on the non-existing tail of a path
const maxLinkHops = 255

// Root is a canonical directory that resolved paths must stay under
type Root struct {
	dir string
}

// New canonicalizes dir and requires it to be an existing directory
func New(dir string) (*Root, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", dir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", dir, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", canonical, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", canonical)
	}
	return &Root{dir: canonical}, nil
}

// Dir returns the canonical root directory
func (r *Root) Dir() string {
	return r.dir
}

// Resolve maps userPath to a canonical absolute path inside the root.
// Empty means the root itself; relative paths are taken from the root.
func (r *Root) Resolve(userPath string) (string, error) {
	if userPath == "" {
		userPath = "."
	}

	candidate := userPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.dir, candidate)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := canonicalize(candidate)
	if err != nil {
		return "", err
	}
	if !r.Contains(resolved) {
		return "", &EscapeError{Path: resolved}
	}
	return resolved, nil
}

// Contains reports whether an already-canonical path is the root or lies beneath it
func (r *Root) Contains(path string) bool {
	if path == r.dir {
		return true
	}
	prefix := r.dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// Rel returns path relative to the root, using forward slashes
func (r *Root) Rel(path string) (string, error) {
	rel, err := filepath.Rel(r.dir, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// canonicalize resolves symlinks on the longest existing prefix of an
// absolute clean path, then follows dangling links in the remainder.
func canonicalize(path string) (string, error) {
	for hops := 0; ; hops++ {
		if hops > maxLinkHops {
			return "", fmt.Errorf("resolve %s: too many levels of symbolic links", path)
		}

		head, tail := splitExisting(path)
		if len(tail) == 0 {
			return head, nil
		}

		// The first missing component may itself be a dangling link
		next := filepath.Join(head, tail[0])
		target, err := os.Readlink(next)
		if err != nil {
			return filepath.Join(append([]string{head}, tail...)...), nil
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(head, target)
		}
		path = filepath.Clean(filepath.Join(append([]string{target}, tail[1:]...)...))
	}
}

// splitExisting walks up from path until EvalSymlinks succeeds and returns
// the canonical head plus the unresolved components below it.
func splitExisting(path string) (string, []string) {
	var tail []string
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return resolved, tail
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Nothing exists, not even the volume root
			return current, tail
		}
		tail = append([]string{filepath.Base(current)}, tail...)
		current = parent
	}
}
