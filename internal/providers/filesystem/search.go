package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// SearchFiles returns regular files under path whose base name contains
// needle, compared case-insensitively. Results are sorted.
func (o *Ops) SearchFiles(ctx context.Context, path, needle string, opts SearchOptions) ([]string, error) {
	const op = "search_files"

	dir, err := o.requireDir(op, path)
	if err != nil {
		return nil, err
	}
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, opErr(op, dir, ErrIO, "invalid pattern: "+opts.Pattern)
	}

	lowered := strings.ToLower(needle)
	var (
		mu      sync.Mutex
		results []string
	)
	err = o.walkFiles(ctx, op, dir, opts, func(p string) {
		if strings.Contains(strings.ToLower(filepath.Base(p)), lowered) {
			mu.Lock()
			results = append(results, p)
			mu.Unlock()
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	if results == nil {
		results = []string{}
	}
	return results, nil
}

// SearchInFiles returns regular files under path whose decoded text
// contains text. Files that fail to read or decode are skipped.
func (o *Ops) SearchInFiles(ctx context.Context, path, text, encoding string, opts SearchOptions) ([]types.Match, error) {
	const op = "search_in_files"

	dir, err := o.requireDir(op, path)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []types.Match{}, nil
	}
	codec, err := lookupCodec(encoding)
	if err != nil {
		return nil, &OpError{Op: op, Path: dir, Msg: err.Error(), Kind: ErrIO, Err: err}
	}
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, opErr(op, dir, ErrIO, "invalid pattern: "+opts.Pattern)
	}

	var (
		mu      sync.Mutex
		matches []types.Match
	)
	err = o.walkFiles(ctx, op, dir, opts, func(p string) {
		data, err := os.ReadFile(p)
		if err != nil {
			return
		}
		content, err := codec.decode(data)
		if err != nil {
			return
		}
		if n := strings.Count(content, text); n > 0 {
			mu.Lock()
			matches = append(matches, types.Match{Path: p, Occurrences: n})
			mu.Unlock()
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Path < matches[j].Path
	})
	if matches == nil {
		matches = []types.Match{}
	}
	return matches, nil
}

// walkFiles calls visit, possibly concurrently, for every regular file
// under dir that stays inside the root and passes the search options.
// Symlinked directories are not descended into.
func (o *Ops) walkFiles(ctx context.Context, op, dir string, opts SearchOptions, visit func(path string)) error {
	var ignore gitignore.IgnoreMatcher
	if opts.Gitignore {
		ignore = loadGitignore(dir, o.logger)
	}

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Unreadable subtrees are skipped
			if p != dir && d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == dir {
			return nil
		}

		isDir := d.IsDir()
		if opts.Gitignore && isDir && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if ignore != nil && ignore.Match(p, isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil || !o.root.Contains(target) {
				return nil
			}
			info, err := os.Stat(target)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		if opts.Pattern != "" {
			rel, err := o.root.Rel(p)
			if err != nil {
				return nil
			}
			if ok, _ := doublestar.Match(opts.Pattern, rel); !ok {
				return nil
			}
		}

		visit(p)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return wrapOS(op, dir, err)
	}
	return nil
}

// loadGitignore reads dir/.gitignore; a missing or unreadable file disables filtering
func loadGitignore(dir string, logger *logging.Logger) gitignore.IgnoreMatcher {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(path, dir)
	if err != nil {
		logger.Debug("gitignore not loaded", zap.String("path", path), zap.Error(err))
		return nil
	}
	return matcher
}
