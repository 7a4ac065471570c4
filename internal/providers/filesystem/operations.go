package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
)

// CopyFile copies a regular file, preserving its mode and modification time.
// An existing directory destination receives dst/basename(src).
func (o *Ops) CopyFile(ctx context.Context, src, dst string, overwrite bool) (string, error) {
	const op = "copy_file"
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s, err := o.root.Resolve(src)
	if err != nil {
		return "", err
	}
	d, err := o.root.Resolve(dst)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(s)
	if err != nil || !info.Mode().IsRegular() {
		return "", opErr(op, s, ErrNotFound, "Source file not found: "+s)
	}

	d, err = o.intoDirectory(s, d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(d), 0o755); err != nil {
		return "", wrapOS(op, d, err)
	}

	if dinfo, err := os.Stat(d); err == nil {
		if !overwrite {
			return "", opErr(op, d, ErrAlreadyExists, "Destination exists: "+d)
		}
		if os.SameFile(info, dinfo) {
			return "", opErr(op, d, ErrIO, fmt.Sprintf("%s and %s are the same file", s, d))
		}
		if dinfo.IsDir() {
			return "", opErr(op, d, ErrIsADirectory, "Is a directory: "+d)
		}
	}

	if err := copyContents(s, d, info); err != nil {
		return "", wrapOS(op, d, err)
	}
	o.logger.Debug("file copied", zap.String("src", s), zap.String("dst", d))
	return fmt.Sprintf("Copied %s -> %s", s, d), nil
}

// MoveFile renames a file or directory, copying across devices when needed.
// An existing directory destination receives dst/basename(src).
func (o *Ops) MoveFile(ctx context.Context, src, dst string, overwrite bool) (string, error) {
	const op = "move_file"
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s, err := o.root.Resolve(src)
	if err != nil {
		return "", err
	}
	d, err := o.root.Resolve(dst)
	if err != nil {
		return "", err
	}

	info, err := os.Lstat(s)
	if err != nil {
		return "", opErr(op, s, ErrNotFound, "Source not found: "+s)
	}
	if s == o.root.Dir() {
		return "", opErr(op, s, ErrIO, "Refusing to move FS_ROOT: "+s)
	}

	d, err = o.intoDirectory(s, d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(d), 0o755); err != nil {
		return "", wrapOS(op, d, err)
	}

	if _, err := os.Lstat(d); err == nil && !overwrite {
		return "", opErr(op, d, ErrAlreadyExists, "Destination exists: "+d)
	}

	if err := os.Rename(s, d); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return "", wrapOS(op, d, err)
		}
		if err := moveAcrossDevices(s, d, info); err != nil {
			return "", wrapOS(op, d, err)
		}
	}
	o.logger.Debug("path moved", zap.String("src", s), zap.String("dst", d))
	return fmt.Sprintf("Moved %s -> %s", s, d), nil
}

// intoDirectory redirects dst to dst/basename(src) when dst is an existing
// directory, and checks the new target stays confined
func (o *Ops) intoDirectory(src, dst string) (string, error) {
	info, err := os.Stat(dst)
	if err != nil || !info.IsDir() {
		return dst, nil
	}
	return o.root.Resolve(filepath.Join(dst, filepath.Base(src)))
}

func copyContents(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func moveAcrossDevices(src, dst string, info fs.FileInfo) error {
	if !info.IsDir() {
		if err := copyContents(src, dst, info); err != nil {
			return err
		}
		return os.Remove(src)
	}

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		fi, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, fi.Mode().Perm())
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyContents(p, target, fi)
		}
	})
	if err != nil {
		return err
	}
	return os.RemoveAll(src)
}
