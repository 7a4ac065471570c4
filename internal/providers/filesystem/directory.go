package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

// ListDirectory returns the immediate children of a directory, sorted by name
func (o *Ops) ListDirectory(ctx context.Context, path string) ([]types.Entry, error) {
	const op = "list_directory"
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := o.requireDir(op, path)
	if err != nil {
		return nil, err
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapOS(op, dir, err)
	}

	entries := make([]types.Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, entryFor(filepath.Join(dir, child.Name())))
	}
	return entries, nil
}

// CreateDirectory creates path and any missing parents
func (o *Ops) CreateDirectory(ctx context.Context, path string, existOK bool) (string, error) {
	const op = "create_directory"
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, err := o.root.Resolve(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(full); err == nil {
		if !info.IsDir() {
			return "", opErr(op, full, ErrAlreadyExists, "Target exists and is not a directory: "+full)
		}
		if !existOK {
			return "", opErr(op, full, ErrAlreadyExists, "Directory already exists: "+full)
		}
		return "Created directory: " + full, nil
	}

	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", wrapOS(op, full, err)
	}
	o.logger.Debug("directory created", zap.String("path", full))
	return "Created directory: " + full, nil
}

// DeleteFile removes a file or directory. A missing path is not an error.
func (o *Ops) DeleteFile(ctx context.Context, path string, recursive bool) (string, error) {
	const op = "delete_file"
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, err := o.root.Resolve(path)
	if err != nil {
		return "", err
	}
	if full == o.root.Dir() {
		return "", opErr(op, full, ErrIO, "Refusing to delete FS_ROOT: "+full)
	}

	info, err := os.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "Already gone: " + full, nil
	}
	if err != nil {
		return "", wrapOS(op, full, err)
	}

	if !info.IsDir() {
		if err := os.Remove(full); err != nil {
			return "", wrapOS(op, full, err)
		}
		o.logger.Debug("file removed", zap.String("path", full))
		return "Removed file: " + full, nil
	}

	if recursive {
		if err := os.RemoveAll(full); err != nil {
			return "", wrapOS(op, full, err)
		}
		o.logger.Debug("directory tree removed", zap.String("path", full))
		return "Removed directory tree: " + full, nil
	}

	if err := os.Remove(full); err != nil {
		if classify(err) == ErrDirectoryNotEmpty || errors.Is(err, fs.ErrExist) {
			return "", &OpError{Op: op, Path: full, Msg: "Directory not empty: " + full, Kind: ErrDirectoryNotEmpty, Err: err}
		}
		return "", wrapOS(op, full, err)
	}
	o.logger.Debug("directory removed", zap.String("path", full))
	return "Removed directory: " + full, nil
}

// requireDir resolves path and checks that it is an existing directory
func (o *Ops) requireDir(op, path string) (string, error) {
	dir, err := o.root.Resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", opErr(op, dir, ErrNotFound, "Not a directory: "+dir)
	case err != nil:
		return "", wrapOS(op, dir, err)
	case !info.IsDir():
		return "", opErr(op, dir, ErrNotADirectory, "Not a directory: "+dir)
	}
	return dir, nil
}
