package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ReadFile returns the full decoded contents of a regular file
func (o *Ops) ReadFile(ctx context.Context, path, encoding string) (string, error) {
	const op = "read_file"
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, err := o.root.Resolve(path)
	if err != nil {
		return "", err
	}
	codec, err := lookupCodec(encoding)
	if err != nil {
		return "", &OpError{Op: op, Path: full, Msg: err.Error(), Kind: ErrIO, Err: err}
	}

	info, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", opErr(op, full, ErrNotFound, "File not found: "+full)
	case err != nil:
		return "", wrapOS(op, full, err)
	case info.IsDir():
		return "", opErr(op, full, ErrIsADirectory, "Is a directory: "+full)
	case !info.Mode().IsRegular():
		return "", opErr(op, full, ErrNotFound, "File not found: "+full)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", wrapOS(op, full, err)
	}
	text, err := codec.decode(data)
	if err != nil {
		return "", &OpError{Op: op, Path: full, Msg: err.Error(), Kind: ErrIO, Err: err}
	}
	return text, nil
}

// WriteFile creates the file, or appends to it when it already exists.
// The returned sentence reports this call's character and byte counts.
func (o *Ops) WriteFile(ctx context.Context, path, content, encoding string) (string, error) {
	const op = "write_file"
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, err := o.root.Resolve(path)
	if err != nil {
		return "", err
	}
	codec, err := lookupCodec(encoding)
	if err != nil {
		return "", &OpError{Op: op, Path: full, Msg: err.Error(), Kind: ErrIO, Err: err}
	}
	data, err := codec.encode(content)
	if err != nil {
		return "", &OpError{Op: op, Path: full, Msg: err.Error(), Kind: ErrIO, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", wrapOS(op, full, err)
	}

	existed := false
	if info, err := os.Stat(full); err == nil {
		if !info.Mode().IsRegular() {
			return "", opErr(op, full, ErrAlreadyExists, "Target exists and is not a file: "+full)
		}
		existed = true
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", wrapOS(op, full, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", wrapOS(op, full, err)
	}
	if err := f.Close(); err != nil {
		return "", wrapOS(op, full, err)
	}

	verb := "Created"
	if existed {
		verb = "Appended"
	}
	o.logger.Debug("file written",
		zap.String("path", full),
		zap.String("mode", verb),
		zap.Int("bytes", len(data)))

	return fmt.Sprintf("%s file at %s | Characters written: %d | Bytes written: %d",
		verb, full, utf8.RuneCountInString(content), len(data)), nil
}
