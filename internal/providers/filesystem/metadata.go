package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/shared/utils"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// GetFileInfo describes a file or directory. checksum selects an optional
// content digest for regular files ("sha256" or "blake2b").
func (o *Ops) GetFileInfo(ctx context.Context, path, checksum string) (types.Entry, error) {
	const op = "get_file_info"
	if err := ctx.Err(); err != nil {
		return types.Entry{}, err
	}

	full, err := o.root.Resolve(path)
	if err != nil {
		return types.Entry{}, err
	}

	var hasher *utils.Hasher
	if checksum != "" {
		alg, err := utils.ParseHashAlgorithm(checksum)
		if err != nil {
			return types.Entry{}, &OpError{Op: op, Path: full, Msg: err.Error(), Kind: ErrIO, Err: err}
		}
		hasher = utils.NewHasher(alg)
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return types.Entry{}, opErr(op, full, ErrNotFound, "Not found: "+full)
	}
	if err != nil {
		return types.Entry{}, wrapOS(op, full, err)
	}

	entry := entryFor(full)
	exists := true
	modified := info.ModTime().UTC()
	entry.Exists = &exists
	entry.Mode = info.Mode().String()
	entry.Modified = &modified

	if info.Mode().IsRegular() {
		if mtype, err := mimetype.DetectFile(full); err == nil {
			entry.MimeType = mtype.String()
		} else {
			o.logger.Debug("mime detection failed", zap.String("path", full), zap.Error(err))
		}

		if hasher != nil {
			sum, err := hasher.HashFile(full)
			if err != nil {
				return types.Entry{}, wrapOS(op, full, err)
			}
			entry.Checksum = string(hasher.Algorithm()) + ":" + sum
		}
	}

	return entry, nil
}
