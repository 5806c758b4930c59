package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/arch2mesh/uploader/applications/server/domain"
	"github.com/arch2mesh/uploader/applications/server/interfaces"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type diskStorage struct {
	root string
	log  log.Logger
}

// NewStorage creates root if it does not exist yet. An existing directory is not an error.
func NewStorage(root string, logger log.Logger) (interfaces.Storage, error) {
	if root == "" {
		return nil, errors.New("empty upload directory")
	}

	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("can't create upload directory %s: %w", root, err)
	}

	level.Info(logger).Log("msg", "upload directory ready", "dir", root)

	return &diskStorage{
		root: filepath.Clean(root),
		log:  logger,
	}, nil
}

func (d *diskStorage) Describe() string {
	return "disk:" + d.root
}

func (d *diskStorage) SaveFile(ctx context.Context, name string, body io.Reader) (int64, error) {
	fullPath, err := d.resolve(name)
	if err != nil {
		return 0, err
	}

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	if dir := filepath.Dir(fullPath); dir != d.root {
		if err = os.MkdirAll(dir, dirPerm); err != nil {
			return 0, fmt.Errorf("can't create directory %s: %w", dir, err)
		}
	}

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return 0, fmt.Errorf("can't create file %s: %w", fullPath, err)
	}

	written, err := io.Copy(dst, body)
	if err != nil {
		dst.Close()
		if rmErr := os.Remove(fullPath); rmErr != nil {
			level.Warn(d.log).Log("msg", "can't remove partial file", "path", fullPath, "err", rmErr)
		}
		return 0, fmt.Errorf("can't write file %s: %w", fullPath, err)
	}

	if err = dst.Close(); err != nil {
		return 0, fmt.Errorf("can't close file %s: %w", fullPath, err)
	}

	level.Info(d.log).Log("msg", "file stored",
		"path", fullPath,
		"size", humanize.Bytes(uint64(written)),
	)

	return written, nil
}

func (d *diskStorage) OpenFile(ctx context.Context, name string) (domain.File, error) {
	fullPath, err := d.resolve(name)
	if err != nil {
		return domain.File{}, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.File{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, name)
		}
		return domain.File{}, fmt.Errorf("can't open file %s: %w", fullPath, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return domain.File{}, fmt.Errorf("can't stat file %s: %w", fullPath, err)
	}

	if info.IsDir() {
		f.Close()
		return domain.File{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, name)
	}

	return domain.File{
		Meta: domain.FileMeta{
			Name:          name,
			ContentLength: info.Size(),
		},
		Body: f,
	}, nil
}

func (d *diskStorage) resolve(name string) (string, error) {
	name, err := domain.CleanStoredPath(name)
	if err != nil {
		return "", err
	}

	return filepath.Join(d.root, filepath.FromSlash(name)), nil
}
