package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/tendant/researchlog/internal/fsutil"
	"github.com/tendant/researchlog/pkg/researchlog"
)

const backendName = "fs"

// Backend is a filesystem implementation of the researchlog.BlobStore interface.
// Assets are stored flat under BaseDir by file name.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Directory holding uploaded assets
}

// New creates a new filesystem storage backend
func New(config Config) (researchlog.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := fsutil.EnsureDir(config.BaseDir); err != nil {
		return nil, err
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

func (b *Backend) storageError(op, name string, err error) error {
	return &researchlog.StorageError{Backend: backendName, Key: name, Op: op, Err: err}
}

// Put writes the asset, replacing any existing file with the same name.
func (b *Backend) Put(ctx context.Context, name string, reader io.Reader) error {
	if err := researchlog.ValidateName(name); err != nil {
		return b.storageError("put", name, err)
	}
	if err := fsutil.EnsureDir(b.baseDir); err != nil {
		return b.storageError("put", name, researchlog.IOFailure(err))
	}

	if err := fsutil.WriteFile(b.baseDir, name, reader); err != nil {
		return b.storageError("put", name, researchlog.IOFailure(err))
	}
	return nil
}

func (b *Backend) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if researchlog.ValidateName(name) != nil || fsutil.IsTemp(name) {
		return nil, b.storageError("get", name, researchlog.ErrAssetNotFound)
	}

	file, err := os.Open(filepath.Join(b.baseDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, b.storageError("get", name, researchlog.ErrAssetNotFound)
	} else if err != nil {
		return nil, b.storageError("get", name, researchlog.IOFailure(err))
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, b.storageError("get", name, researchlog.IOFailure(err))
	}
	if info.IsDir() {
		file.Close()
		return nil, b.storageError("get", name, researchlog.ErrAssetNotFound)
	}

	return file, nil
}

// Remove deletes the asset. A missing file is not an error.
func (b *Backend) Remove(ctx context.Context, name string) error {
	if err := researchlog.ValidateName(name); err != nil {
		return b.storageError("remove", name, err)
	}

	err := os.Remove(filepath.Join(b.baseDir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return b.storageError("remove", name, researchlog.IOFailure(err))
	}
	return nil
}
