package storer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// NewFileStorer creates a storer that keeps the payload in a single file at path.
// Writes go to a temporary file next to the target which is synced and then renamed
// over it, so a crash leaves either the old or the new payload, never a mix.
// Missing parent directories are created on the first Store.
func NewFileStorer(path string) IStorer {
	return &fileStorerImpl{path: path}
}

type fileStorerImpl struct {
	path string
	mu   sync.Mutex
}

// --------------------------------------------------------------------------
// Interface Methods (docu see storer.IStorer)
// --------------------------------------------------------------------------

func (f *fileStorerImpl) Store(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file storer: create dir: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(f.path)+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("file storer: create temp file: %w", err)
	}

	// remove the temp file on any failure below
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file storer: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file storer: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file storer: close: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("file storer: rename: %w", err)
	}
	committed = true

	syncDir(dir)
	Logger.Debugf("stored %d bytes in %s", len(data), f.path)
	return nil
}

func (f *fileStorerImpl) Retrieve() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file storer: read: %w", err)
	}
	return data, nil
}

// syncDir makes the rename durable. Not every platform supports syncing directories,
// so failures are only logged.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		Logger.Debugf("sync of dir %s failed: %v", dir, err)
	}
}
