package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// diskStorage stores payloads as files under a root directory. Keys map to
// file names after sanitization; nested keys are flattened so a crafted key
// can never escape the root.
type diskStorage struct {
	root string
}

// NewDisk creates the local filesystem backend rooted at dir, creating the
// directory if it does not exist.
func NewDisk(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk storage root is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &diskStorage{root: dir}, nil
}

func (d *diskStorage) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(d.root, filepath.Base(name))
}

func (d *diskStorage) Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error) {
	path := d.path(key)
	tmp, err := os.CreateTemp(d.root, ".upload-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return ObjectInfo{}, fmt.Errorf("write payload: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return ObjectInfo{}, fmt.Errorf("store payload: %w", err)
	}
	return ObjectInfo{Key: key, Size: n, ContentType: opt.ContentType}, nil
}

func (d *diskStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{Key: key, Size: st.Size()}, nil
}

func (d *diskStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(d.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
