package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains payload storage backends. Documents reference
// payloads by an opaque key; the backend in use is selected at startup and
// all backends speak streaming I/O only.

// ErrNotFound is returned when no payload exists under the requested key.
var ErrNotFound = errors.New("storage: payload not found")

// PutOptions define optional parameters for storing a payload.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the backend will buffer/chunk as it supports.
type PutOptions struct {
	Size        int64
	ContentType string
}

// ObjectInfo contains basic information about a stored payload.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage is a payload storage backend. Methods use context and streaming
// readers; callers must close the reader returned by Get.
type Storage interface {
	// Put stores a payload under the given key using the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Get retrieves a payload's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a payload by key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
