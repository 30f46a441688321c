package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
)

// postgresStorage keeps payload bytes in the payloads table, so the database
// is the single store for both metadata and content. Payloads are buffered in
// memory on write; this backend is meant for deployments where no filesystem
// or object store is available.
type postgresStorage struct {
	db *sql.DB
}

// NewPostgres creates the in-database backend on top of an open connection.
func NewPostgres(db *sql.DB) (Storage, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres storage requires a database handle")
	}
	return &postgresStorage{db: db}, nil
}

func (p *postgresStorage) Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read payload: %w", err)
	}
	const query = `
		INSERT INTO payloads (key, data, content_type, size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, content_type = EXCLUDED.content_type, size = EXCLUDED.size`
	if _, err := p.db.ExecContext(ctx, query, key, data, opt.ContentType, len(data)); err != nil {
		return ObjectInfo{}, fmt.Errorf("store payload: %w", err)
	}
	return ObjectInfo{Key: key, Size: int64(len(data)), ContentType: opt.ContentType}, nil
}

func (p *postgresStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	const query = `SELECT data, COALESCE(content_type, '') FROM payloads WHERE key = $1`
	var (
		data        []byte
		contentType string
	)
	err := p.db.QueryRowContext(ctx, query, key).Scan(&data, &contentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ObjectInfo{}, ErrNotFound
	}
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{Key: key, Size: int64(len(data)), ContentType: contentType}
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (p *postgresStorage) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM payloads WHERE key = $1`, key)
	return err
}
