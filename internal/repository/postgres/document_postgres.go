package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, owner_id, title, description, category, storage_path, original_name, content_type, size, tags, upload_ip, user_agent, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.Description,
		&d.Category,
		&d.StoragePath,
		&d.OriginalName,
		&d.ContentType,
		&d.Size,
		&d.Tags,
		&d.UploadIP,
		&d.UserAgent,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, owner_id, title, description, category, storage_path, original_name, content_type, size, tags, upload_ip, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.StoragePath,
		doc.OriginalName,
		doc.ContentType,
		doc.Size,
		doc.Tags,
		doc.UploadIP,
		doc.UserAgent,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID regardless of owner.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// FindByOwner fetches a document scoped by exact ownership match.
func (r *DocumentPostgres) FindByOwner(ctx context.Context, id, ownerID string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND owner_id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// List returns documents for the filter using LIMIT/OFFSET pagination and a
// total count. Search matches title or description case-insensitively.
func (r *DocumentPostgres) List(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	where := `WHERE owner_id = $1`
	args := []any{q.OwnerID}

	if q.Category != "" {
		args = append(args, q.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	qCount := `SELECT COUNT(*) FROM documents ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, q.Page.Limit, q.Page.Offset)
	qList := fmt.Sprintf(
		`SELECT `+documentColumns+` FROM documents %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)
	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateMetadata persists mutable metadata, scoped by ownership.
func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET title = $3, description = $4, category = $5, tags = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.Tags,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// CountByOwner returns the number of documents owned by ownerID.
func (r *DocumentPostgres) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE owner_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecentByOwner returns the n newest documents for the owner.
func (r *DocumentPostgres) RecentByOwner(ctx context.Context, ownerID string, n int) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, ownerID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0, n)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// CategoryCounts returns category → document count for the owner.
func (r *DocumentPostgres) CategoryCounts(ctx context.Context, ownerID string) (map[string]int, error) {
	const q = `SELECT category, COUNT(*) FROM documents WHERE owner_id = $1 GROUP BY category`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// DistinctCategories returns the categories in use by the owner.
func (r *DocumentPostgres) DistinctCategories(ctx context.Context, ownerID string) ([]string, error) {
	const q = `SELECT DISTINCT category FROM documents WHERE owner_id = $1 ORDER BY category`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
