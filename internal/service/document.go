package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/repository"
	"github.com/mayankk-1803/file-store/internal/storage"
)

// UploadInput carries everything needed to store a new document.
type UploadInput struct {
	OwnerID      string
	Reader       io.Reader
	OriginalName string
	ContentType  string
	Size         int64

	Title       string
	Description string
	Category    string
	Tags        string

	UploadIP  string
	UserAgent string
}

// UpdateInput holds the mutable document metadata. Nil fields are left
// untouched so a partial update never clobbers existing values.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"documents"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// DashboardStats summarizes one user's documents for the dashboard view.
type DashboardStats struct {
	TotalDocuments  int              `json:"totalDocuments"`
	RecentDocuments []model.Document `json:"recentDocuments"`
	ActiveShares    int              `json:"activeShares"`
	CategoryCounts  map[string]int   `json:"categoryCounts"`
}

// DocumentService defines the use cases for handling documents. Every
// operation is scoped to the acting owner; a document belonging to someone
// else is indistinguishable from an absent one.
type DocumentService interface {
	// Upload stores the payload via the configured backend, then persists the
	// metadata. A failed metadata write rolls the payload back.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns a page of the owner's documents, newest first, optionally
	// narrowed by category and a free-text search over title and description.
	List(ctx context.Context, ownerID string, page, limit int, category, search string) (*DocumentListResult, error)

	// Get returns a single owned document by ID.
	Get(ctx context.Context, ownerID, id string) (*model.Document, error)

	// Update edits the mutable metadata of an owned document.
	Update(ctx context.Context, ownerID, id string, in UpdateInput) (*model.Document, error)

	// Delete releases the payload, removes every share referencing the
	// document, then deletes the metadata. A payload release failure aborts
	// the whole operation.
	Delete(ctx context.Context, ownerID, id string) error

	// Download returns the document and a reader over its payload. The caller
	// must close the reader.
	Download(ctx context.Context, ownerID, id string) (*model.Document, io.ReadCloser, error)

	// Dashboard returns the owner's document statistics.
	Dashboard(ctx context.Context, ownerID string) (*DashboardStats, error)

	// Categories returns the distinct categories in use by the owner.
	Categories(ctx context.Context, ownerID string) ([]string, error)
}

type documentService struct {
	store  storage.Storage
	docs   repository.DocumentRepository
	shares repository.ShareRepository
	now    func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, shares repository.ShareRepository) DocumentService {
	return &documentService{store: store, docs: docs, shares: shares, now: time.Now}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	var v validate
	v.addf(in.Reader != nil, "file is required")
	v.addf(in.OriginalName != "", "filename is required")
	v.addf(model.ValidCategory(in.Category), "category must be one of: "+strings.Join(model.Categories, ", "))
	if err := v.err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		in.Title = in.OriginalName
	}

	// Payload key is a fresh UUID plus the original extension, so nothing
	// user-controlled reaches the storage backend.
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+filepath.Ext(in.OriginalName)))

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:           uuid.New().String(),
		OwnerID:      in.OwnerID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Category:     in.Category,
		StoragePath:  objInfo.Key,
		OriginalName: in.OriginalName,
		ContentType:  in.ContentType,
		Size:         objInfo.Size,
		Tags:         in.Tags,
		UploadIP:     in.UploadIP,
		UserAgent:    in.UserAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Roll the payload back so a failed metadata write leaves nothing
		// behind. The backend-reported key is the source of truth.
		if delErr := s.store.Delete(ctx, doc.StoragePath); delErr != nil {
			return nil, fmt.Errorf("save metadata: %v; rollback payload: %v", err, delErr)
		}
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, ownerID string, page, limit int, category, search string) (*DocumentListResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if category != "" && !model.ValidCategory(category) {
		return nil, &ValidationError{Violations: []string{"category must be one of: " + strings.Join(model.Categories, ", ")}}
	}

	res, err := s.docs.List(ctx, repository.DocumentQuery{
		OwnerID:  ownerID,
		Category: category,
		Search:   strings.TrimSpace(search),
		Page:     repository.PageQuery{Limit: limit, Offset: (page - 1) * limit},
	})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total, Page: page, Limit: limit}, nil
}

func (s *documentService) Get(ctx context.Context, ownerID, id string) (*model.Document, error) {
	return s.findOwned(ctx, ownerID, id)
}

func (s *documentService) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*model.Document, error) {
	var v validate
	if in.Category != nil {
		v.addf(model.ValidCategory(*in.Category), "category must be one of: "+strings.Join(model.Categories, ", "))
	}
	if in.Title != nil {
		v.addf(strings.TrimSpace(*in.Title) != "", "title must not be empty")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	doc, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		doc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		doc.Description = *in.Description
	}
	if in.Category != nil {
		doc.Category = *in.Category
	}
	if in.Tags != nil {
		doc.Tags = *in.Tags
	}
	doc.UpdatedAt = s.now().UTC()

	updated, err := s.docs.UpdateMetadata(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *documentService) Delete(ctx context.Context, ownerID, id string) error {
	doc, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	// Release the payload first; keeping the metadata on failure beats
	// leaking an unreachable payload.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("release payload: %w", err)
	}
	if err := s.shares.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("remove shares: %w", err)
	}
	return s.docs.Delete(ctx, id)
}

func (s *documentService) Download(ctx context.Context, ownerID, id string) (*model.Document, io.ReadCloser, error) {
	doc, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Metadata without a payload is treated as absent, not served corrupt.
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("read payload: %w", err)
	}
	return doc, rc, nil
}

func (s *documentService) Dashboard(ctx context.Context, ownerID string) (*DashboardStats, error) {
	total, err := s.docs.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.docs.RecentByOwner(ctx, ownerID, 5)
	if err != nil {
		return nil, err
	}
	activeShares, err := s.shares.CountActiveByGrantor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.docs.CategoryCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalDocuments:  total,
		RecentDocuments: recent,
		ActiveShares:    activeShares,
		CategoryCounts:  byCategory,
	}, nil
}

func (s *documentService) Categories(ctx context.Context, ownerID string) ([]string, error) {
	return s.docs.DistinctCategories(ctx, ownerID)
}

func (s *documentService) findOwned(ctx context.Context, ownerID, id string) (*model.Document, error) {
	// Reject malformed IDs up front; the id column is UUID-typed and a bad
	// literal would otherwise surface as a database error.
	if _, err := uuid.Parse(id); err != nil {
		return nil, &ValidationError{Violations: []string{"document id must be a valid uuid"}}
	}
	doc, err := s.docs.FindByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}
