package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/service"
)

type updateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Tags        *string `json:"tags"`
}

// UploadDocument stores a multipart file upload with its metadata.
//
//	@Summary	Upload a document
//	@Tags		documents
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		file	formData	file	true	"document payload"
//	@Success	201		{object}	model.Document
//	@Failure	400		{object}	errorPayload
//	@Router		/documents/upload [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			OwnerID:      actingUserID(c),
			Reader:       f,
			OriginalName: fh.Filename,
			ContentType:  ct,
			Size:         fh.Size,
			Title:        c.FormValue("title"),
			Description:  c.FormValue("description"),
			Category:     c.FormValue("category"),
			Tags:         c.FormValue("tags"),
			UploadIP:     c.IP(),
			UserAgent:    c.Get(fiber.HeaderUserAgent),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns a page of the caller's documents.
//
//	@Summary	List documents
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int		false	"page number"
//	@Param		limit		query		int		false	"page size"
//	@Param		category	query		string	false	"category filter"
//	@Param		search		query		string	false	"free-text search"
//	@Success	200			{object}	service.DocumentListResult
//	@Router		/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		res, err := svc.List(c.UserContext(), actingUserID(c), page, limit, c.Query("category"), c.Query("search"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns one owned document's metadata.
//
//	@Summary	Get a document
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.Document
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), actingUserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument edits an owned document's metadata.
//
//	@Summary	Update a document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.Document
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		doc, err := svc.Update(c.UserContext(), actingUserID(c), c.Params("id"), service.UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes an owned document, its payload, and its shares.
//
//	@Summary	Delete a document
//	@Tags		documents
//	@Security	BearerAuth
//	@Param		id	path	string	true	"document id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), actingUserID(c), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument streams an owned document's payload as an attachment.
//
//	@Summary	Download a document
//	@Tags		documents
//	@Produce	octet-stream
//	@Security	BearerAuth
//	@Param		id	path	string	true	"document id"
//	@Success	200
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, rc, err := svc.Download(c.UserContext(), actingUserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return streamDocument(c, doc, rc, true)
	}
}

// Dashboard summarizes the caller's documents and shares.
//
//	@Summary	Dashboard statistics
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	service.DashboardStats
//	@Router		/documents/dashboard [get]
func Dashboard(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Dashboard(c.UserContext(), actingUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(stats)
	}
}

// ListCategories returns the categories in use by the caller.
//
//	@Summary	Categories in use
//	@Tags		documents
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string][]string
//	@Router		/documents/categories [get]
func ListCategories(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := svc.Categories(c.UserContext(), actingUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"categories": categories})
	}
}

// streamDocument writes a payload to the response. Readers that implement
// io.Closer are closed by fasthttp once the body has been sent.
func streamDocument(c *fiber.Ctx, doc *model.Document, rc io.Reader, attachment bool) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	if attachment {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	} else {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.OriginalName))
	}
	return c.SendStream(rc, int(doc.Size))
}
