package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/service"
)

type issueShareRequest struct {
	DocumentID  string `json:"documentId"`
	Email       string `json:"email"`
	Permissions string `json:"permissions"`
	ExpiresIn   *int   `json:"expiresIn"`
}

// IssueShare creates a share grant for an owned document.
//
//	@Summary	Share a document
//	@Tags		shares
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		issueShareRequest	true	"share fields"
//	@Success	201		{object}	map[string]any
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/documents/share [post]
func IssueShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req issueShareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		share, err := svc.Issue(c.UserContext(), service.IssueInput{
			GrantorID:      actingUserID(c),
			DocumentID:     req.DocumentID,
			RecipientEmail: req.Email,
			Permission:     req.Permissions,
			ExpiresInDays:  req.ExpiresIn,
		})
		if err != nil {
			return respondError(c, err)
		}
		// The token is also surfaced top-level so callers need not dig into
		// the share object to build the link.
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"share":      share,
			"shareToken": share.Token,
		})
	}
}

// ListShared returns the caller's shares, both directions.
//
//	@Summary	List shares
//	@Tags		shares
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	service.SharedOverview
//	@Router		/documents/shared [get]
func ListShared(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		overview, err := svc.ListShared(c.UserContext(), actingUserID(c), actingUserEmail(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(overview)
	}
}

// RevokeShare soft-deactivates one of the caller's shares.
//
//	@Summary	Revoke a share
//	@Tags		shares
//	@Security	BearerAuth
//	@Param		shareId	path	string	true	"share id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/share/{shareId} [delete]
func RevokeShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Revoke(c.UserContext(), actingUserID(c), c.Params("shareId")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SharedDownload serves a shared payload as an attachment. No account is
// required; the token is the capability.
//
//	@Summary	Download a shared document
//	@Tags		shares
//	@Produce	octet-stream
//	@Param		shareToken	path	string	true	"share token"
//	@Success	200
//	@Failure	403	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/shared/{shareToken}/download [get]
func SharedDownload(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, rc, err := svc.Resolve(c.UserContext(), c.Params("shareToken"), model.PermissionDownload)
		if err != nil {
			return respondError(c, err)
		}
		return streamDocument(c, doc, rc, true)
	}
}

// SharedView serves a shared payload inline for in-browser viewing.
//
//	@Summary	View a shared document
//	@Tags		shares
//	@Param		shareToken	path	string	true	"share token"
//	@Success	200
//	@Failure	403	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/documents/shared/{shareToken}/view [get]
func SharedView(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, rc, err := svc.Resolve(c.UserContext(), c.Params("shareToken"), model.PermissionView)
		if err != nil {
			return respondError(c, err)
		}
		return streamDocument(c, doc, rc, false)
	}
}
