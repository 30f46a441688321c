package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/mayankk-1803/file-store/internal/http/middleware"
	"github.com/mayankk-1803/file-store/internal/service"
)

// RegisterRoutes attaches the HTTP surface to the provided Fiber app.
// Shared-token endpoints stay outside the auth gate: the share token is the
// capability there, not an account session.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, docSvc service.DocumentService, shareSvc service.ShareService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	requireAuth := middleware.Authenticate(authSvc)

	auth := app.Group("/auth")
	auth.Post("/register", Register(authSvc))
	auth.Post("/verify-otp", VerifyOTP(authSvc))
	auth.Post("/resend-otp", ResendOTP(authSvc))
	auth.Post("/login", Login(authSvc))
	auth.Get("/me", requireAuth, Me(authSvc))
	auth.Put("/profile", requireAuth, UpdateProfile(authSvc))

	docs := app.Group("/documents")
	docs.Get("/shared/:shareToken/download", SharedDownload(shareSvc))
	docs.Get("/shared/:shareToken/view", SharedView(shareSvc))

	docs.Use(requireAuth)
	docs.Post("/upload", UploadDocument(docSvc))
	docs.Get("/", ListDocuments(docSvc))
	docs.Get("/dashboard", Dashboard(docSvc))
	docs.Get("/categories", ListCategories(docSvc))
	docs.Get("/shared", ListShared(shareSvc))
	docs.Post("/share", IssueShare(shareSvc))
	docs.Delete("/share/:shareId", RevokeShare(shareSvc))

	// Parameterized routes go last so the specific paths above win.
	docs.Get("/:id", GetDocument(docSvc))
	docs.Put("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
}
