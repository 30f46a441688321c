package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayankk-1803/file-store/internal/http/middleware"
	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/service"
	serviceMocks "github.com/mayankk-1803/file-store/internal/service/mocks"
)

// asUser injects the identity locals the auth middleware would set.
func asUser(id, email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDLocalKey, id)
		c.Locals(middleware.UserEmailLocalKey, email)
		return c.Next()
	}
}

func decodeError(t *testing.T, body io.Reader) errorPayload {
	t.Helper()
	var payload errorPayload
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func postJSON(path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/auth/register", Register(mockSvc))

		mockSvc.On("Register", mock.Anything, service.RegisterInput{
			Name: "Alice", Email: "a@x.com", Password: "secret1",
		}).Return(&model.User{ID: "u1", Email: "a@x.com"}, nil)

		resp, _ := app.Test(postJSON("/auth/register", fiber.Map{
			"name": "Alice", "email": "a@x.com", "password": "secret1",
		}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate is 409", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/auth/register", Register(mockSvc))

		mockSvc.On("Register", mock.Anything, mock.Anything).Return(nil, service.ErrConflict)

		resp, _ := app.Test(postJSON("/auth/register", fiber.Map{"email": "a@x.com"}))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_EXISTS", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("validation errors become 400 with details", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/auth/register", Register(mockSvc))

		mockSvc.On("Register", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Violations: []string{"name is required", "a valid email is required"}})

		resp, _ := app.Test(postJSON("/auth/register", fiber.Map{}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		payload := decodeError(t, resp.Body)
		assert.Equal(t, "VALIDATION_ERROR", payload.Error.Code)
		assert.Contains(t, payload.Error.Message, "name is required")
		assert.Contains(t, payload.Error.Message, "a valid email is required")
	})
}

func TestLogin(t *testing.T) {
	t.Run("session returned", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/auth/login", Login(mockSvc))

		mockSvc.On("Login", mock.Anything, "a@x.com", "secret1").
			Return(&service.Session{Token: "jwt", User: &model.User{ID: "u1"}}, nil)

		resp, _ := app.Test(postJSON("/auth/login", fiber.Map{"email": "a@x.com", "password": "secret1"}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var sess service.Session
		json.NewDecoder(resp.Body).Decode(&sess)
		assert.Equal(t, "jwt", sess.Token)
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/auth/login", Login(mockSvc))

		mockSvc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrUnauthorized)

		resp, _ := app.Test(postJSON("/auth/login", fiber.Map{"email": "a@x.com", "password": "nope"}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unverified account is 403", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/auth/login", Login(mockSvc))

		mockSvc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNotVerified)

		resp, _ := app.Test(postJSON("/auth/login", fiber.Map{"email": "a@x.com", "password": "secret1"}))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "NOT_VERIFIED", decodeError(t, resp.Body).Error.Code)
	})
}

func TestVerifyOTP(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/auth/verify-otp", VerifyOTP(mockSvc))

	mockSvc.On("VerifyOTP", mock.Anything, "a@x.com", "123456").
		Return(&service.Session{Token: "jwt", User: &model.User{ID: "u1", IsVerified: true}}, nil)

	resp, _ := app.Test(postJSON("/auth/verify-otp", fiber.Map{"email": "a@x.com", "otp": "123456"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestResendOTP(t *testing.T) {
	newApp := func(svc service.AuthService) *fiber.App {
		app := fiber.New()
		app.Post("/auth/resend-otp", ResendOTP(svc))
		return app
	}

	t.Run("resent", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := newApp(mockSvc)
		mockSvc.On("ResendOTP", mock.Anything, "a@x.com").Return(nil)

		resp, _ := app.Test(postJSON("/auth/resend-otp", fiber.Map{"email": "a@x.com"}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("already verified is 409", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := newApp(mockSvc)
		mockSvc.On("ResendOTP", mock.Anything, "a@x.com").Return(service.ErrConflict)

		resp, _ := app.Test(postJSON("/auth/resend-otp", fiber.Map{"email": "a@x.com"}))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestUpdateProfile(t *testing.T) {
	newApp := func(svc service.AuthService) *fiber.App {
		app := fiber.New()
		app.Put("/auth/profile", asUser("u1", "a@x.com"), UpdateProfile(svc))
		return app
	}

	t.Run("immutable field rejected", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := newApp(mockSvc)

		b, _ := json.Marshal(fiber.Map{"name": "Alice", "email": "new@x.com"})
		req := httptest.NewRequest(http.MethodPut, "/auth/profile", bytes.NewReader(b))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "IMMUTABLE_FIELD", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mutable fields updated", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		app := newApp(mockSvc)

		mockSvc.On("UpdateProfile", mock.Anything, "u1", "Alice B", "+47123").
			Return(&model.User{ID: "u1", Name: "Alice B"}, nil)

		b, _ := json.Marshal(fiber.Map{"name": "Alice B", "phone": "+47123"})
		req := httptest.NewRequest(http.MethodPut, "/auth/profile", bytes.NewReader(b))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadDocument(t *testing.T) {
	newRequest := func(t *testing.T, fields map[string]string, withFile bool) *http.Request {
		t.Helper()
		body := new(bytes.Buffer)
		w := multipart.NewWriter(body)
		for k, v := range fields {
			require.NoError(t, w.WriteField(k, v))
		}
		if withFile {
			fw, err := w.CreateFormFile("file", "passport.pdf")
			require.NoError(t, err)
			fw.Write([]byte("%PDF-1.4 test"))
		}
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
		return req
	}

	t.Run("created", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Post("/documents/upload", asUser("u1", "a@x.com"), UploadDocument(mockSvc))

		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.OwnerID == "u1" &&
				in.OriginalName == "passport.pdf" &&
				in.Title == "Passport" &&
				in.Category == model.CategoryGovernment &&
				in.Reader != nil
		})).Return(&model.Document{ID: "d1", Title: "Passport"}, nil)

		resp, _ := app.Test(newRequest(t, map[string]string{
			"title": "Passport", "category": "government",
		}, true))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file is 400", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Post("/documents/upload", asUser("u1", "a@x.com"), UploadDocument(mockSvc))

		resp, _ := app.Test(newRequest(t, map[string]string{"title": "Passport"}, false))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})
}

func TestListDocuments(t *testing.T) {
	newApp := func(svc service.DocumentService) *fiber.App {
		app := fiber.New()
		app.Get("/documents", asUser("u1", "a@x.com"), ListDocuments(svc))
		return app
	}

	t.Run("success with filters", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)

		mockSvc.On("List", mock.Anything, "u1", 2, 5, "finance", "tax").
			Return(&service.DocumentListResult{
				Items: []model.Document{{ID: "d1"}},
				Total: 11, Page: 2, Limit: 5,
			}, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents?page=2&limit=5&category=finance&search=tax", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 11, result.Total)
		assert.Len(t, result.Items, 1)
	})

	t.Run("invalid limit", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error is 500", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)

		mockSvc.On("List", mock.Anything, "u1", 1, 10, "", "").Return(nil, errors.New("boom"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", asUser("u1", "a@x.com"), GetDocument(mockSvc))

	t.Run("found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "u1", "d1").Return(&model.Document{ID: "d1"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/d1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not owned is 404", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "u1", "d2").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/d2", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", asUser("u1", "a@x.com"), DeleteDocument(mockSvc))

	mockSvc.On("Delete", mock.Anything, "u1", "d1").Return(nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/d1", nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id/download", asUser("u1", "a@x.com"), DownloadDocument(mockSvc))

	doc := &model.Document{ID: "d1", OriginalName: "passport.pdf", ContentType: "application/pdf", Size: 7}
	mockSvc.On("Download", mock.Anything, "u1", "d1").
		Return(doc, io.NopCloser(strings.NewReader("payload")), nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/d1/download", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "passport.pdf")

	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "payload", string(data))
}

func TestDashboard(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/dashboard", asUser("u1", "a@x.com"), Dashboard(mockSvc))

	mockSvc.On("Dashboard", mock.Anything, "u1").Return(&service.DashboardStats{
		TotalDocuments: 3,
		ActiveShares:   1,
		CategoryCounts: map[string]int{"finance": 3},
	}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/dashboard", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats service.DashboardStats
	json.NewDecoder(resp.Body).Decode(&stats)
	assert.Equal(t, 3, stats.TotalDocuments)
}

func TestIssueShare(t *testing.T) {
	newApp := func(svc service.ShareService) *fiber.App {
		app := fiber.New()
		app.Post("/documents/share", asUser("u1", "a@x.com"), IssueShare(svc))
		return app
	}

	t.Run("created with token exposed", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockShareService)
		app := newApp(mockSvc)

		seven := 7
		mockSvc.On("Issue", mock.Anything, service.IssueInput{
			GrantorID:      "u1",
			DocumentID:     "d1",
			RecipientEmail: "b@x.com",
			Permission:     "view",
			ExpiresInDays:  &seven,
		}).Return(&model.Share{ID: "s1", Token: "tok123", IsActive: true}, nil)

		resp, _ := app.Test(postJSON("/documents/share", fiber.Map{
			"documentId": "d1", "email": "b@x.com", "permissions": "view", "expiresIn": 7,
		}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "tok123", body["shareToken"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("document not owned is 404", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockShareService)
		app := newApp(mockSvc)

		mockSvc.On("Issue", mock.Anything, mock.Anything).Return(nil, service.ErrNotFound)

		resp, _ := app.Test(postJSON("/documents/share", fiber.Map{
			"documentId": "d1", "email": "b@x.com", "permissions": "view",
		}))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListShared(t *testing.T) {
	mockSvc := new(serviceMocks.MockShareService)
	app := fiber.New()
	app.Get("/documents/shared", asUser("u1", "a@x.com"), ListShared(mockSvc))

	t.Run("tokens present in both directions", func(t *testing.T) {
		mockSvc.On("ListShared", mock.Anything, "u1", "a@x.com").Return(&service.SharedOverview{
			SharedByMe: []model.GrantedShare{
				{Share: model.Share{ID: "s1", Token: "tok-granted", IsActive: true}},
			},
			SharedWithMe: []model.ReceivedShare{
				{Share: model.Share{ID: "s2", Token: "tok-received", IsActive: true}},
			},
		}, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/shared", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			SharedByMe   []map[string]any `json:"sharedByMe"`
			SharedWithMe []map[string]any `json:"sharedWithMe"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		require.Len(t, body.SharedByMe, 1)
		require.Len(t, body.SharedWithMe, 1)
		assert.Equal(t, "tok-granted", body.SharedByMe[0]["shareToken"])
		assert.Equal(t, "tok-received", body.SharedWithMe[0]["shareToken"])
	})
}

func TestRevokeShare(t *testing.T) {
	mockSvc := new(serviceMocks.MockShareService)
	app := fiber.New()
	app.Delete("/documents/share/:shareId", asUser("u1", "a@x.com"), RevokeShare(mockSvc))

	t.Run("revoked", func(t *testing.T) {
		mockSvc.On("Revoke", mock.Anything, "u1", "s1").Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/share/s1", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("not owned is 404", func(t *testing.T) {
		mockSvc.On("Revoke", mock.Anything, "u1", "s2").Return(service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/share/s2", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSharedEndpoints(t *testing.T) {
	doc := &model.Document{ID: "d1", OriginalName: "passport.pdf", ContentType: "application/pdf", Size: 7}

	newApp := func(svc service.ShareService) *fiber.App {
		app := fiber.New()
		app.Get("/documents/shared/:shareToken/download", SharedDownload(svc))
		app.Get("/documents/shared/:shareToken/view", SharedView(svc))
		return app
	}

	t.Run("download streams attachment", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockShareService)
		app := newApp(mockSvc)

		mockSvc.On("Resolve", mock.Anything, "tok", model.PermissionDownload).
			Return(doc, io.NopCloser(strings.NewReader("payload")), nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/shared/tok/download", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	})

	t.Run("view streams inline", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockShareService)
		app := newApp(mockSvc)

		mockSvc.On("Resolve", mock.Anything, "tok", model.PermissionView).
			Return(doc, io.NopCloser(strings.NewReader("payload")), nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/shared/tok/view", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "inline")
	})

	t.Run("view-only grant cannot download", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockShareService)
		app := newApp(mockSvc)

		mockSvc.On("Resolve", mock.Anything, "tok", model.PermissionDownload).
			Return(nil, nil, service.ErrForbidden)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/shared/tok/download", nil))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("revoked or expired token is 404", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockShareService)
		app := newApp(mockSvc)

		mockSvc.On("Resolve", mock.Anything, "tok", model.PermissionView).
			Return(nil, nil, service.ErrNotFound)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/shared/tok/view", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
