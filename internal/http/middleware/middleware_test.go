package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayankk-1803/file-store/internal/model"
	"github.com/mayankk-1803/file-store/internal/service"
	svcMocks "github.com/mayankk-1803/file-store/internal/service/mocks"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace an oversized request id", func(t *testing.T) {
		oversized := strings.Repeat("x", 200)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, oversized)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEqual(t, oversized, rid)
		assert.NotEmpty(t, rid)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	// Logger depends on RequestID for the request_id field.
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func TestAuthenticate(t *testing.T) {
	newApp := func(svc service.AuthService) *fiber.App {
		app := fiber.New()
		app.Use(Authenticate(svc))
		app.Get("/me", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"userId": c.Locals(UserIDLocalKey),
				"email":  c.Locals(UserEmailLocalKey),
			})
		})
		return app
	}

	t.Run("valid token populates identity locals", func(t *testing.T) {
		svc := new(svcMocks.MockAuthService)
		svc.On("Authenticate", mock.Anything, "good-token").
			Return(&model.User{ID: "u1", Email: "alice@example.com"}, nil)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
		resp, err := newApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "u1", body["userId"])
		assert.Equal(t, "alice@example.com", body["email"])
	})

	t.Run("missing header is 401", func(t *testing.T) {
		svc := new(svcMocks.MockAuthService)
		req := httptest.NewRequest("GET", "/me", nil)
		resp, err := newApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		svc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("non-bearer scheme is 401", func(t *testing.T) {
		svc := new(svcMocks.MockAuthService)
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		resp, err := newApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
