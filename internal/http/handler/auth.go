package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mayankk-1803/file-store/internal/http/middleware"
	"github.com/mayankk-1803/file-store/internal/service"
)

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfileRequest uses pointers for the immutable fields so their mere
// presence in the payload can be rejected.
type updateProfileRequest struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      *string `json:"email"`
	NationalID *string `json:"nationalId"`
}

// Register creates a new account and triggers the verification e-mail.
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"registration fields"
//	@Success	201		{object}	map[string]any
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		user, err := svc.Register(c.UserContext(), service.RegisterInput{
			Name:       req.Name,
			Email:      req.Email,
			Password:   req.Password,
			Phone:      req.Phone,
			NationalID: req.NationalID,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "verification code sent to your email",
			"user":    user,
		})
	}
}

// VerifyOTP confirms the e-mailed code and opens the first session.
//
//	@Summary	Verify the registration OTP
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		verifyOTPRequest	true	"email and code"
//	@Success	200		{object}	service.Session
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/auth/verify-otp [post]
func VerifyOTP(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyOTPRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		sess, err := svc.VerifyOTP(c.UserContext(), req.Email, req.OTP)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(sess)
	}
}

// ResendOTP issues a fresh verification code for an unverified account.
//
//	@Summary	Resend the registration OTP
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		resendOTPRequest	true	"account email"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/auth/resend-otp [post]
func ResendOTP(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resendOTPRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		if err := svc.ResendOTP(c.UserContext(), req.Email); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "verification code sent to your email"})
	}
}

// Login opens a session for a verified account.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"credentials"
//	@Success	200		{object}	service.Session
//	@Failure	401		{object}	errorPayload
//	@Failure	403		{object}	errorPayload
//	@Router		/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		sess, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(sess)
	}
}

// Me returns the authenticated user's profile.
//
//	@Summary	Current user profile
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.User
//	@Router		/auth/me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := svc.Profile(c.UserContext(), actingUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	}
}

// UpdateProfile edits the mutable profile fields. Immutable fields present in
// the payload are rejected rather than silently ignored.
//
//	@Summary	Update profile
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.User
//	@Failure	400	{object}	errorPayload
//	@Router		/auth/profile [put]
func UpdateProfile(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		if req.Email != nil || req.NationalID != nil {
			return writeError(c, fiber.StatusBadRequest, "IMMUTABLE_FIELD", "email and nationalId cannot be changed")
		}

		user, err := svc.UpdateProfile(c.UserContext(), actingUserID(c), req.Name, req.Phone)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	}
}

// actingUserID reads the identity stored by the auth middleware.
func actingUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDLocalKey).(string)
	return id
}

func actingUserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(middleware.UserEmailLocalKey).(string)
	return email
}
