package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	"github.com/allisson/hireflow/internal/auth/http/dto"
	authUseCase "github.com/allisson/hireflow/internal/auth/usecase"
	"github.com/allisson/hireflow/internal/httputil"
	customValidation "github.com/allisson/hireflow/internal/validation"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// SignupHandler registers a recruiter or company identity.
// POST /api/auth/signup - Returns 201 Created with the public identity view.
func (h *AuthHandler) SignupHandler(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identity, err := h.authUseCase.Signup(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIdentityToSignupResponse(identity))
}

// LoginJSONHandler exchanges a JSON email and password for tokens.
// POST /api/auth/login-json
func (h *AuthHandler) LoginJSONHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	h.login(c, req.Email, req.Password)
}

// LoginFormHandler exchanges an OAuth2 password form for tokens.
// POST /api/auth/login - form fields username (the email) and password.
func (h *AuthHandler) LoginFormHandler(c *gin.Context) {
	var req dto.PasswordGrantRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	h.login(c, req.Username, req.Password)
}

func (h *AuthHandler) login(c *gin.Context, email, password string) {
	pair, err := h.authUseCase.Login(c.Request.Context(), email, password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// RefreshHandler mints a new access token from a refresh token.
// POST /api/auth/refresh
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// MeHandler returns the caller's public identity view.
// GET /api/auth/me - Requires AuthenticationMiddleware.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	identity, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
}

// ForgotPasswordHandler queues a password reset email.
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPasswordHandler(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.authUseCase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Reset link sent to your email"})
}

// ResetPasswordHandler sets a new password using a reset token.
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.authUseCase.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Password reset successful. A confirmation email has been sent.",
	})
}
