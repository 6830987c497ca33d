// Package http provides the candidate OTP login handlers.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/hireflow/internal/candidate/http/dto"
	candidateUseCase "github.com/allisson/hireflow/internal/candidate/usecase"
	"github.com/allisson/hireflow/internal/httputil"
	customValidation "github.com/allisson/hireflow/internal/validation"
)

// CandidateHandler serves /api/candidates.
type CandidateHandler struct {
	candidateUseCase candidateUseCase.CandidateUseCase
	logger           *slog.Logger
}

// NewCandidateHandler creates a new candidate handler.
func NewCandidateHandler(candidateUseCase candidateUseCase.CandidateUseCase, logger *slog.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidateUseCase: candidateUseCase,
		logger:           logger,
	}
}

// LoginHandler finds or creates the candidate and emails a fresh OTP.
// POST /api/candidates/login - form or JSON body with name and email.
func (h *CandidateHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	candidate, err := h.candidateUseCase.Login(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:     "OTP sent to your email",
		CandidateID: candidate.ID.String(),
	})
}

// VerifyOTPHandler checks a submitted code.
// POST /api/candidates/verify_otp - 200 on match, 401 invalid_otp otherwise.
func (h *CandidateHandler) VerifyOTPHandler(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		httputil.HandleBadRequestGin(c, errors.New("invalid candidate_id format"), h.logger)
		return
	}

	ok, err := h.candidateUseCase.VerifyOTP(c.Request.Context(), candidateID, req.OTP)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !ok {
		c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
			Error:   "invalid_otp",
			Message: "Invalid or expired OTP",
		})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "OTP verified"})
}
