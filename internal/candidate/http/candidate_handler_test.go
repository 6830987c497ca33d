package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	candidateDomain "github.com/allisson/hireflow/internal/candidate/domain"
	"github.com/allisson/hireflow/internal/candidate/http/dto"
	usecaseMocks "github.com/allisson/hireflow/internal/candidate/usecase/mocks"
	"github.com/allisson/hireflow/internal/httputil"
)

func setupCandidateHandler(t *testing.T) (*CandidateHandler, *usecaseMocks.MockCandidateUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockUseCase := &usecaseMocks.MockCandidateUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCandidateHandler(mockUseCase, logger), mockUseCase
}

func jsonContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(body)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func formContext(method, path string, form url.Values) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c, w
}

func TestCandidateHandler_LoginHandler(t *testing.T) {
	t.Run("Success_Form", func(t *testing.T) {
		handler, mockUseCase := setupCandidateHandler(t)
		candidate := &candidateDomain.Candidate{ID: uuid.Must(uuid.NewV7()), Name: "Grace"}

		mockUseCase.On("Login", mock.Anything, "Grace", "grace@example.test").Return(candidate, nil).Once()

		c, w := formContext(http.MethodPost, "/api/candidates/login",
			url.Values{"name": {"Grace"}, "email": {"grace@example.test"}})
		handler.LoginHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, candidate.ID.String(), response.CandidateID)
		assert.Equal(t, "OTP sent to your email", response.Message)
	})

	t.Run("Success_JSON", func(t *testing.T) {
		handler, mockUseCase := setupCandidateHandler(t)
		candidate := &candidateDomain.Candidate{ID: uuid.Must(uuid.NewV7())}

		mockUseCase.On("Login", mock.Anything, "Grace", "grace@example.test").Return(candidate, nil).Once()

		c, w := jsonContext(http.MethodPost, "/api/candidates/login",
			dto.LoginRequest{Name: "Grace", Email: "grace@example.test"})
		handler.LoginHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "otp\"")
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		handler, _ := setupCandidateHandler(t)

		c, w := formContext(http.MethodPost, "/api/candidates/login",
			url.Values{"name": {"Grace"}, "email": {"grace"}})
		handler.LoginHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCandidateHandler_VerifyOTPHandler(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	t.Run("Success_Verified", func(t *testing.T) {
		handler, mockUseCase := setupCandidateHandler(t)

		mockUseCase.On("VerifyOTP", mock.Anything, id, "123456").Return(true, nil).Once()

		c, w := formContext(http.MethodPost, "/api/candidates/verify_otp",
			url.Values{"candidate_id": {id.String()}, "otp": {"123456"}})
		handler.VerifyOTPHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "OTP verified")
	})

	t.Run("Error_Mismatch", func(t *testing.T) {
		handler, mockUseCase := setupCandidateHandler(t)

		mockUseCase.On("VerifyOTP", mock.Anything, id, "000000").Return(false, nil).Once()

		c, w := jsonContext(http.MethodPost, "/api/candidates/verify_otp",
			dto.VerifyOTPRequest{CandidateID: id.String(), OTP: "000000"})
		handler.VerifyOTPHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "invalid_otp", response.Error)
	})

	t.Run("Error_UnknownCandidate", func(t *testing.T) {
		handler, mockUseCase := setupCandidateHandler(t)

		mockUseCase.On("VerifyOTP", mock.Anything, id, "123456").
			Return(false, candidateDomain.ErrCandidateNotFound).
			Once()

		c, w := formContext(http.MethodPost, "/api/candidates/verify_otp",
			url.Values{"candidate_id": {id.String()}, "otp": {"123456"}})
		handler.VerifyOTPHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_MalformedCandidateID", func(t *testing.T) {
		handler, _ := setupCandidateHandler(t)

		c, w := formContext(http.MethodPost, "/api/candidates/verify_otp",
			url.Values{"candidate_id": {"42"}, "otp": {"123456"}})
		handler.VerifyOTPHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_Internal", func(t *testing.T) {
		handler, mockUseCase := setupCandidateHandler(t)

		mockUseCase.On("VerifyOTP", mock.Anything, id, "123456").Return(false, errors.New("db down")).Once()

		c, w := formContext(http.MethodPost, "/api/candidates/verify_otp",
			url.Values{"candidate_id": {id.String()}, "otp": {"123456"}})
		handler.VerifyOTPHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
