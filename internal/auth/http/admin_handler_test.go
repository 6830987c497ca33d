package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	"github.com/allisson/hireflow/internal/auth/http/dto"
	usecaseMocks "github.com/allisson/hireflow/internal/auth/usecase/mocks"
)

func setupAdminHandler(t *testing.T) (*AdminHandler, *usecaseMocks.MockAuthUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockUseCase := &usecaseMocks.MockAuthUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAdminHandler(mockUseCase, logger), mockUseCase
}

func TestAdminHandler_GetUserHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupAdminHandler(t)
		identity := testIdentity(authDomain.RoleRecruiter)

		mockUseCase.On("GetIdentity", mock.Anything, identity.ID).Return(identity, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/admin/users/"+identity.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: identity.ID.String()}}
		handler.GetUserHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.IdentityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, identity.ID.String(), response.ID)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupAdminHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/admin/users/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		handler.GetUserHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupAdminHandler(t)
		id := uuid.Must(uuid.NewV7())

		mockUseCase.On("GetIdentity", mock.Anything, id).Return(nil, authDomain.ErrIdentityNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/api/admin/users/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.GetUserHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminHandler_ListUsersHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupAdminHandler(t)
		identities := []*authDomain.Identity{testIdentity(authDomain.RoleCompany)}

		mockUseCase.On("ListIdentities", mock.Anything, 0, 50).Return(identities, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/admin/users", nil)
		handler.ListUsersHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListIdentitiesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data, 1)
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler, _ := setupAdminHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/admin/users?limit=1000", nil)
		handler.ListUsersHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_UseCase", func(t *testing.T) {
		handler, mockUseCase := setupAdminHandler(t)

		mockUseCase.On("ListIdentities", mock.Anything, 10, 5).Return(nil, errors.New("db down")).Once()

		c, w := createTestContext(http.MethodGet, "/api/admin/users?offset=10&limit=5", nil)
		handler.ListUsersHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
