package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/hireflow/internal/auth/http/dto"
	authUseCase "github.com/allisson/hireflow/internal/auth/usecase"
	"github.com/allisson/hireflow/internal/httputil"
)

// AdminHandler serves identity lookups for administrators. Routes are
// guarded by RequireRoles(admin, superadmin).
type AdminHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// GetUserHandler returns one identity's public view.
// GET /api/admin/users/:id
func (h *AdminHandler) GetUserHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, errors.New("invalid user id format"), h.logger)
		return
	}

	identity, err := h.authUseCase.GetIdentity(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
}

// ListUsersHandler returns a page of identities, newest first.
// GET /api/admin/users?offset=0&limit=50
func (h *AdminHandler) ListUsersHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	identities, err := h.authUseCase.ListIdentities(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentitiesToListResponse(identities))
}
