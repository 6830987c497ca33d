package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	authUseCase "github.com/allisson/hireflow/internal/auth/usecase"
	"github.com/allisson/hireflow/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware resolves the Bearer access token in the
// Authorization header to an identity and stores it in the request context.
//
// Error handling:
//   - Missing or malformed header, bad or expired token → 401
//   - Token subject no longer exists → 404
//   - Other errors → 500
func AuthenticationMiddleware(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		identity, err := authUseCase.ResolveCurrentIdentity(c.Request.Context(), token)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireRoles admits only identities whose role is one of roles. It must run
// after AuthenticationMiddleware.
func RequireRoles(logger *slog.Logger, roles ...authDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := GetIdentity(c.Request.Context())
		if _, err := authDomain.Authorize(identity, roles...); err != nil {
			if identity != nil {
				logger.Debug("authorization failed: role not permitted",
					slog.String("identity_id", identity.ID.String()),
					slog.String("role", identity.Role.String()),
					slog.String("path", c.FullPath()))
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>", case-insensitive.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
