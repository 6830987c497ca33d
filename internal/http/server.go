// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	authHTTP "github.com/allisson/hireflow/internal/auth/http"
	authUseCase "github.com/allisson/hireflow/internal/auth/usecase"
	candidateHTTP "github.com/allisson/hireflow/internal/candidate/http"
	"github.com/allisson/hireflow/internal/config"
	"github.com/allisson/hireflow/internal/metrics"
)

// Server represents the public API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new Server. The router is attached by SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with every API route.
//
// Route groups:
//   - /api/auth: signup, logins, refresh, me and the password reset pair
//   - /api/admin: identity lookups for admin and superadmin roles
//   - /api/candidates: OTP login and verification
//
// ctx bounds the lifetime of background goroutines owned by middlewares.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	authHandler *authHTTP.AuthHandler,
	adminHandler *authHTTP.AdminHandler,
	candidateHandler *candidateHTTP.CandidateHandler,
	authUC authUseCase.AuthUseCase,
	metricsProvider *metrics.Provider,
) error {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	// An empty list ignores X-Forwarded-For; ClientIP is then the peer address.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Credential and OTP endpoints share one per-IP bucket store.
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.RateLimitAuthEnabled {
		throttle = authHTTP.IPRateLimitMiddleware(
			ctx,
			cfg.RateLimitAuthRequestsPerSec,
			cfg.RateLimitAuthBurst,
			s.logger,
		)
	}

	authenticate := authHTTP.AuthenticationMiddleware(authUC, s.logger)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/signup", authHandler.SignupHandler)
		auth.POST("/login-json", throttle, authHandler.LoginJSONHandler)
		auth.POST("/login", throttle, authHandler.LoginFormHandler)
		auth.POST("/refresh", authHandler.RefreshHandler)
		auth.POST("/forgot-password", throttle, authHandler.ForgotPasswordHandler)
		auth.POST("/reset-password", authHandler.ResetPasswordHandler)
		auth.GET("/me", authenticate, authHandler.MeHandler)

		admin := api.Group("/admin")
		admin.Use(authenticate, authHTTP.RequireRoles(s.logger, authDomain.RoleAdmin, authDomain.RoleSuperadmin))
		admin.GET("/users", adminHandler.ListUsersHandler)
		admin.GET("/users/:id", adminHandler.GetUserHandler)

		candidates := api.Group("/candidates")
		candidates.Use(throttle)
		candidates.POST("/login", candidateHandler.LoginHandler)
		candidates.POST("/verify_otp", candidateHandler.VerifyOTPHandler)
	}

	s.router = router
	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
