package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskmaster/auth-service/internal/auth"
	"github.com/taskmaster/auth-service/pkg/health"
	"github.com/taskmaster/auth-service/pkg/middleware"
)

// RouterConfig bundles the handlers and shared infrastructure the router
// wires together.
type RouterConfig struct {
	Auth   *AuthHandler
	OAuth  *OAuthHandler // optional, nil disables the federated routes
	JWT    *auth.JWTManager
	Health *health.Handler
	Logger *slog.Logger
	CORS   CORSConfig
}

// NewRouter builds the chi router with all middleware and routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("auth"))
	r.Use(CORS(cfg.CORS))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authenticate := middleware.Auth(accessTokenValidator(cfg.JWT))
	credentialLimit := middleware.RateLimit(middleware.DefaultRateLimitConfig())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Credential endpoints carry the extra per-IP limiter.
		r.Group(func(r chi.Router) {
			r.Use(credentialLimit)
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/password/forgot", cfg.Auth.ForgotPassword)
			if cfg.OAuth != nil {
				r.Post("/google/token", cfg.OAuth.GoogleToken)
			}
		})

		r.Post("/refresh", cfg.Auth.Refresh)
		r.Get("/password/reset/{token}/verify", cfg.Auth.VerifyResetToken)
		r.Post("/password/reset/{token}", cfg.Auth.ResetPassword)
		r.Get("/verify-email/{token}", cfg.Auth.VerifyEmail)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", cfg.Auth.Me)
			r.Post("/logout", cfg.Auth.Logout)
			r.Post("/verify-email", cfg.Auth.ResendVerification)
		})
	})

	return r
}

// accessTokenValidator bridges the JWT manager into the shared auth
// middleware's claims shape.
func accessTokenValidator(jwtManager *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			AccountID: claims.Subject,
			Email:     claims.Email,
			Role:      claims.Role,
		}, nil
	}
}
