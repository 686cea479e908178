package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/pkg/jwtutil"
	"github.com/moementrabelsi/mma/pkg/logger"
	"go.uber.org/zap"
)

const principalKey = "principal"

// AuthMiddleware validates the bearer token and stores its claims as the request principal
func AuthMiddleware(j *jwtutil.JWTUtil, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return apperr.Unauthorized("Access denied. No token provided.")
			}

			// Check if it's a Bearer token
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid Authorization header format")
				return apperr.Unauthorized("Invalid authorization format, expected Bearer token")
			}

			claims, err := j.ValidateToken(parts[1])
			if err != nil {
				m.AuthErrorsCounter.Inc()
				log.Warn("Invalid JWT token", zap.Error(err))
				return apperr.Unauthorized("Invalid or expired token")
			}

			c.Set(principalKey, claims)
			c.Set("logger", log.With(zap.String("user_id", claims.ID)))
			return next(c)
		}
	}
}

// RequireAdmin rejects principals without the admin claim. It must run after AuthMiddleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := GetPrincipal(c)
		if !ok {
			return apperr.Unauthorized("Access denied. No token provided.")
		}
		if !claims.IsAdmin {
			logger.FromContext(c).Warn("Admin access denied", zap.String("username", claims.Username))
			return apperr.Forbidden("Access denied. Admin privileges required.")
		}
		return next(c)
	}
}

// GetPrincipal retrieves the claims stored by AuthMiddleware
func GetPrincipal(c echo.Context) (*jwtutil.Claims, bool) {
	claims, ok := c.Get(principalKey).(*jwtutil.Claims)
	return claims, ok && claims != nil
}
