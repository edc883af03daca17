package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Makepad-fr/tada/internal/auth"
)

// bearerAuth rejects requests whose Authorization header does not carry
// the configured token, or when that token has expired.
func bearerAuth(token *auth.TokenInfo, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			if token.Expired(now()) || !token.Matches(header) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
			}
			return next(c)
		}
	}
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req, res := c.Request(), c.Response()
			entry := logger.WithFields(log.Fields{
				"method":     req.Method,
				"path":       c.Path(),
				"status":     res.Status,
				"request_id": res.Header().Get(echo.HeaderXRequestID),
				"latency_ms": time.Since(start).Milliseconds(),
			})
			if res.Status >= http.StatusInternalServerError {
				entry.WithError(err).Error("request")
			} else {
				entry.Debug("request")
			}
			return nil
		}
	}
}
