// Package sessionmw binds each request to a storefront session through a
// signed cookie.
package sessionmw

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/storefront"
	"github.com/Skotchmaster/bookstore/internal/tokens"
)

const contextKey = "session"

type Config struct {
	Manager      *storefront.Manager
	Secret       []byte
	SecureCookie bool
}

// Middleware loads the session named by the cookie, or starts a new one when
// the cookie is missing, invalid or names a session that no longer exists.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context())

			var s *storefront.Session
			if ck, err := c.Cookie(tokens.SessionCookie); err == nil && ck.Value != "" {
				sid, err := tokens.SessionFromToken(ck.Value, cfg.Secret)
				if err != nil {
					l.Debug("session_token_rejected", "error", err)
				} else if found, ok := cfg.Manager.Get(sid); ok {
					s = found
				}
			}

			if s == nil {
				s = cfg.Manager.New()
				now := time.Now()
				tok, err := tokens.SignSession(s.ID, cfg.Secret, now)
				if err != nil {
					l.Error("session_sign_failed", "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
				}
				c.SetCookie(tokens.CreateCookie(tokens.SessionCookie, tok, "/", now.Add(tokens.SessionTTL), cfg.SecureCookie))
			}

			c.Set(contextKey, s)
			c.SetRequest(c.Request().WithContext(logging.With(c.Request().Context(), "session_id", s.ID)))
			return next(c)
		}
	}
}

// FromContext returns the request's session. It panics if Middleware did
// not run, which is a routing bug.
func FromContext(c echo.Context) *storefront.Session {
	return c.Get(contextKey).(*storefront.Session)
}

// WithSession binds s to c without a cookie round trip.
func WithSession(c echo.Context, s *storefront.Session) {
	c.Set(contextKey, s)
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := FromContext(c)
		if s.User() == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		if !s.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

// LogAttrs names the request's session for the access log, if one was bound.
func LogAttrs(c echo.Context) []any {
	if s, ok := c.Get(contextKey).(*storefront.Session); ok {
		return []any{"session_id", s.ID}
	}
	return nil
}
