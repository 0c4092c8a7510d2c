// Package loggingmw emits one structured line per request and makes the
// request-scoped logger available to handlers through the context.
package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
)

type options struct {
	skip  []string
	attrs func(echo.Context) []any
}

type Option func(*options)

// SkipPrefixes suppresses the completion line for matching paths. The
// logger is still attached to the context.
func SkipPrefixes(prefixes ...string) Option {
	return func(o *options) { o.skip = append(o.skip, prefixes...) }
}

// WithAttrs adds attributes that are only known after the handler chain ran,
// such as the session bound by later middleware.
func WithAttrs(fn func(echo.Context) []any) Option {
	return func(o *options) { o.attrs = fn }
}

func RequestLogger(base *slog.Logger, opts ...Option) echo.MiddlewareFunc {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			dur := time.Since(start)

			if err != nil {
				c.Error(err)
			}
			if skipped(o.skip, c.Request().URL.Path) {
				return nil
			}

			status := c.Response().Status
			args := []any{"status", status, "duration_ms", dur.Milliseconds()}
			if o.attrs != nil {
				args = append(args, o.attrs(c)...)
			}
			if strings.HasPrefix(c.Response().Header().Get(echo.HeaderContentType), "text/event-stream") {
				args = append(args, "stream", true)
			}

			switch {
			case status >= 500:
				l.Error("request completed", append(args, "error", errStr(err))...)
			case status >= 400:
				l.Warn("request completed", args...)
			default:
				l.Info("request completed", append(args, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func skipped(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
